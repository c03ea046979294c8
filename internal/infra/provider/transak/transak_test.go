package transak

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/infra/provider"
)

const testSecret = "transak_test_secret"

func sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func orderPayload(status string) []byte {
	return []byte(fmt.Sprintf(`{
		"eventID": "evt_abc",
		"webhookData": {
			"id": "order_123",
			"partnerOrderId": "tx-789",
			"status": %q
		}
	}`, status))
}

func TestVerifyAndParseOrder(t *testing.T) {
	payload := orderPayload("ORDER_PAYMENT_DONE")

	event, err := NewWebhookVerifier(testSecret).VerifyAndParse(payload, sign(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Provider != domain.ProviderTransak {
		t.Errorf("provider = %s", event.Provider)
	}
	if event.EventID != "evt_abc" || event.PaymentRef != "order_123" || event.TransactionID != "tx-789" {
		t.Errorf("event fields = %+v", event)
	}
	if event.Kind != domain.EventKindSuccess {
		t.Errorf("kind = %s, want success", event.Kind)
	}
}

func TestVerifyAndParseStatusMapping(t *testing.T) {
	tests := []struct {
		status string
		kind   domain.EventKind
	}{
		{"ORDER_PAYMENT_VERIFYING", domain.EventKindProcessing},
		{"ORDER_PAYMENT_DONE", domain.EventKindSuccess},
		{"ORDER_COMPLETED", domain.EventKindCompleted},
		{"ORDER_FAILED", domain.EventKindFailure},
		{"ORDER_CANCELLED", domain.EventKindCancel},
	}
	for _, tt := range tests {
		payload := orderPayload(tt.status)
		event, err := NewWebhookVerifier(testSecret).VerifyAndParse(payload, sign(payload))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.status, err)
		}
		if event.Kind != tt.kind {
			t.Errorf("%s: kind = %s, want %s", tt.status, event.Kind, tt.kind)
		}
	}
}

func TestVerifyAndParseHashAndReason(t *testing.T) {
	payload := []byte(`{
		"eventID": "evt_abc",
		"webhookData": {
			"id": "order_123",
			"partnerOrderId": "tx-789",
			"status": "ORDER_FAILED",
			"transactionHash": "0xdeadbeef",
			"statusReason": "bank rejected the charge"
		}
	}`)

	event, err := NewWebhookVerifier(testSecret).VerifyAndParse(payload, sign(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.TransactionHash == nil || *event.TransactionHash != "0xdeadbeef" {
		t.Errorf("hash = %v", event.TransactionHash)
	}
	if event.Reason == nil || *event.Reason != "bank rejected the charge" {
		t.Errorf("reason = %v", event.Reason)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	payload := orderPayload("ORDER_PAYMENT_DONE")

	verifier := NewWebhookVerifier(testSecret)
	for _, signature := range []string{"", "deadbeef", sign([]byte("other payload"))} {
		_, err := verifier.VerifyAndParse(payload, signature)
		if !errors.Is(err, provider.ErrInvalidSignature) {
			t.Errorf("signature %q: err = %v, want ErrInvalidSignature", signature, err)
		}
	}

	// Secret errado produz assinatura errada
	other := NewWebhookVerifier("another_secret")
	if _, err := other.VerifyAndParse(payload, sign(payload)); !errors.Is(err, provider.ErrInvalidSignature) {
		t.Errorf("wrong secret: err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyUnhandledStatus(t *testing.T) {
	payload := orderPayload("ORDER_CREATED")
	_, err := NewWebhookVerifier(testSecret).VerifyAndParse(payload, sign(payload))
	if !errors.Is(err, provider.ErrUnhandledEvent) {
		t.Errorf("err = %v, want ErrUnhandledEvent", err)
	}
}

func TestVerifyMalformedPayload(t *testing.T) {
	for _, raw := range []string{"not json", `{"webhookData": {"id": "order_123"}}`, `{"eventID": "evt_abc"}`} {
		payload := []byte(raw)
		_, err := NewWebhookVerifier(testSecret).VerifyAndParse(payload, sign(payload))
		if !errors.Is(err, provider.ErrMalformedPayload) {
			t.Errorf("payload %q: err = %v, want ErrMalformedPayload", raw, err)
		}
	}
}
