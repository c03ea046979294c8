package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/infra/provider"
)

const testSecret = "whsec_test"

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestVerifier() *WebhookVerifier {
	v := NewWebhookVerifier(testSecret)
	v.now = func() time.Time { return testNow }
	return v
}

func sign(payload []byte, at time.Time) string {
	timestamp := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func intentPayload(eventType string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_123",
		"type": %q,
		"data": {
			"object": {
				"id": "pi_456",
				"metadata": {"transaction_id": "tx-789"}
			}
		}
	}`, eventType))
}

func TestVerifyAndParseSucceeded(t *testing.T) {
	payload := intentPayload("payment_intent.succeeded")

	event, err := newTestVerifier().VerifyAndParse(payload, sign(payload, testNow))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Provider != domain.ProviderStripe {
		t.Errorf("provider = %s", event.Provider)
	}
	if event.EventID != "evt_123" || event.PaymentRef != "pi_456" || event.TransactionID != "tx-789" {
		t.Errorf("event fields = %+v", event)
	}
	if event.Kind != domain.EventKindSuccess {
		t.Errorf("kind = %s, want success", event.Kind)
	}
}

func TestVerifyAndParseEventKinds(t *testing.T) {
	tests := []struct {
		eventType string
		kind      domain.EventKind
	}{
		{"payment_intent.processing", domain.EventKindProcessing},
		{"payment_intent.succeeded", domain.EventKindSuccess},
		{"payment_intent.payment_failed", domain.EventKindFailure},
		{"payment_intent.canceled", domain.EventKindCancel},
	}
	for _, tt := range tests {
		payload := intentPayload(tt.eventType)
		event, err := newTestVerifier().VerifyAndParse(payload, sign(payload, testNow))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.eventType, err)
		}
		if event.Kind != tt.kind {
			t.Errorf("%s: kind = %s, want %s", tt.eventType, event.Kind, tt.kind)
		}
	}
}

func TestVerifyAndParseFailureReason(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "payment_intent.payment_failed",
		"data": {
			"object": {
				"id": "pi_456",
				"metadata": {"transaction_id": "tx-789"},
				"last_payment_error": {"message": "card declined"}
			}
		}
	}`)

	event, err := newTestVerifier().VerifyAndParse(payload, sign(payload, testNow))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Reason == nil || *event.Reason != "card declined" {
		t.Errorf("reason = %v, want card declined", event.Reason)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	payload := intentPayload("payment_intent.succeeded")

	tests := []struct {
		name      string
		signature string
	}{
		{"empty header", ""},
		{"missing v1", fmt.Sprintf("t=%d", testNow.Unix())},
		{"garbage v1", fmt.Sprintf("t=%d,v1=deadbeef", testNow.Unix())},
		{"non-numeric timestamp", "t=abc,v1=deadbeef"},
		{"wrong secret", func() string {
			mac := hmac.New(sha256.New, []byte("whsec_other"))
			fmt.Fprintf(mac, "%d.", testNow.Unix())
			mac.Write(payload)
			return fmt.Sprintf("t=%d,v1=%s", testNow.Unix(), hex.EncodeToString(mac.Sum(nil)))
		}()},
	}

	for _, tt := range tests {
		_, err := newTestVerifier().VerifyAndParse(payload, tt.signature)
		if !errors.Is(err, provider.ErrInvalidSignature) {
			t.Errorf("%s: err = %v, want ErrInvalidSignature", tt.name, err)
		}
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	payload := intentPayload("payment_intent.succeeded")

	// Assinatura correta mas velha demais: replay de payload capturado
	stale := sign(payload, testNow.Add(-10*time.Minute))
	if _, err := newTestVerifier().VerifyAndParse(payload, stale); !errors.Is(err, provider.ErrInvalidSignature) {
		t.Errorf("stale: err = %v, want ErrInvalidSignature", err)
	}

	future := sign(payload, testNow.Add(10*time.Minute))
	if _, err := newTestVerifier().VerifyAndParse(payload, future); !errors.Is(err, provider.ErrInvalidSignature) {
		t.Errorf("future: err = %v, want ErrInvalidSignature", err)
	}

	// Dentro da tolerância passa
	recent := sign(payload, testNow.Add(-3*time.Minute))
	if _, err := newTestVerifier().VerifyAndParse(payload, recent); err != nil {
		t.Errorf("recent: unexpected error: %v", err)
	}
}

func TestVerifyUnhandledEventType(t *testing.T) {
	payload := intentPayload("charge.refunded")
	_, err := newTestVerifier().VerifyAndParse(payload, sign(payload, testNow))
	if !errors.Is(err, provider.ErrUnhandledEvent) {
		t.Errorf("err = %v, want ErrUnhandledEvent", err)
	}
}

func TestVerifyMalformedPayload(t *testing.T) {
	for _, payload := range []string{"not json", `{"id": "evt_123"}`, `{"type": "payment_intent.succeeded"}`} {
		raw := []byte(payload)
		_, err := newTestVerifier().VerifyAndParse(raw, sign(raw, testNow))
		if !errors.Is(err, provider.ErrMalformedPayload) {
			t.Errorf("payload %q: err = %v, want ErrMalformedPayload", payload, err)
		}
	}
}
