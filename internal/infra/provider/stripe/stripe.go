package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/infra/provider"
)

// signatureTolerance rejeita headers muito antigos (proteção contra replay
// de payload capturado).
const signatureTolerance = 5 * time.Minute

// WebhookVerifier verifica o header Stripe-Signature (t=...,v1=...) e
// normaliza o payment intent para o evento interno. O stripe referencia a
// transação pelo id DELE (payment intent) e ecoa o nosso no metadata.
type WebhookVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret), now: time.Now}
}

type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string `json:"id"`
			Metadata struct {
				TransactionID string `json:"transaction_id"`
			} `json:"metadata"`
			LastPaymentError *struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}

func (v *WebhookVerifier) VerifyAndParse(payload []byte, signature string) (*domain.ProviderEvent, error) {
	if err := v.verifySignature(payload, signature); err != nil {
		return nil, err
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrMalformedPayload, err)
	}
	if envelope.ID == "" || envelope.Data.Object.ID == "" {
		return nil, provider.ErrMalformedPayload
	}

	kind, ok := eventKind(envelope.Type)
	if !ok {
		return nil, provider.ErrUnhandledEvent
	}

	event := &domain.ProviderEvent{
		Provider:      domain.ProviderStripe,
		EventID:       envelope.ID,
		PaymentRef:    envelope.Data.Object.ID,
		TransactionID: envelope.Data.Object.Metadata.TransactionID,
		Kind:          kind,
	}
	if envelope.Data.Object.LastPaymentError != nil && envelope.Data.Object.LastPaymentError.Message != "" {
		reason := envelope.Data.Object.LastPaymentError.Message
		event.Reason = &reason
	}
	return event, nil
}

func eventKind(eventType string) (domain.EventKind, bool) {
	switch eventType {
	case "payment_intent.processing":
		return domain.EventKindProcessing, true
	case "payment_intent.succeeded":
		return domain.EventKindSuccess, true
	case "payment_intent.payment_failed":
		return domain.EventKindFailure, true
	case "payment_intent.canceled":
		return domain.EventKindCancel, true
	}
	return "", false
}

// verifySignature valida o esquema do stripe: HMAC-SHA256 do "t.payload"
// com comparação em tempo constante.
func (v *WebhookVerifier) verifySignature(payload []byte, header string) error {
	var timestamp string
	var candidates []string

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return provider.ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return provider.ErrInvalidSignature
	}
	age := v.now().Sub(time.Unix(unix, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return provider.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(expected), []byte(candidate)) {
			return nil
		}
	}
	return provider.ErrInvalidSignature
}
