package transak

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/infra/provider"
)

// WebhookVerifier valida o webhook do on-ramp: HMAC-SHA256 hex do corpo
// inteiro no header x-transak-signature. Diferente do stripe, o on-ramp
// trabalha order-first e ecoa o NOSSO id de transação no partnerOrderId.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

type webhookEnvelope struct {
	EventID     string `json:"eventID"`
	WebhookData struct {
		ID              string `json:"id"`
		PartnerOrderID  string `json:"partnerOrderId"`
		Status          string `json:"status"`
		TransactionHash string `json:"transactionHash"`
		StatusReason    string `json:"statusReason"`
	} `json:"webhookData"`
}

func (v *WebhookVerifier) VerifyAndParse(payload []byte, signature string) (*domain.ProviderEvent, error) {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, provider.ErrInvalidSignature
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrMalformedPayload, err)
	}
	if envelope.EventID == "" || envelope.WebhookData.ID == "" {
		return nil, provider.ErrMalformedPayload
	}

	kind, ok := eventKind(envelope.WebhookData.Status)
	if !ok {
		return nil, provider.ErrUnhandledEvent
	}

	event := &domain.ProviderEvent{
		Provider:      domain.ProviderTransak,
		EventID:       envelope.EventID,
		PaymentRef:    envelope.WebhookData.ID,
		TransactionID: envelope.WebhookData.PartnerOrderID,
		Kind:          kind,
	}
	if envelope.WebhookData.TransactionHash != "" {
		hash := envelope.WebhookData.TransactionHash
		event.TransactionHash = &hash
	}
	if envelope.WebhookData.StatusReason != "" {
		reason := envelope.WebhookData.StatusReason
		event.Reason = &reason
	}
	return event, nil
}

func eventKind(status string) (domain.EventKind, bool) {
	switch status {
	case "ORDER_PAYMENT_VERIFYING":
		return domain.EventKindProcessing, true
	case "ORDER_PAYMENT_DONE":
		return domain.EventKindSuccess, true
	case "ORDER_COMPLETED":
		// O on-ramp considera o fluxo dele encerrado; para nós isso só é
		// aceitável depois de usdt_sent — fora de hora vira no-op absorvido.
		return domain.EventKindCompleted, true
	case "ORDER_FAILED":
		return domain.EventKindFailure, true
	case "ORDER_CANCELLED":
		return domain.EventKindCancel, true
	}
	return "", false
}
