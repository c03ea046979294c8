package provider

import (
	"errors"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
)

// WebhookVerifier é o contrato de cada adapter de provider: verifica a
// assinatura do payload cru e traduz para o evento normalizado do domínio.
// A verificação roda ANTES de qualquer lookup de transação — assinatura
// inválida não vaza nem se a transação existe.
type WebhookVerifier interface {
	VerifyAndParse(payload []byte, signature string) (*domain.ProviderEvent, error)
}

var (
	// ErrInvalidSignature: payload rejeitado sem tocar em estado nenhum.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnhandledEvent: tipo de evento que não nos interessa (providers
	// mandam dezenas de tipos). Respondemos 200 e seguimos a vida.
	ErrUnhandledEvent = errors.New("unhandled webhook event type")

	// ErrMalformedPayload: JSON quebrado ou sem os campos obrigatórios.
	ErrMalformedPayload = errors.New("malformed webhook payload")
)
