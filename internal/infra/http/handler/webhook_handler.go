package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/infra/provider"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/usecase"
	"github.com/rs/zerolog/log"
)

// maxWebhookBody limita o corpo do webhook (payloads de provider são pequenos)
const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler recebe callbacks dos providers. Contrato at-least-once:
// duplicado, atrasado e fora-de-ordem respondem 200 para parar a reentrega —
// só assinatura inválida e falha transitória nossa recusam o evento.
type WebhookHandler struct {
	processWebhookUseCase *usecase.ProcessWebhookUseCase
	stripeVerifier        provider.WebhookVerifier
	transakVerifier       provider.WebhookVerifier
}

func NewWebhookHandler(
	processUC *usecase.ProcessWebhookUseCase,
	stripeVerifier provider.WebhookVerifier,
	transakVerifier provider.WebhookVerifier,
) *WebhookHandler {
	return &WebhookHandler{
		processWebhookUseCase: processUC,
		stripeVerifier:        stripeVerifier,
		transakVerifier:       transakVerifier,
	}
}

// Stripe processa o callback do stripe (header Stripe-Signature)
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.stripeVerifier, r.Header.Get("Stripe-Signature"))
}

// Transak processa o callback do on-ramp (header X-Transak-Signature)
func (h *WebhookHandler) Transak(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.transakVerifier, r.Header.Get("X-Transak-Signature"))
}

func (h *WebhookHandler) handle(w http.ResponseWriter, r *http.Request, verifier provider.WebhookVerifier, signature string) {
	if verifier == nil {
		respondError(w, http.StatusServiceUnavailable, "Provider não configurado")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Falha ao ler payload")
		return
	}

	// Assinatura ANTES de qualquer lookup: resposta idêntica exista ou não
	// a transação, nada de estado é tocado
	event, err := verifier.VerifyAndParse(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrInvalidSignature):
			respondError(w, http.StatusBadRequest, "Assinatura inválida")
		case errors.Is(err, provider.ErrUnhandledEvent):
			// Tipo que não nos interessa: 200 para o provider não reenviar
			respondJSON(w, http.StatusOK, map[string]bool{"received": true})
		default:
			respondError(w, http.StatusBadRequest, "Payload inválido")
		}
		return
	}

	output, err := h.processWebhookUseCase.Execute(r.Context(), *event)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			// Referência desconhecida: warning e sucesso-equivalente —
			// reentrega infinita não vai fazer a transação aparecer
			log.Warn().Str("event_id", event.EventID).Str("provider", string(event.Provider)).
				Msg("Webhook para transação desconhecida")
			respondJSON(w, http.StatusOK, map[string]bool{"received": true})
		case errors.Is(err, domain.ErrInvalidTransition):
			// Fora de ordem sem como aplicar: warning e 200 (o dedup não foi
			// gravado, então uma reentrega futura ainda pode aplicar)
			log.Warn().Str("event_id", event.EventID).Err(err).
				Msg("Webhook fora de ordem absorvido")
			respondJSON(w, http.StatusOK, map[string]bool{"received": true})
		default:
			// Falha transitória nossa (banco fora etc): 500 para o provider
			// reentregar — o dedup não foi gravado de propósito
			log.Error().Err(err).Str("event_id", event.EventID).Msg("Falha ao processar webhook")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	if output.Duplicate {
		log.Info().Str("event_id", event.EventID).Msg("Webhook duplicado absorvido (replay idempotente)")
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
