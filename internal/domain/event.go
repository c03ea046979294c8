package domain

// EventKind é o tipo normalizado de um evento de provider. Cada adapter
// (stripe, transak) traduz o payload proprietário para esta forma única
// antes de chegar na reconciliação — nada de branching por provider lá dentro.
type EventKind string

const (
	EventKindProcessing EventKind = "processing" // progresso intermediário
	EventKindSuccess    EventKind = "success"    // pagamento fiat confirmado
	EventKindCompleted  EventKind = "completed"  // fluxo inteiro concluído no provider
	EventKindFailure    EventKind = "failure"
	EventKindCancel     EventKind = "cancel"
)

// TargetStatus mapeia o tipo de evento para o status alvo (tabela fixa).
func (k EventKind) TargetStatus() (TransactionStatus, bool) {
	switch k {
	case EventKindProcessing:
		return StatusPaymentProcessing, true
	case EventKindSuccess:
		return StatusPaymentConfirmed, true
	case EventKindCompleted:
		return StatusCompleted, true
	case EventKindFailure:
		return StatusFailed, true
	case EventKindCancel:
		return StatusCancelled, true
	}
	return "", false
}

// ProviderEvent é o evento de webhook já normalizado e com assinatura
// verificada. Efêmero: não persiste como entidade própria, só o marcador
// de dedup (EventID) fica gravado no metadata da transação.
type ProviderEvent struct {
	Provider Provider
	EventID  string // id do evento no provider; aceito no máximo uma vez

	// Providers divergem na chave que usam: stripe manda o payment intent
	// dele (PaymentRef), o on-ramp ecoa nosso próprio id (TransactionID).
	PaymentRef    string
	TransactionID string

	Kind            EventKind
	TransactionHash *string
	Reason          *string
}
