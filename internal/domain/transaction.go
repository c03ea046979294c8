package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Provider string

const (
	ProviderStripe  Provider = "stripe"
	ProviderTransak Provider = "transak"
)

func (p Provider) Valid() bool {
	return p == ProviderStripe || p == ProviderTransak
}

type Network string

const (
	NetworkTRC20 Network = "TRC20"
	NetworkERC20 Network = "ERC20"
	NetworkBEP20 Network = "BEP20"
)

type TransactionStatus string

const (
	StatusInitiated         TransactionStatus = "initiated"
	StatusPending           TransactionStatus = "pending"
	StatusPaymentProcessing TransactionStatus = "payment_processing"
	StatusPaymentConfirmed  TransactionStatus = "payment_confirmed"
	StatusConvertingToUsdt  TransactionStatus = "converting_to_usdt"
	StatusUsdtSent          TransactionStatus = "usdt_sent"
	StatusCompleted         TransactionStatus = "completed"
	StatusFailed            TransactionStatus = "failed"
	StatusCancelled         TransactionStatus = "cancelled"
)

// IsTerminal: de um status terminal não se sai mais (requisito de auditoria).
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// transitionPredecessors define quais status podem anteceder cada alvo.
// payment_processing é opcional (nem todo provider manda evento intermediário),
// mas payment_confirmed e usdt_sent são portões obrigatórios: pending nunca
// pula direto para completed.
var transitionPredecessors = map[TransactionStatus][]TransactionStatus{
	StatusPending:           {StatusInitiated},
	StatusPaymentProcessing: {StatusInitiated, StatusPending},
	StatusPaymentConfirmed:  {StatusInitiated, StatusPending, StatusPaymentProcessing},
	StatusConvertingToUsdt:  {StatusPaymentConfirmed},
	StatusUsdtSent:          {StatusConvertingToUsdt},
	StatusCompleted:         {StatusUsdtSent},
}

// CanTransitionTo valida a ordem da máquina de estados.
// failed e cancelled são absorventes: alcançáveis de qualquer status não-terminal.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == StatusFailed || target == StatusCancelled {
		return true
	}
	for _, pred := range transitionPredecessors[target] {
		if s == pred {
			return true
		}
	}
	return false
}

// Transaction é a entidade central: uma compra de USDT paga em fiat.
// Clean Architecture: a entidade não sabe o que é JSON nem SQL.
type Transaction struct {
	ID                string
	UserID            string
	Provider          Provider
	ProviderPaymentID *string // id do provider (payment intent / order), ausente até ele atribuir um
	AmountUSD         decimal.Decimal
	Currency          string
	UsdtAmount        decimal.Decimal
	ExchangeRate      decimal.Decimal
	FeeAmount         decimal.Decimal
	FeePercentage     decimal.Decimal
	WalletAddress     string
	Network           Network
	Status            TransactionStatus
	TransactionHash   *string // imutável depois de setado (fundos despachados)
	ErrorMessage      *string
	Metadata          map[string]interface{}

	InitiatedAt        time.Time
	PaymentConfirmedAt *time.Time
	UsdtSentAt         *time.Time
	CompletedAt        *time.Time
	UpdatedAt          time.Time
}

// TransitionEvidence carrega os dados que acompanham uma transição
// (hash do envio, motivo de falha, id que o provider atribuiu).
type TransitionEvidence struct {
	TransactionHash   *string
	ErrorMessage      *string
	ProviderPaymentID *string
}

// TransitionTo aplica uma transição de status na entidade (lógica pura).
// Retorna ErrAlreadyTerminal para entrega atrasada/duplicada de webhook e
// ErrInvalidTransition quando a ordem seria violada. Quem persiste é o usecase.
func (t *Transaction) TransitionTo(target TransactionStatus, ev TransitionEvidence) error {
	if t.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if !t.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}

	now := time.Now().UTC()

	switch target {
	case StatusPaymentConfirmed:
		t.PaymentConfirmedAt = &now
	case StatusUsdtSent:
		t.UsdtSentAt = &now
		// transactionHash só pode ser escrito uma vez
		if ev.TransactionHash != nil && t.TransactionHash == nil {
			t.TransactionHash = ev.TransactionHash
		}
	case StatusCompleted:
		t.CompletedAt = &now
	case StatusFailed:
		if ev.ErrorMessage != nil {
			t.ErrorMessage = ev.ErrorMessage
		}
	}

	if ev.ProviderPaymentID != nil && t.ProviderPaymentID == nil {
		t.ProviderPaymentID = ev.ProviderPaymentID
	}

	t.Status = target
	t.UpdatedAt = now
	return nil
}

// metadataEventsKey guarda o set de ids de evento já processados (dedup de webhook).
const metadataEventsKey = "webhook_events"

// HasProcessedEvent consulta o set de dedup no metadata.
func (t *Transaction) HasProcessedEvent(eventID string) bool {
	for _, id := range t.processedEvents() {
		if id == eventID {
			return true
		}
	}
	return false
}

// RecordProcessedEvent marca o evento como processado. Só deve ser chamado
// DEPOIS da tentativa de transição — evento que explodiu no meio fica
// elegível para retry na próxima entrega.
func (t *Transaction) RecordProcessedEvent(eventID string) {
	if t.Metadata == nil {
		t.Metadata = map[string]interface{}{}
	}
	t.Metadata[metadataEventsKey] = append(t.processedEvents(), eventID)
}

func (t *Transaction) processedEvents() []string {
	if t.Metadata == nil {
		return nil
	}
	// O metadata faz round-trip por JSON, então o slice pode voltar como []interface{}
	switch raw := t.Metadata[metadataEventsKey].(type) {
	case []string:
		return raw
	case []interface{}:
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
