package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/rs/zerolog/log"
)

// ProcessWebhookOutput diz ao handler o que aconteceu, para ele decidir a
// resposta ao provider (duplicado e fora-de-ordem também respondem sucesso).
type ProcessWebhookOutput struct {
	Transaction *domain.Transaction
	Duplicate   bool
	Absorbed    bool // transição rejeitada por estado (terminal/fora de ordem), sem efeito
}

// ProcessWebhookUseCase reconcilia eventos de provider (entrega at-least-once,
// sem garantia de ordem) com a máquina de estados. Dedup por id de evento,
// gravado no metadata da transação no MESMO update da transição — um evento,
// um UPDATE atômico.
type ProcessWebhookUseCase struct {
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
	transition            *TransitionUseCase
}

func NewProcessWebhook(
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
	transition *TransitionUseCase,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
		transition:            transition,
	}
}

// Execute processa um evento normalizado de provider.
func (u *ProcessWebhookUseCase) Execute(ctx context.Context, event domain.ProviderEvent) (*ProcessWebhookOutput, error) {
	target, ok := event.Kind.TargetStatus()
	if !ok {
		return nil, fmt.Errorf("tipo de evento desconhecido: %q", event.Kind)
	}

	output := &ProcessWebhookOutput{}
	dispatch := false

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação de banco não encontrada no contexto")
		}
		repo := u.transactionRepository.WithTx(transactionObject)

		// Resolução: providers divergem na chave. Stripe manda o id DELE
		// (payment intent), o on-ramp ecoa o NOSSO id de volta.
		transaction, err := u.resolve(contextWithTx, repo, event)
		if err != nil {
			return err
		}

		// Replay idempotente: mesmo providerEventId aceito no máximo uma vez.
		// Curto-circuito sem mutação nenhuma (e sem notificação).
		if transaction.HasProcessedEvent(event.EventID) {
			output.Transaction = transaction
			output.Duplicate = true
			return nil
		}

		terr := transaction.TransitionTo(target, domain.TransitionEvidence{
			TransactionHash:   event.TransactionHash,
			ErrorMessage:      event.Reason,
			ProviderPaymentID: providerRef(event),
		})
		switch {
		case terr == nil:
			// aceita; despacho de USDT acontece depois do commit
			dispatch = target == domain.StatusPaymentConfirmed
		case errors.Is(terr, domain.ErrAlreadyTerminal):
			// Entrega atrasada em transação encerrada: vira no-op registrado
			output.Absorbed = true
		default:
			// Transição inválida ou falha inesperada: rollback SEM gravar o
			// dedup — a próxima entrega do provider fica elegível para retry.
			return terr
		}

		// Dedup só DEPOIS da tentativa de transição, no mesmo UPDATE
		transaction.RecordProcessedEvent(event.EventID)

		if err := repo.Update(contextWithTx, transaction); err != nil {
			return fmt.Errorf("falha ao persistir reconciliação: %w", err)
		}

		output.Transaction = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !output.Duplicate && !output.Absorbed {
		publishStatusEvent(ctx, u.eventPublisher, output.Transaction)
	}

	// Pagamento confirmado dispara o envio de USDT (fora de qualquer lock)
	if dispatch {
		if err := u.transition.DispatchTransfer(ctx, output.Transaction.ID); err != nil {
			log.Error().Err(err).Str("transaction_id", output.Transaction.ID).
				Msg("Falha ao despachar USDT após confirmação de pagamento")
		}
		// Recarrega o estado final para o handler responder com o status atual
		if refreshed, rerr := u.transactionRepository.GetByID(ctx, output.Transaction.ID); rerr == nil {
			output.Transaction = refreshed
		}
	}

	return output, nil
}

func (u *ProcessWebhookUseCase) resolve(ctx context.Context, repo gateway.TransactionRepository, event domain.ProviderEvent) (*domain.Transaction, error) {
	if event.PaymentRef != "" {
		transaction, err := repo.GetByProviderPaymentIDForUpdate(ctx, event.Provider, event.PaymentRef)
		if err == nil {
			return transaction, nil
		}
		if !errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, err
		}
	}
	if event.TransactionID != "" {
		return repo.GetByIDForUpdate(ctx, event.TransactionID)
	}
	return nil, domain.ErrTransactionNotFound
}

// providerRef devolve o id do provider para gravar na transação na primeira
// vez que ele aparece (o stripe só atribui o payment intent no webhook).
func providerRef(event domain.ProviderEvent) *string {
	if event.PaymentRef == "" {
		return nil
	}
	ref := event.PaymentRef
	return &ref
}
