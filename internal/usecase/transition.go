package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/rs/zerolog/log"
)

// EventsExchange é o exchange de tópicos onde toda mudança de status é publicada.
const EventsExchange = "ramp_events"

// defaultTransferTimeout limita a chamada do executor externo.
// O envio pode levar segundos, mas nunca pode travar para sempre.
const defaultTransferTimeout = 30 * time.Second

// TransitionInput é o pedido de transição: (transação, status alvo, evidência).
type TransitionInput struct {
	TransactionID string
	Target        domain.TransactionStatus
	Evidence      domain.TransitionEvidence
}

// TransitionUseCase é o motor da máquina de estados. É o ÚNICO lugar que
// muta o status de uma transação: trava a linha, aplica a regra de domínio,
// persiste num UPDATE só e publica exatamente uma notificação por transição
// aceita. O lock vive apenas dentro do Run — nunca atravessa a chamada do
// executor de transferência.
type TransitionUseCase struct {
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
	transferExecutor      gateway.TransferExecutor
	transferTimeout       time.Duration
}

func NewTransition(
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
	executor gateway.TransferExecutor,
) *TransitionUseCase {
	return &TransitionUseCase{
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
		transferExecutor:      executor,
		transferTimeout:       defaultTransferTimeout,
	}
}

// Execute aplica UMA transição dentro de uma transação de banco.
// Serialização por id: dois webhooks disputando a mesma transação ficam
// enfileirados no SELECT ... FOR UPDATE, nunca aplicam transições conflitantes.
func (u *TransitionUseCase) Execute(ctx context.Context, input TransitionInput) (*domain.Transaction, error) {
	var updated *domain.Transaction

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação de banco não encontrada no contexto")
		}
		repo := u.transactionRepository.WithTx(transactionObject)

		// Lock na linha: ninguém mais transiciona essa transação até o Commit
		transaction, err := repo.GetByIDForUpdate(contextWithTx, input.TransactionID)
		if err != nil {
			return err
		}

		// A regra de ordem mora no domínio; aqui só orquestramos
		if err := transaction.TransitionTo(input.Target, input.Evidence); err != nil {
			return err
		}

		if err := repo.Update(contextWithTx, transaction); err != nil {
			return fmt.Errorf("falha ao persistir transição: %w", err)
		}

		updated = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notificação depois do commit, best-effort: falha aqui não desfaz a transição
	u.publishTransition(ctx, updated)

	return updated, nil
}

// DispatchTransfer orquestra o despacho de USDT depois do pagamento confirmado:
// transiciona para converting_to_usdt (soltando o lock), chama o executor SEM
// lock nenhum, e reentra na máquina com o resultado (usdt_sent ou failed).
// usdt_sent avança automaticamente para completed — decisão de política
// concentrada aqui, fácil de revisitar quando houver confirmação on-chain.
func (u *TransitionUseCase) DispatchTransfer(ctx context.Context, transactionID string) error {
	transaction, err := u.Execute(ctx, TransitionInput{
		TransactionID: transactionID,
		Target:        domain.StatusConvertingToUsdt,
	})
	if err != nil {
		// Entrega atrasada: outra via já levou a transação adiante. Não é falha.
		if errors.Is(err, domain.ErrAlreadyTerminal) || errors.Is(err, domain.ErrInvalidTransition) {
			log.Warn().Str("transaction_id", transactionID).Err(err).
				Msg("Despacho ignorado: transação já seguiu por outro caminho")
			return nil
		}
		return err
	}

	if u.transferExecutor == nil {
		reason := "transfer executor not configured"
		_, ferr := u.Execute(ctx, TransitionInput{
			TransactionID: transactionID,
			Target:        domain.StatusFailed,
			Evidence:      domain.TransitionEvidence{ErrorMessage: &reason},
		})
		return ferr
	}

	// Chamada externa demorada: timeout explícito, nenhum lock em mãos
	sendCtx, cancel := context.WithTimeout(ctx, u.transferTimeout)
	result, sendErr := u.transferExecutor.Send(sendCtx, transaction.WalletAddress, transaction.UsdtAmount, transaction.Network)
	cancel()

	if sendErr != nil {
		// Sem rollback de envio: falha depois do despacho vira transição para failed
		reason := sendErr.Error()
		if _, ferr := u.Execute(ctx, TransitionInput{
			TransactionID: transactionID,
			Target:        domain.StatusFailed,
			Evidence:      domain.TransitionEvidence{ErrorMessage: &reason},
		}); ferr != nil {
			return fmt.Errorf("falha ao registrar envio com erro: %w", ferr)
		}
		log.Error().Str("transaction_id", transactionID).Err(sendErr).
			Bool("retryable", domain.IsRetryableTransferError(sendErr)).
			Msg("Envio de USDT falhou")
		return nil
	}

	if _, err := u.Execute(ctx, TransitionInput{
		TransactionID: transactionID,
		Target:        domain.StatusUsdtSent,
		Evidence:      domain.TransitionEvidence{TransactionHash: &result.TxHash},
	}); err != nil {
		return fmt.Errorf("falha ao registrar envio: %w", err)
	}

	if _, err := u.Execute(ctx, TransitionInput{
		TransactionID: transactionID,
		Target:        domain.StatusCompleted,
	}); err != nil {
		return fmt.Errorf("falha ao concluir transação: %w", err)
	}

	return nil
}

func (u *TransitionUseCase) publishTransition(ctx context.Context, transaction *domain.Transaction) {
	publishStatusEvent(ctx, u.eventPublisher, transaction)
}

// publishStatusEvent publica o evento de mudança de status no fanout.
// Exatamente uma chamada por transição aceita; erro só gera log.
// Compartilhado entre o motor de transições e a reconciliação de webhooks.
func publishStatusEvent(ctx context.Context, publisher gateway.EventPublisher, transaction *domain.Transaction) {
	if publisher == nil {
		return
	}

	event := map[string]interface{}{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"provider":       transaction.Provider,
		"status":         transaction.Status,
		"amount_usd":     transaction.AmountUSD.String(),
		"usdt_amount":    transaction.UsdtAmount.String(),
	}
	if transaction.TransactionHash != nil {
		event["transaction_hash"] = *transaction.TransactionHash
	}
	if transaction.ErrorMessage != nil {
		event["error_message"] = *transaction.ErrorMessage
	}

	routingKey := "transaction." + string(transaction.Status)
	if err := publisher.Publish(ctx, EventsExchange, routingKey, event); err != nil {
		// Apenas logamos: fanout é best-effort, a transição já foi comitada
		log.Error().Err(err).Str("routing_key", routingKey).Msg("Falha ao publicar evento de transição")
	}
}
