package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
)

type GetTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
}

func NewGetTransaction(transactionRepo gateway.TransactionRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{transactionRepository: transactionRepo}
}

func (u *GetTransactionUseCase) Execute(ctx context.Context, id string) (*domain.Transaction, error) {
	transaction, err := u.transactionRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("falha ao buscar transação: %w", err)
	}
	return transaction, nil
}

func (u *GetTransactionUseCase) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	transactions, err := u.transactionRepository.List(ctx, gateway.TransactionFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("falha ao listar transações: %w", err)
	}
	return transactions, nil
}
