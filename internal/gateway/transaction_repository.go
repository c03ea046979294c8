package gateway

import (
	"context"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
)

// TransactionFilter restringe listagens (estatísticas, histórico por usuário).
type TransactionFilter struct {
	UserID *string
}

// TransactionRepository define o contrato de persistência das transações.
// O usecase só interage com isso, sem saber se é Postgres ou outra coisa.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)

	// Lock pessimista: retorna a transação travando a linha no banco.
	// Toda transição de status passa por aqui (serialização por id).
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Transaction, error)
	GetByProviderPaymentIDForUpdate(ctx context.Context, provider domain.Provider, providerPaymentID string) (*domain.Transaction, error)

	// Update grava status, timestamps, hash, erro e metadata num único UPDATE
	// (o dedup de webhook precisa ser atômico com a transição).
	Update(ctx context.Context, transaction *domain.Transaction) error

	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)

	// WithTx retorna uma cópia do repositório amarrada à transação de banco
	// iniciada no nível superior.
	WithTx(tx TransactionObject) TransactionRepository
}
