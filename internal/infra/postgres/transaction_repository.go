package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/infra/postgres/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implementa gateway.TransactionRepository usando pgx/v5
type TransactionRepository struct {
	db      *pgxpool.Pool
	queries *db.Queries
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		db:      pool,
		queries: db.New(pool),
	}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	metadata, err := metadataToJSON(transaction.Metadata)
	if err != nil {
		return err
	}

	// Conversão do domínio para o formato do SQLC
	params := db.CreateTransactionParams{
		UserID:            transaction.UserID,
		Provider:          string(transaction.Provider),
		ProviderPaymentID: textToPgType(transaction.ProviderPaymentID),
		AmountUsd:         decimalToNumeric(transaction.AmountUSD),
		Currency:          transaction.Currency,
		UsdtAmount:        decimalToNumeric(transaction.UsdtAmount),
		ExchangeRate:      decimalToNumeric(transaction.ExchangeRate),
		FeeAmount:         decimalToNumeric(transaction.FeeAmount),
		FeePercentage:     decimalToNumeric(transaction.FeePercentage),
		WalletAddress:     transaction.WalletAddress,
		Network:           string(transaction.Network),
		Status:            string(transaction.Status),
		Metadata:          metadata,
	}

	row, err := r.queries.CreateTransaction(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	// Atualiza o ID e timestamps gerados pelo banco de volta no objeto de domínio
	transaction.ID = uuid.UUID(row.ID.Bytes).String()
	transaction.InitiatedAt = row.InitiatedAt.Time
	transaction.UpdatedAt = row.UpdatedAt.Time

	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	pgID, err := parseUUID(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	model, err := r.queries.GetTransaction(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return toDomainTransaction(model)
}

// GetByIDForUpdate trava a linha no banco (SELECT ... FOR UPDATE).
// É o lock por transação exigido pelas transições concorrentes.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	pgID, err := parseUUID(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	model, err := r.queries.GetTransactionForUpdate(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	return toDomainTransaction(model)
}

func (r *TransactionRepository) GetByProviderPaymentIDForUpdate(ctx context.Context, provider domain.Provider, providerPaymentID string) (*domain.Transaction, error) {
	model, err := r.queries.GetTransactionByProviderPaymentForUpdate(ctx, db.GetTransactionByProviderPaymentForUpdateParams{
		Provider:          string(provider),
		ProviderPaymentID: pgtype.Text{String: providerPaymentID, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction by provider ref: %w", err)
	}
	return toDomainTransaction(model)
}

// Update grava o estado inteiro da transição num único UPDATE
// (status + timestamps + hash + erro + metadata com o dedup de webhook).
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	pgID, err := parseUUID(transaction.ID)
	if err != nil {
		return domain.ErrTransactionNotFound
	}

	metadata, err := metadataToJSON(transaction.Metadata)
	if err != nil {
		return err
	}

	params := db.UpdateTransactionParams{
		ID:                 pgID,
		Status:             string(transaction.Status),
		ProviderPaymentID:  textToPgType(transaction.ProviderPaymentID),
		TransactionHash:    textToPgType(transaction.TransactionHash),
		ErrorMessage:       textToPgType(transaction.ErrorMessage),
		Metadata:           metadata,
		PaymentConfirmedAt: timeToPgType(transaction.PaymentConfirmedAt),
		UsdtSentAt:         timeToPgType(transaction.UsdtSentAt),
		CompletedAt:        timeToPgType(transaction.CompletedAt),
		UpdatedAt:          pgtype.Timestamptz{Time: transaction.UpdatedAt, Valid: true},
	}

	if err := r.queries.UpdateTransaction(ctx, params); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, filter gateway.TransactionFilter) ([]domain.Transaction, error) {
	var models []db.Transaction
	var err error

	if filter.UserID != nil {
		models, err = r.queries.ListTransactionsByUser(ctx, *filter.UserID)
	} else {
		models, err = r.queries.ListTransactions(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	out := make([]domain.Transaction, 0, len(models))
	for _, model := range models {
		transaction, err := toDomainTransaction(model)
		if err != nil {
			return nil, err
		}
		out = append(out, *transaction)
	}
	return out, nil
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *TransactionRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &TransactionRepository{
		db:      r.db,
		queries: r.queries.WithTx(pgTx),
	}
}

// Mappers: pgtype <-> tipos de domínio

func toDomainTransaction(model db.Transaction) (*domain.Transaction, error) {
	var metadata map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
		}
	}

	return &domain.Transaction{
		ID:                 uuid.UUID(model.ID.Bytes).String(),
		UserID:             model.UserID,
		Provider:           domain.Provider(model.Provider),
		ProviderPaymentID:  pgTypeToText(model.ProviderPaymentID),
		AmountUSD:          numericToDecimal(model.AmountUsd),
		Currency:           model.Currency,
		UsdtAmount:         numericToDecimal(model.UsdtAmount),
		ExchangeRate:       numericToDecimal(model.ExchangeRate),
		FeeAmount:          numericToDecimal(model.FeeAmount),
		FeePercentage:      numericToDecimal(model.FeePercentage),
		WalletAddress:      model.WalletAddress,
		Network:            domain.Network(model.Network),
		Status:             domain.TransactionStatus(model.Status),
		TransactionHash:    pgTypeToText(model.TransactionHash),
		ErrorMessage:       pgTypeToText(model.ErrorMessage),
		Metadata:           metadata,
		InitiatedAt:        model.InitiatedAt.Time,
		PaymentConfirmedAt: pgTypeToTime(model.PaymentConfirmedAt),
		UsdtSentAt:         pgTypeToTime(model.UsdtSentAt),
		CompletedAt:        pgTypeToTime(model.CompletedAt),
		UpdatedAt:          model.UpdatedAt.Time,
	}, nil
}

func parseUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// Helper para converter *string -> pgtype.Text
func textToPgType(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgTypeToText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func timeToPgType(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func pgTypeToTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func metadataToJSON(metadata map[string]interface{}) ([]byte, error) {
	if metadata == nil {
		return []byte("{}"), nil
	}
	bytes, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}
	return bytes, nil
}
