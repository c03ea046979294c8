package usecase

import (
	"context"
	"fmt"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/shopspring/decimal"
)

// CreatePaymentInput define os dados para iniciar uma compra de USDT.
// DTOs para não acoplar a API HTTP ao usecase.
type CreatePaymentInput struct {
	UserID        string
	Provider      domain.Provider
	AmountUSD     decimal.Decimal
	Currency      string
	WalletAddress string
	Network       domain.Network
}

type CreatePaymentOutput struct {
	TransactionID string
	Status        domain.TransactionStatus
	Quote         domain.ConversionQuote
}

// CreatePaymentUseCase aceita uma cotação e cria a transação no estado
// inicial. A partir daqui toda mutação passa pelo motor de transições.
type CreatePaymentUseCase struct {
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
	transition            *TransitionUseCase
}

func NewCreatePayment(
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	transition *TransitionUseCase,
) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		transition:            transition,
	}
}

// Execute valida a entrada, calcula a cotação e persiste a transação.
// Erros de entrada saem antes de qualquer escrita.
func (u *CreatePaymentUseCase) Execute(ctx context.Context, input CreatePaymentInput) (*CreatePaymentOutput, error) {
	if !input.Provider.Valid() {
		return nil, fmt.Errorf("provider %q: %w", input.Provider, domain.ErrUnsupportedProvider)
	}

	address, err := domain.ValidateAddress(input.WalletAddress, input.Network)
	if err != nil {
		return nil, err
	}

	// Cálculo puro: range, tier e margem validados aqui dentro
	quote, err := domain.CalculateConversion(input.AmountUSD)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	transaction := &domain.Transaction{
		UserID:        input.UserID,
		Provider:      input.Provider,
		AmountUSD:     quote.USDAmount,
		Currency:      currency,
		UsdtAmount:    quote.USDTAmount,
		ExchangeRate:  quote.Rate,
		FeeAmount:     quote.FeeAmount,
		FeePercentage: quote.FeePercentage,
		WalletAddress: address,
		Network:       input.Network,
		Status:        domain.StatusInitiated,
		Metadata:      map[string]interface{}{"tier": quote.TierName},
	}

	err = u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação de banco não encontrada no contexto")
		}
		repo := u.transactionRepository.WithTx(transactionObject)
		if err := repo.Create(contextWithTx, transaction); err != nil {
			return fmt.Errorf("falha ao criar transação: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A tentativa de pagamento começa agora: initiated -> pending pelo motor,
	// que já publica a notificação de status.
	updated, err := u.transition.Execute(ctx, TransitionInput{
		TransactionID: transaction.ID,
		Target:        domain.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar pagamento: %w", err)
	}

	return &CreatePaymentOutput{
		TransactionID: updated.ID,
		Status:        updated.Status,
		Quote:         *quote,
	}, nil
}
