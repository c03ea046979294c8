package usecase

import (
	"context"
	"fmt"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/shopspring/decimal"
)

type GetStatisticsInput struct {
	UserID *string // nil = agregado global
}

// GetStatisticsOutput são os rollups derivados do conjunto de transações.
// Conjunto vazio devolve tudo zerado, nunca erro.
type GetStatisticsOutput struct {
	TotalCount    int                              `json:"total_count"`
	CountByStatus map[domain.TransactionStatus]int `json:"count_by_status"`
	TotalUSD      decimal.Decimal                  `json:"total_usd"`
	TotalUSDT     decimal.Decimal                  `json:"total_usdt"`
	TotalFees     decimal.Decimal                  `json:"total_fees"`
	CompletedUSD  decimal.Decimal                  `json:"completed_usd"`
}

// GetStatisticsUseCase é um fold read-only sobre as transações:
// contagens por status e somas de USD/USDT/fee. Sem invariantes além
// da aritmética estar certa.
type GetStatisticsUseCase struct {
	transactionRepository gateway.TransactionRepository
}

func NewGetStatistics(transactionRepo gateway.TransactionRepository) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{transactionRepository: transactionRepo}
}

func (u *GetStatisticsUseCase) Execute(ctx context.Context, input GetStatisticsInput) (*GetStatisticsOutput, error) {
	transactions, err := u.transactionRepository.List(ctx, gateway.TransactionFilter{UserID: input.UserID})
	if err != nil {
		return nil, fmt.Errorf("falha ao listar transações: %w", err)
	}

	output := &GetStatisticsOutput{
		CountByStatus: map[domain.TransactionStatus]int{},
		TotalUSD:      decimal.Zero,
		TotalUSDT:     decimal.Zero,
		TotalFees:     decimal.Zero,
		CompletedUSD:  decimal.Zero,
	}

	for i := range transactions {
		transaction := &transactions[i]
		output.TotalCount++
		output.CountByStatus[transaction.Status]++
		output.TotalUSD = output.TotalUSD.Add(transaction.AmountUSD)
		output.TotalUSDT = output.TotalUSDT.Add(transaction.UsdtAmount)
		output.TotalFees = output.TotalFees.Add(transaction.FeeAmount)
		if transaction.Status == domain.StatusCompleted {
			output.CompletedUSD = output.CompletedUSD.Add(transaction.AmountUSD)
		}
	}

	return output, nil
}
