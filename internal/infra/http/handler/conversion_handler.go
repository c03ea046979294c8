package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/usecase"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ConversionHandler expõe cotação, tabela de tiers e cotação de mercado
type ConversionHandler struct {
	marketRateUseCase *usecase.MarketRateUseCase
}

func NewConversionHandler(marketRateUC *usecase.MarketRateUseCase) *ConversionHandler {
	return &ConversionHandler{marketRateUseCase: marketRateUC}
}

type QuoteRequest struct {
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

type QuoteResponse struct {
	USDAmount     decimal.Decimal `json:"usd_amount"`
	USDTAmount    decimal.Decimal `json:"usdt_amount"`
	Rate          decimal.Decimal `json:"rate"`
	FeeAmount     decimal.Decimal `json:"fee_amount"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	Tier          string          `json:"tier"`
}

// Quote calcula uma cotação sem criar transação nenhuma (função pura)
func (h *ConversionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	quote, err := domain.CalculateConversion(req.AmountUSD)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountOutOfRange):
			respondError(w, http.StatusBadRequest, "Valor fora do intervalo permitido (10 a 10000 USD)")
		case errors.Is(err, domain.ErrNoTierMatch), errors.Is(err, domain.ErrMarginViolation):
			log.Error().Err(err).Msg("Falha de consistência na tabela de tiers")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		default:
			log.Error().Err(err).Msg("Erro interno ao calcular cotação")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusOK, QuoteResponse{
		USDAmount:     quote.USDAmount,
		USDTAmount:    quote.USDTAmount,
		Rate:          quote.Rate,
		FeeAmount:     quote.FeeAmount,
		FeePercentage: quote.FeePercentage,
		Tier:          quote.TierName,
	})
}

type TierResponse struct {
	Name        string           `json:"name"`
	MinUSD      decimal.Decimal  `json:"min_usd"`
	MaxUSD      *decimal.Decimal `json:"max_usd,omitempty"` // nil = sem teto
	Rate        decimal.Decimal  `json:"rate"`
	ExampleUSD  decimal.Decimal  `json:"example_usd"`
	ExampleUSDT decimal.Decimal  `json:"example_usdt"`
}

// Tiers devolve a tabela inteira com exemplos calculados para exibição
func (h *ConversionHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	infos := domain.ListTiers()

	out := make([]TierResponse, 0, len(infos))
	for _, info := range infos {
		tier := TierResponse{
			Name:        info.Tier.Name,
			MinUSD:      info.Tier.MinUSD,
			Rate:        info.Tier.Rate,
			ExampleUSD:  info.ExampleUSD,
			ExampleUSDT: info.ExampleUSDT,
		}
		if !info.Tier.Open {
			maxUSD := info.Tier.MaxUSD
			tier.MaxUSD = &maxUSD
		}
		out = append(out, tier)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"tiers": out})
}

// MarketRate devolve a cotação de referência (informativa, nunca falha)
func (h *ConversionHandler) MarketRate(w http.ResponseWriter, r *http.Request) {
	output := h.marketRateUseCase.Execute(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rate":       output.Rate,
		"fetched_at": output.FetchedAt,
		"source":     output.Source,
	})
}
