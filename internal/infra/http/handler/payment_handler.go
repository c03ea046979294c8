package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentHandler expõe a criação e consulta de compras de USDT via HTTP
type PaymentHandler struct {
	createPaymentUseCase  *usecase.CreatePaymentUseCase
	getTransactionUseCase *usecase.GetTransactionUseCase
	statisticsUseCase     *usecase.GetStatisticsUseCase
}

func NewPaymentHandler(
	createUC *usecase.CreatePaymentUseCase,
	getUC *usecase.GetTransactionUseCase,
	statsUC *usecase.GetStatisticsUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		createPaymentUseCase:  createUC,
		getTransactionUseCase: getUC,
		statisticsUseCase:     statsUC,
	}
}

// DTOs (Data Transfer Objects) para Request/Response
// Tags JSON em snake_case (padrão de APIs)
type CreatePaymentRequest struct {
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	Currency      string          `json:"currency"`
	Provider      string          `json:"provider"`
	WalletAddress string          `json:"wallet_address"`
	Network       string          `json:"network"`
}

type CreatePaymentResponse struct {
	TransactionID string          `json:"transaction_id"`
	Status        string          `json:"status"`
	USDAmount     decimal.Decimal `json:"usd_amount"`
	USDTAmount    decimal.Decimal `json:"usdt_amount"`
	Rate          decimal.Decimal `json:"rate"`
	FeeAmount     decimal.Decimal `json:"fee_amount"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	Tier          string          `json:"tier"`
}

// Create inicia uma compra: valida, cota e cria a transação em pending
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "Usuário não identificado")
		return
	}

	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	input := usecase.CreatePaymentInput{
		UserID:        userID,
		Provider:      domain.Provider(req.Provider),
		AmountUSD:     req.AmountUSD,
		Currency:      req.Currency,
		WalletAddress: req.WalletAddress,
		Network:       domain.Network(req.Network),
	}

	output, err := h.createPaymentUseCase.Execute(ctx, input)
	if err != nil {
		// Mapeamento de Erros de Domínio -> HTTP Status Code
		switch {
		case errors.Is(err, domain.ErrAmountOutOfRange):
			respondError(w, http.StatusBadRequest, "Valor fora do intervalo permitido (10 a 10000 USD)")
		case errors.Is(err, domain.ErrInvalidAddress):
			respondError(w, http.StatusUnprocessableEntity, "Endereço de carteira inválido")
		case errors.Is(err, domain.ErrUnsupportedNetwork):
			respondError(w, http.StatusBadRequest, "Rede não suportada")
		case errors.Is(err, domain.ErrUnsupportedProvider):
			respondError(w, http.StatusBadRequest, "Provider de pagamento não suportado")
		case errors.Is(err, domain.ErrNoTierMatch), errors.Is(err, domain.ErrMarginViolation):
			// Falha de consistência da NOSSA tabela, não do usuário:
			// log em severidade alta, resposta genérica
			log.Error().Err(err).Msg("Falha de consistência na tabela de tiers")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		default:
			log.Error().Err(err).Msg("Erro interno ao criar pagamento")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CreatePaymentResponse{
		TransactionID: output.TransactionID,
		Status:        string(output.Status),
		USDAmount:     output.Quote.USDAmount,
		USDTAmount:    output.Quote.USDTAmount,
		Rate:          output.Quote.Rate,
		FeeAmount:     output.Quote.FeeAmount,
		FeePercentage: output.Quote.FeePercentage,
		Tier:          output.Quote.TierName,
	})
}

// Get retorna uma transação pelo id
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transaction, err := h.getTransactionUseCase.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			respondError(w, http.StatusNotFound, "Transação não encontrada")
			return
		}
		log.Error().Err(err).Msg("Erro interno ao buscar transação")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

// List retorna o histórico do usuário autenticado
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "Usuário não identificado")
		return
	}

	transactions, err := h.getTransactionUseCase.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Erro interno ao listar transações")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	out := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, toTransactionResponse(&transactions[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"transactions": out})
}

// Statistics retorna os rollups (global, ou do usuário se o header vier)
func (h *PaymentHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	var userID *string
	if header := r.Header.Get("X-User-ID"); header != "" {
		userID = &header
	}

	output, err := h.statisticsUseCase.Execute(r.Context(), usecase.GetStatisticsInput{UserID: userID})
	if err != nil {
		log.Error().Err(err).Msg("Erro interno ao agregar estatísticas")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusOK, output)
}

type TransactionResponse struct {
	ID                string          `json:"id"`
	Provider          string          `json:"provider"`
	ProviderPaymentID *string         `json:"provider_payment_id,omitempty"`
	AmountUSD         decimal.Decimal `json:"amount_usd"`
	Currency          string          `json:"currency"`
	USDTAmount        decimal.Decimal `json:"usdt_amount"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	FeeAmount         decimal.Decimal `json:"fee_amount"`
	FeePercentage     decimal.Decimal `json:"fee_percentage"`
	WalletAddress     string          `json:"wallet_address"`
	Network           string          `json:"network"`
	Status            string          `json:"status"`
	TransactionHash   *string         `json:"transaction_hash,omitempty"`
	ErrorMessage      *string         `json:"error_message,omitempty"`
	InitiatedAt       string          `json:"initiated_at"`
	CompletedAt       *string         `json:"completed_at,omitempty"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                t.ID,
		Provider:          string(t.Provider),
		ProviderPaymentID: t.ProviderPaymentID,
		AmountUSD:         t.AmountUSD,
		Currency:          t.Currency,
		USDTAmount:        t.UsdtAmount,
		ExchangeRate:      t.ExchangeRate,
		FeeAmount:         t.FeeAmount,
		FeePercentage:     t.FeePercentage,
		WalletAddress:     t.WalletAddress,
		Network:           string(t.Network),
		Status:            string(t.Status),
		TransactionHash:   t.TransactionHash,
		ErrorMessage:      t.ErrorMessage,
		InitiatedAt:       t.InitiatedAt.Format("2006-01-02 15:04:05"),
	}
	if t.CompletedAt != nil {
		formatted := t.CompletedAt.Format("2006-01-02 15:04:05")
		resp.CompletedAt = &formatted
	}
	return resp
}

// Helpers para resposta JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Falha ao codificar resposta JSON")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
