package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateFeed busca a cotação de referência USDT/USD num feed externo.
// Latência limitada pelo contexto; pode falhar — quem chama degrada para cache.
type RateFeed interface {
	FetchUSDRate(ctx context.Context) (decimal.Decimal, error)
}

// CachedRate é a cotação guardada com o instante da busca.
type CachedRate struct {
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// RateCache guarda a cotação mais recente (com TTL) e a última conhecida
// (sem TTL, para fallback quando o feed está fora).
type RateCache interface {
	Get(ctx context.Context) (*CachedRate, error)
	Save(ctx context.Context, rate CachedRate, ttl time.Duration) error
	LastKnown(ctx context.Context) (*CachedRate, error)
}
