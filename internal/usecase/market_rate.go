package usecase

import (
	"context"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	defaultRateTTL          = 5 * time.Minute
	defaultRateFetchTimeout = 5 * time.Second
)

// fallbackUSDRate é o valor fixo usado quando o feed está fora E não existe
// cotação conhecida. A cotação é só informativa (comparação de referência),
// então disponibilidade ganha de frescor aqui — a conversão autoritativa é
// da tabela de tiers, não desta cotação.
var fallbackUSDRate = decimal.NewFromInt(1)

type MarketRateOutput struct {
	Rate      decimal.Decimal
	FetchedAt time.Time
	Source    string // "cache", "live", "stale" ou "fallback"
}

// MarketRateUseCase mantém a cotação de referência USDT/USD com TTL:
// cache fresco → retorna; vencido → tenta o feed com timeout limitado;
// feed fora → última conhecida; nada → constante de fallback.
// Nunca devolve erro para o chamador.
type MarketRateUseCase struct {
	rateFeed     gateway.RateFeed
	rateCache    gateway.RateCache
	ttl          time.Duration
	fetchTimeout time.Duration
}

func NewMarketRate(feed gateway.RateFeed, cache gateway.RateCache) *MarketRateUseCase {
	return &MarketRateUseCase{
		rateFeed:     feed,
		rateCache:    cache,
		ttl:          defaultRateTTL,
		fetchTimeout: defaultRateFetchTimeout,
	}
}

func (u *MarketRateUseCase) Execute(ctx context.Context) *MarketRateOutput {
	// Cache com TTL (o Redis expira sozinho; cache indisponível = miss)
	if u.rateCache != nil {
		cached, err := u.rateCache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Falha ao ler cache de cotação")
		}
		if cached != nil {
			return &MarketRateOutput{Rate: cached.Rate, FetchedAt: cached.FetchedAt, Source: "cache"}
		}
	}

	// Refresh com timeout explícito: o feed JAMAIS pode travar o chamador
	if u.rateFeed != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, u.fetchTimeout)
		rate, err := u.rateFeed.FetchUSDRate(fetchCtx)
		cancel()

		if err == nil {
			fresh := gateway.CachedRate{Rate: rate, FetchedAt: time.Now().UTC()}
			if u.rateCache != nil {
				if err := u.rateCache.Save(ctx, fresh, u.ttl); err != nil {
					log.Warn().Err(err).Msg("Falha ao salvar cotação no cache")
				}
			}
			return &MarketRateOutput{Rate: fresh.Rate, FetchedAt: fresh.FetchedAt, Source: "live"}
		}
		// Timeout ou erro do feed: degrada, não propaga
		log.Warn().Err(err).Msg("Feed de cotação falhou, usando última conhecida")
	}

	if u.rateCache != nil {
		if last, err := u.rateCache.LastKnown(ctx); err == nil && last != nil {
			return &MarketRateOutput{Rate: last.Rate, FetchedAt: last.FetchedAt, Source: "stale"}
		}
	}

	return &MarketRateOutput{Rate: fallbackUSDRate, FetchedAt: time.Now().UTC(), Source: "fallback"}
}
