package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/shopspring/decimal"
)

type fakeRateFeed struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (f *fakeRateFeed) FetchUSDRate(ctx context.Context) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.rate, nil
}

type fakeRateCache struct {
	fresh *gateway.CachedRate
	last  *gateway.CachedRate
	saved *gateway.CachedRate
}

func (c *fakeRateCache) Get(ctx context.Context) (*gateway.CachedRate, error) {
	return c.fresh, nil
}

func (c *fakeRateCache) Save(ctx context.Context, rate gateway.CachedRate, ttl time.Duration) error {
	c.saved = &rate
	c.fresh = &rate
	c.last = &rate
	return nil
}

func (c *fakeRateCache) LastKnown(ctx context.Context) (*gateway.CachedRate, error) {
	return c.last, nil
}

func TestMarketRateServedFromCache(t *testing.T) {
	feed := &fakeRateFeed{rate: decimal.RequireFromString("0.999")}
	cached := &gateway.CachedRate{Rate: decimal.RequireFromString("1.001"), FetchedAt: time.Now()}
	cache := &fakeRateCache{fresh: cached}

	output := NewMarketRate(feed, cache).Execute(context.Background())
	if output.Source != "cache" {
		t.Fatalf("source = %s, want cache", output.Source)
	}
	if !output.Rate.Equal(cached.Rate) {
		t.Errorf("rate = %s, want %s", output.Rate, cached.Rate)
	}
	if feed.calls != 0 {
		t.Errorf("feed called %d times on cache hit, want 0", feed.calls)
	}
}

func TestMarketRateFetchesLiveOnCacheMiss(t *testing.T) {
	feed := &fakeRateFeed{rate: decimal.RequireFromString("0.999")}
	cache := &fakeRateCache{}

	output := NewMarketRate(feed, cache).Execute(context.Background())
	if output.Source != "live" {
		t.Fatalf("source = %s, want live", output.Source)
	}
	if !output.Rate.Equal(feed.rate) {
		t.Errorf("rate = %s, want %s", output.Rate, feed.rate)
	}
	if cache.saved == nil || !cache.saved.Rate.Equal(feed.rate) {
		t.Errorf("live rate not saved to cache")
	}
}

func TestMarketRateFallsBackToLastKnown(t *testing.T) {
	feed := &fakeRateFeed{err: errors.New("feed down")}
	stale := &gateway.CachedRate{Rate: decimal.RequireFromString("1.002"), FetchedAt: time.Now().Add(-time.Hour)}
	cache := &fakeRateCache{last: stale}

	output := NewMarketRate(feed, cache).Execute(context.Background())
	if output.Source != "stale" {
		t.Fatalf("source = %s, want stale", output.Source)
	}
	if !output.Rate.Equal(stale.Rate) {
		t.Errorf("rate = %s, want %s", output.Rate, stale.Rate)
	}
}

func TestMarketRateConstantFallback(t *testing.T) {
	feed := &fakeRateFeed{err: errors.New("feed down")}

	// Sem cache nenhum: degrada para a constante, nunca para erro
	output := NewMarketRate(feed, nil).Execute(context.Background())
	if output.Source != "fallback" {
		t.Fatalf("source = %s, want fallback", output.Source)
	}
	if !output.Rate.Equal(fallbackUSDRate) {
		t.Errorf("rate = %s, want %s", output.Rate, fallbackUSDRate)
	}
}

func TestMarketRateNilDependencies(t *testing.T) {
	output := NewMarketRate(nil, nil).Execute(context.Background())
	if output == nil || output.Source != "fallback" {
		t.Fatalf("output = %+v, want fallback", output)
	}
}
