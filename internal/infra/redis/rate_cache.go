package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/redis/go-redis/v9"
)

const (
	rateCurrentKey   = "ramp:market_rate:current"    // expira pelo TTL
	rateLastKnownKey = "ramp:market_rate:last_known" // sem TTL, fallback
)

// RateCache implementa gateway.RateCache com duas chaves: a atual (com TTL,
// refresh-on-miss) e a última conhecida (sem TTL, para quando o feed cai).
type RateCache struct {
	client *redis.Client
}

func NewRateCache(client *redis.Client) *RateCache {
	return &RateCache{client: client}
}

func (c *RateCache) Get(ctx context.Context) (*gateway.CachedRate, error) {
	return c.read(ctx, rateCurrentKey)
}

func (c *RateCache) LastKnown(ctx context.Context) (*gateway.CachedRate, error) {
	return c.read(ctx, rateLastKnownKey)
}

func (c *RateCache) Save(ctx context.Context, rate gateway.CachedRate, ttl time.Duration) error {
	bytes, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to marshal rate: %w", err)
	}
	if err := c.client.Set(ctx, rateCurrentKey, bytes, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save rate: %w", err)
	}
	// A última conhecida nunca expira de propósito
	return c.client.Set(ctx, rateLastKnownKey, bytes, 0).Err()
}

func (c *RateCache) read(ctx context.Context, key string) (*gateway.CachedRate, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	var rate gateway.CachedRate
	if err := json.Unmarshal([]byte(val), &rate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate: %w", err)
	}
	return &rate, nil
}
