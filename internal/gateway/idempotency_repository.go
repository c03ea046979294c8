package gateway

import (
	"context"
	"time"
)

// CachedResponse representa a resposta HTTP que guardamos no Redis para
// absorver POSTs duplicados de criação de pagamento.
type CachedResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string][]string
}

type IdempotencyRepository interface {
	// Get retorna a resposta cacheada se existir (nil em cache miss).
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save armazena a resposta com um TTL (Time To Live)
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
