package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.coingecko.com"

// CoinGeckoFeed implementa gateway.RateFeed buscando a cotação USDT/USD
// no endpoint público de preço simples. Latência limitada pelo client E
// pelo contexto de quem chama — travar aqui não é opção.
type CoinGeckoFeed struct {
	client  *http.Client
	baseURL string
}

func NewCoinGeckoFeed() *CoinGeckoFeed {
	return &CoinGeckoFeed{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewCoinGeckoFeedWithBaseURL existe para apontar para um mock em testes.
func NewCoinGeckoFeedWithBaseURL(baseURL string) *CoinGeckoFeed {
	feed := NewCoinGeckoFeed()
	feed.baseURL = baseURL
	return feed
}

func (f *CoinGeckoFeed) FetchUSDRate(ctx context.Context) (decimal.Decimal, error) {
	url := f.baseURL + "/api/v3/simple/price?ids=tether&vs_currencies=usd"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var body struct {
		Tether struct {
			USD decimal.Decimal `json:"usd"`
		} `json:"tether"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if body.Tether.USD.IsZero() {
		return decimal.Zero, fmt.Errorf("rate feed returned empty rate")
	}

	return body.Tether.USD, nil
}
