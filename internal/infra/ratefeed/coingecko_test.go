package ratefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFetchUSDRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("ids") != "tether" || r.URL.Query().Get("vs_currencies") != "usd" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"tether":{"usd":0.9998}}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	rate, err := NewCoinGeckoFeedWithBaseURL(server.URL).FetchUSDRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.9998")) {
		t.Errorf("rate = %s, want 0.9998", rate)
	}
}

func TestFetchUSDRateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := NewCoinGeckoFeedWithBaseURL(server.URL).FetchUSDRate(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFetchUSDRateEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	if _, err := NewCoinGeckoFeedWithBaseURL(server.URL).FetchUSDRate(context.Background()); err == nil {
		t.Fatal("expected error on empty rate")
	}
}

func TestFetchUSDRateContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewCoinGeckoFeedWithBaseURL(server.URL).FetchUSDRate(ctx); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
