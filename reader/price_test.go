package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appconfig "whaleflow/config"
)

func TestCurrentPriceCoingecko(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":50000}}`))
	}))
	defer srv.Close()

	feed := NewPriceFeed(appconfig.PriceConfig{
		CoingeckoURL: srv.URL,
		Timeout:      time.Second,
		MaxAttempts:  1,
	})
	price, err := feed.CurrentPrice(context.Background())
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != 50000 {
		t.Fatalf("price = %v, want 50000", price)
	}
}

func TestCurrentPriceZeroIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":0}}`))
	}))
	defer srv.Close()

	feed := NewPriceFeed(appconfig.PriceConfig{
		CoingeckoURL: srv.URL,
		Timeout:      time.Second,
		MaxAttempts:  1,
	})
	if _, err := feed.CurrentPrice(context.Background()); err == nil {
		t.Fatal("zero price must be an error when no fallback is configured")
	}
}

func TestCurrentPriceRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"bitcoin":{"usd":61234.5}}`))
	}))
	defer srv.Close()

	feed := NewPriceFeed(appconfig.PriceConfig{
		CoingeckoURL: srv.URL,
		Timeout:      time.Second,
		MaxAttempts:  2,
	})
	price, err := feed.CurrentPrice(context.Background())
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != 61234.5 {
		t.Fatalf("price = %v", price)
	}
	if calls != 2 {
		t.Fatalf("expected retry, got %d calls", calls)
	}
}
