package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	appconfig "whaleflow/config"
	"whaleflow/logger"
)

// PriceFeed resolves the current BTC/USD price. CoinGecko is the primary
// source; when it fails or returns zero the Binance spot ticker is tried as
// a fallback. A zero price from every source is the caller's fatal case.
type PriceFeed struct {
	cfg        appconfig.PriceConfig
	httpClient *http.Client
	binance    *binance.Client
	log        *logger.Log
}

func NewPriceFeed(cfg appconfig.PriceConfig) *PriceFeed {
	feed := &PriceFeed{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.GetLogger(),
	}
	if cfg.BinanceFallback {
		feed.binance = binance.NewClient("", "")
	}
	return feed
}

// CurrentPrice returns the USD price of one BTC.
func (p *PriceFeed) CurrentPrice(ctx context.Context) (float64, error) {
	log := p.log.WithComponent("price_feed")

	price, err := p.fetchCoingecko(ctx)
	if err == nil && price > 0 {
		log.WithFields(logger.Fields{"price_usd": price, "source": "coingecko"}).Info("fetched BTC price")
		return price, nil
	}
	if err != nil {
		log.WithError(err).Warn("coingecko price fetch failed")
	}

	if p.binance == nil {
		return 0, fmt.Errorf("coingecko price unavailable: %w", err)
	}

	price, err = p.fetchBinance(ctx)
	if err != nil {
		return 0, fmt.Errorf("all price sources failed: %w", err)
	}
	log.WithFields(logger.Fields{"price_usd": price, "source": "binance"}).Info("fetched BTC price")
	return price, nil
}

func (p *PriceFeed) fetchCoingecko(ctx context.Context) (float64, error) {
	attempts := p.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		price, err := p.coingeckoOnce(ctx)
		if err == nil {
			return price, nil
		}
		lastErr = err
		p.log.WithComponent("price_feed").WithError(err).WithFields(logger.Fields{
			"attempt": attempt,
		}).Warn("coingecko request failed")
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	return 0, lastErr
}

func (p *PriceFeed) coingeckoOnce(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.CoingeckoURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "whaleflow/1.0")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Bitcoin struct {
			USD float64 `json:"usd"`
		} `json:"bitcoin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	logger.LogPerformanceEntry(p.log.WithComponent("price_feed"), "price_feed", "coingecko_request", time.Since(start), nil)

	if body.Bitcoin.USD <= 0 {
		return 0, fmt.Errorf("coingecko returned non-positive price %v", body.Bitcoin.USD)
	}
	return body.Bitcoin.USD, nil
}

func (p *PriceFeed) fetchBinance(ctx context.Context) (float64, error) {
	symbol := p.cfg.BinanceSymbol
	if symbol == "" {
		symbol = "BTCUSDT"
	}

	prices, err := p.binance.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("binance ticker: %w", err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("binance returned no ticker for %s", symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse binance price %q: %w", prices[0].Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("binance returned non-positive price %v", price)
	}
	return price, nil
}
