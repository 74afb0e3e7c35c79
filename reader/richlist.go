package reader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	appconfig "whaleflow/config"
	"whaleflow/logger"
	"whaleflow/models"
)

var (
	rowRegexp     = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	addrRegexp    = regexp.MustCompile(`/bitcoin/address/([13bc][a-zA-Z0-9]{25,62})`)
	cellRegexp    = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	balanceRegexp = regexp.MustCompile(`([\d,]+\.?\d*)\s*BTC`)
	walletRegexp  = regexp.MustCompile(`wallet:\s*([^<"]+)`)
	smallRegexp   = regexp.MustCompile(`<small[^>]*>\s*(?:<a[^>]*>)?\s*([^<]+)`)
	numberRegexp  = regexp.MustCompile(`^\s*([\d,]+)\s*$`)
)

// RichListClient scrapes the bitinfocharts rich-list pages and yields raw
// holder records. Page requests are paced by a rate limiter; transient HTTP
// failures are retried here, never by the pipeline.
type RichListClient struct {
	cfg        appconfig.RichListConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Log
}

func NewRichListClient(cfg appconfig.RichListConfig) *RichListClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 0.33
	}
	return &RichListClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        logger.GetLogger(),
	}
}

// FetchHolders scrapes every configured page. The first page is mandatory;
// later pages degrade gracefully so a partial rich list still produces a
// run.
func (c *RichListClient) FetchHolders(ctx context.Context) ([]models.HolderRecord, error) {
	log := c.log.WithComponent("richlist_reader")

	var all []models.HolderRecord
	for i, url := range c.cfg.URLs {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		html, err := c.fetchPage(ctx, url)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("fetch rich list page 1: %w", err)
			}
			log.WithError(err).WithFields(logger.Fields{"page": i + 1}).Warn("rich list page unavailable, continuing with earlier pages")
			continue
		}

		records := parseRichListPage(html)
		log.WithFields(logger.Fields{
			"page":    i + 1,
			"records": len(records),
		}).Info("parsed rich list page")
		all = append(all, records...)
	}

	return all, nil
}

func (c *RichListClient) fetchPage(ctx context.Context, url string) (string, error) {
	attempts := c.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.pageOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.log.WithComponent("richlist_reader").WithError(err).WithFields(logger.Fields{
			"url":     url,
			"attempt": attempt,
		}).Warn("rich list request failed")
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(3*attempt) * time.Second):
			}
		}
	}
	return "", lastErr
}

func (c *RichListClient) pageOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	logger.LogPerformanceEntry(c.log.WithComponent("richlist_reader"), "richlist_reader", "page_request", time.Since(start), logger.Fields{"url": url})
	return string(data), nil
}

// parseRichListPage extracts holder records from a rich-list HTML page.
// Rows without a recognizable address or positive balance are dropped
// silently; the page layout is not under our control.
func parseRichListPage(html string) []models.HolderRecord {
	var records []models.HolderRecord

	for _, rowMatch := range rowRegexp.FindAllStringSubmatch(html, -1) {
		row := rowMatch[1]

		addrMatch := addrRegexp.FindStringSubmatch(row)
		if addrMatch == nil {
			continue
		}
		address := strings.TrimSpace(addrMatch[1])

		cells := cellRegexp.FindAllStringSubmatch(row, -1)

		balance := 0.0
		for _, cell := range cells {
			if m := balanceRegexp.FindStringSubmatch(cell[1]); m != nil {
				if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
					balance = v
					break
				}
			}
		}
		if balance <= 0 {
			continue
		}

		label := ""
		if m := walletRegexp.FindStringSubmatch(row); m != nil {
			label = strings.TrimSpace(m[1])
		} else if m := smallRegexp.FindStringSubmatch(row); m != nil {
			lbl := strings.TrimSpace(m[1])
			if len(lbl) > 1 && lbl != "..." && lbl != "address" {
				label = lbl
			}
		}

		txCount := 0
		for _, cell := range cells {
			if m := numberRegexp.FindStringSubmatch(strings.TrimSpace(cell[1])); m != nil {
				if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil && v > txCount {
					txCount = v
				}
			}
		}

		records = append(records, models.HolderRecord{
			Address:    address,
			BalanceBTC: balance,
			Label:      label,
			TxCount:    txCount,
		})
	}

	return records
}
