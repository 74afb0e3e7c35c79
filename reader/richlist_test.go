package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appconfig "whaleflow/config"
)

const sampleRichListPage = `
<table>
<tr><th>Rank</th><th>Address</th><th>Balance</th><th>Ins</th></tr>
<tr>
<td>1</td>
<td><a href="/bitcoin/address/1FeexV6bAHb8ybZjqQMjJrcCrHGW9sb6uF">1FeexV6b...</a></td>
<td>79,957.19 BTC</td>
<td>401</td>
</tr>
<tr>
<td>2</td>
<td><a href="/bitcoin/address/bc1qm34lsc65zpw79lxes69zkqmk6ee3ewf0j77s3h">bc1qm34l...</a> <small>wallet: Binance-coldwallet</small></td>
<td>248,597.34 BTC</td>
<td>871</td>
</tr>
<tr>
<td>3</td>
<td><a href="/bitcoin/address/notanaddress">junk</a></td>
<td>no balance here</td>
</tr>
</table>`

func TestParseRichListPage(t *testing.T) {
	records := parseRichListPage(sampleRichListPage)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Address != "1FeexV6bAHb8ybZjqQMjJrcCrHGW9sb6uF" {
		t.Fatalf("address = %s", first.Address)
	}
	if first.BalanceBTC != 79957.19 {
		t.Fatalf("balance = %v", first.BalanceBTC)
	}
	if first.Label != "" {
		t.Fatalf("unexpected label %q", first.Label)
	}
	if first.TxCount != 401 {
		t.Fatalf("tx count = %d", first.TxCount)
	}

	second := records[1]
	if second.Label != "Binance-coldwallet" {
		t.Fatalf("label = %q", second.Label)
	}
	if second.BalanceBTC != 248597.34 {
		t.Fatalf("balance = %v", second.BalanceBTC)
	}
}

func TestParseRichListPageDropsMalformedRows(t *testing.T) {
	html := `<tr><td><a href="/bitcoin/address/1FeexV6bAHb8ybZjqQMjJrcCrHGW9sb6uF">x</a></td><td>0 BTC</td></tr>`
	if records := parseRichListPage(html); len(records) != 0 {
		t.Fatalf("zero-balance row must be dropped, got %d records", len(records))
	}
	if records := parseRichListPage("<tr><td>no address</td></tr>"); len(records) != 0 {
		t.Fatalf("address-less row must be dropped, got %d records", len(records))
	}
}

func TestFetchHoldersMandatoryFirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewRichListClient(appconfig.RichListConfig{
		URLs:              []string{srv.URL},
		Timeout:           time.Second,
		MaxAttempts:       1,
		RequestsPerSecond: 1000,
	})
	if _, err := client.FetchHolders(context.Background()); err == nil {
		t.Fatal("expected error when page 1 is unavailable")
	}
}

func TestFetchHoldersSecondPageOptional(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRichListPage))
	}))
	defer ok.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	client := NewRichListClient(appconfig.RichListConfig{
		URLs:              []string{ok.URL, broken.URL},
		Timeout:           time.Second,
		MaxAttempts:       1,
		RequestsPerSecond: 1000,
	})
	records, err := client.FetchHolders(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected page 1 records despite page 2 failure, got %d", len(records))
	}
}
