package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	appconfig "whaleflow/config"
	"whaleflow/models"
	"whaleflow/snapshot"
)

type stubPrice struct {
	price float64
	err   error
}

func (s stubPrice) CurrentPrice(ctx context.Context) (float64, error) {
	return s.price, s.err
}

type stubHolders struct {
	records []models.HolderRecord
	err     error
}

func (s stubHolders) FetchHolders(ctx context.Context) ([]models.HolderRecord, error) {
	return s.records, s.err
}

type captureSink struct {
	doc *models.OutputDocument
}

func (c *captureSink) Write(ctx context.Context, doc *models.OutputDocument) error {
	c.doc = doc
	return nil
}

func testConfig() *appconfig.Config {
	cfg := appconfig.Default()
	cfg.Exclusions.Addresses = []string{"1CustodialAddr"}
	cfg.Exclusions.Labels = []string{"binance", "coinbase"}
	return cfg
}

func newTestPipeline(t *testing.T, cfg *appconfig.Config, price stubPrice, holders stubHolders) (*Pipeline, *captureSink, snapshot.Store) {
	t.Helper()
	store, err := snapshot.NewFileStore(t.TempDir(), cfg.Policy.ToleranceDays)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	sink := &captureSink{}
	p := New(cfg, price, holders, store, sink)
	p.now = func() time.Time { return time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC) }
	return p, sink, store
}

func TestRunAllHoldersExcludedOrBelowFloor(t *testing.T) {
	cfg := testConfig()
	holders := stubHolders{records: []models.HolderRecord{
		{Address: "1SmallHolder", BalanceBTC: 3},
		{Address: "1BinanceCold", BalanceBTC: 1, Label: "Binance Cold Wallet"},
	}}
	p, sink, _ := newTestPipeline(t, cfg, stubPrice{price: 50000}, holders)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	doc := sink.doc
	if doc == nil {
		t.Fatal("no document written")
	}
	if doc.TotalWhales != 0 || len(doc.Whales) != 0 {
		t.Fatalf("expected zero whales, got %d", doc.TotalWhales)
	}
	if doc.CexExcluded != 1 {
		t.Fatalf("cex_excluded = %d, want 1", doc.CexExcluded)
	}
	if doc.Sentiment.Direction != "neutral" || doc.Sentiment.WhalesTracked != 0 {
		t.Fatalf("sentiment = %+v, want neutral with zero tracked", doc.Sentiment)
	}
	if len(doc.Tiers) != 3 {
		t.Fatalf("expected all tiers present, got %d", len(doc.Tiers))
	}
	if doc.LargeTransfers == nil {
		t.Fatal("large_transfers must be an empty slice")
	}
}

func TestRunOrdersByBalanceDescending(t *testing.T) {
	cfg := testConfig()
	holders := stubHolders{records: []models.HolderRecord{
		{Address: "mid", BalanceBTC: 1000},   // $50M
		{Address: "top", BalanceBTC: 2000},   // $100M
		{Address: "low", BalanceBTC: 200},    // $10M
		{Address: "low2", BalanceBTC: 200},   // tie with low, later in source
		{Address: "dust", BalanceBTC: 0.001}, // below floor
	}}
	p, sink, _ := newTestPipeline(t, cfg, stubPrice{price: 50000}, holders)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	doc := sink.doc
	want := []string{"top", "mid", "low", "low2"}
	if len(doc.Whales) != len(want) {
		t.Fatalf("whales = %d, want %d", len(doc.Whales), len(want))
	}
	for i, addr := range want {
		if doc.Whales[i].Address != addr {
			t.Fatalf("position %d = %s, want %s", i, doc.Whales[i].Address, addr)
		}
	}

	if doc.Whales[0].Tier != models.Tier100M {
		t.Fatalf("top tier = %s", doc.Whales[0].Tier)
	}
	if doc.Whales[1].Tier != models.Tier50M {
		t.Fatalf("mid tier = %s", doc.Whales[1].Tier)
	}
	if doc.Whales[2].Tier != models.Tier10M {
		t.Fatalf("low tier = %s", doc.Whales[2].Tier)
	}
}

func TestRunTruncatesToTopWhales(t *testing.T) {
	cfg := testConfig()
	cfg.Policy.TopWhales = 2
	holders := stubHolders{records: []models.HolderRecord{
		{Address: "a", BalanceBTC: 300},
		{Address: "b", BalanceBTC: 400},
		{Address: "c", BalanceBTC: 500},
	}}
	p, sink, _ := newTestPipeline(t, cfg, stubPrice{price: 50000}, holders)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.doc.Whales) != 2 {
		t.Fatalf("whales = %d, want 2", len(sink.doc.Whales))
	}
	if sink.doc.Whales[0].Address != "c" || sink.doc.Whales[1].Address != "b" {
		t.Fatalf("unexpected truncation order: %s, %s", sink.doc.Whales[0].Address, sink.doc.Whales[1].Address)
	}
}

func TestRunAttachesDeltasFromSnapshots(t *testing.T) {
	cfg := testConfig()
	runTime := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)

	holders := stubHolders{records: []models.HolderRecord{
		{Address: "steady", BalanceBTC: 1000},
		{Address: "fresh", BalanceBTC: 500},
	}}
	p, sink, store := newTestPipeline(t, cfg, stubPrice{price: 50000}, holders)

	// Yesterday's snapshot knows "steady" at a lower balance and has never
	// seen "fresh".
	yesterday := runTime.AddDate(0, 0, -1)
	err := store.Write(context.Background(), yesterday, 48000, []models.SnapshotEntry{
		{Address: "steady", BalanceBTC: 990},
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	doc := sink.doc
	var steady, fresh *models.WhaleRecord
	for i := range doc.Whales {
		switch doc.Whales[i].Address {
		case "steady":
			steady = &doc.Whales[i]
		case "fresh":
			fresh = &doc.Whales[i]
		}
	}
	if steady == nil || fresh == nil {
		t.Fatal("expected both holders in output")
	}

	if steady.Change1d == nil || *steady.Change1d != 10 {
		t.Fatalf("steady change_1d = %v, want 10", steady.Change1d)
	}
	if fresh.Change1d != nil {
		t.Fatalf("fresh change_1d = %v, want nil", *fresh.Change1d)
	}
	if steady.Change7d != nil || steady.Change30d != nil {
		t.Fatal("no 7d/30d snapshots exist, changes must stay nil")
	}

	if doc.Sentiment.Direction != "accumulating" {
		t.Fatalf("direction = %s, want accumulating", doc.Sentiment.Direction)
	}
	if doc.Sentiment.NetChangeBTC1d != 10 || doc.Sentiment.WhalesTracked != 1 {
		t.Fatalf("sentiment = %+v", doc.Sentiment)
	}

	// The run must have persisted today's snapshot for future deltas.
	snap, err := store.FindNearest(context.Background(), runTime.Add(time.Hour), 0)
	if err != nil || snap == nil {
		t.Fatalf("today's snapshot missing: %v", err)
	}
	if len(snap.Whales) != 2 {
		t.Fatalf("snapshot holders = %d, want 2", len(snap.Whales))
	}
}

func TestRunFatalOnPriceFailure(t *testing.T) {
	cfg := testConfig()
	holders := stubHolders{records: []models.HolderRecord{{Address: "a", BalanceBTC: 300}}}

	p, sink, _ := newTestPipeline(t, cfg, stubPrice{err: errors.New("all sources down")}, holders)
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error on price failure")
	}
	if sink.doc != nil {
		t.Fatal("nothing must be written on a failed run")
	}
}

func TestRunFatalOnEmptyHolderSet(t *testing.T) {
	cfg := testConfig()
	p, sink, _ := newTestPipeline(t, cfg, stubPrice{price: 50000}, stubHolders{})
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error on empty holder set")
	}
	if sink.doc != nil {
		t.Fatal("nothing must be written on a failed run")
	}
}
