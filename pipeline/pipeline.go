package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	appconfig "whaleflow/config"
	"whaleflow/logger"
	"whaleflow/models"
	"whaleflow/processor"
	"whaleflow/snapshot"
)

// PriceOracle resolves the current BTC/USD price.
type PriceOracle interface {
	CurrentPrice(ctx context.Context) (float64, error)
}

// HolderSource yields the raw rich-list holder records for one run.
type HolderSource interface {
	FetchHolders(ctx context.Context) ([]models.HolderRecord, error)
}

// OutputSink publishes the assembled document.
type OutputSink interface {
	Write(ctx context.Context, doc *models.OutputDocument) error
}

// Pipeline runs one aggregation cycle: fetch, filter, rank, enrich with
// historical deltas, publish, persist today's snapshot. Everything before the
// first write is fatal on error; a failed run leaves previous outputs and
// snapshots untouched.
type Pipeline struct {
	cfg        *appconfig.Config
	price      PriceOracle
	holders    HolderSource
	store      snapshot.Store
	out        OutputSink
	exclusions processor.ExclusionList
	now        func() time.Time
	log        *logger.Log
}

func New(cfg *appconfig.Config, price PriceOracle, holders HolderSource, store snapshot.Store, out OutputSink) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		price:      price,
		holders:    holders,
		store:      store,
		out:        out,
		exclusions: processor.NewExclusionList(cfg.Exclusions.Addresses, cfg.Exclusions.Labels),
		now:        time.Now,
		log:        logger.GetLogger(),
	}
}

// Run executes one full cycle. The returned error means nothing was written.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	now := p.now().UTC()
	log := p.log.WithComponent("pipeline").WithFields(logger.Fields{"run_id": runID})
	log.Info("starting aggregation cycle")

	price, err := p.price.CurrentPrice(ctx)
	if err != nil {
		return fmt.Errorf("resolve BTC price: %w", err)
	}
	if price <= 0 {
		return fmt.Errorf("non-positive BTC price %v", price)
	}

	records, err := p.holders.FetchHolders(ctx)
	if err != nil {
		return fmt.Errorf("fetch holders: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("holder source returned no records")
	}
	logger.LogDataFlowEntry(p.log.WithComponent("pipeline"), "richlist_reader", "pipeline", len(records), "holder_record")

	whales, cexExcluded := p.selectWhales(records, price)
	log.WithFields(logger.Fields{
		"raw_records":  len(records),
		"cex_excluded": cexExcluded,
		"whales":       len(whales),
	}).Info("holders filtered and ranked")

	delta := processor.NewDeltaCalculator(p.store, p.cfg.Policy.LookbackDays)
	if err := delta.Attach(ctx, now, whales); err != nil {
		return fmt.Errorf("attach deltas: %w", err)
	}

	sentiment := processor.AggregateSentiment(whales, price)
	doc := &models.OutputDocument{
		RunID:          runID,
		UpdatedAt:      now.Format("2006-01-02T15:04:05Z"),
		BTCPrice:       price,
		TotalWhales:    len(whales),
		Tiers:          processor.SummarizeTiers(whales, price),
		Sentiment:      sentiment,
		Whales:         whales,
		LargeTransfers: []models.LargeTransfer{},
		CexExcluded:    cexExcluded,
		Source:         "bitinfocharts",
	}

	if err := p.out.Write(ctx, doc); err != nil {
		return fmt.Errorf("write output document: %w", err)
	}

	entries := make([]models.SnapshotEntry, len(whales))
	for i, w := range whales {
		entries[i] = models.SnapshotEntry{Address: w.Address, BalanceBTC: w.BalanceBTC}
	}
	if err := p.store.Write(ctx, now, price, entries); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	p.store.PurgeOlderThan(ctx, now, p.cfg.Policy.RetentionDays)

	p.log.LogMetric("pipeline", "whales_tracked", len(whales), "gauge", nil)
	p.log.LogMetric("pipeline", "cex_excluded", cexExcluded, "gauge", nil)
	log.WithFields(logger.Fields{
		"whales":    len(whales),
		"direction": sentiment.Direction,
	}).Info("aggregation cycle complete")
	return nil
}

// selectWhales applies the exclusion list, the USD floor, and the ranking
// policy. Ordering is stable so equal balances keep their source order.
func (p *Pipeline) selectWhales(records []models.HolderRecord, price float64) ([]models.WhaleRecord, int) {
	cexExcluded := 0
	whales := make([]models.WhaleRecord, 0, len(records))
	for _, r := range records {
		if p.exclusions.IsCustodial(r.Address, r.Label) {
			cexExcluded++
			continue
		}
		balanceUSD := r.BalanceBTC * price
		if balanceUSD < p.cfg.Policy.MinBalanceUSD {
			continue
		}
		whales = append(whales, models.WhaleRecord{
			Address:    r.Address,
			BalanceBTC: r.BalanceBTC,
			BalanceUSD: balanceUSD,
			Tier:       processor.ClassifyTier(balanceUSD),
			TxCount:    r.TxCount,
			Label:      r.Label,
		})
	}

	sort.SliceStable(whales, func(i, j int) bool {
		return whales[i].BalanceUSD > whales[j].BalanceUSD
	})
	if len(whales) > p.cfg.Policy.TopWhales {
		whales = whales[:p.cfg.Policy.TopWhales]
	}
	return whales, cexExcluded
}
