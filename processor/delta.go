package processor

import (
	"context"
	"time"

	"whaleflow/logger"
	"whaleflow/models"
	"whaleflow/snapshot"
)

// DeltaCalculator attaches historical balance changes to the current whale
// set. One snapshot lookup per lookback window; holders absent from the
// matched snapshot keep a nil delta (newly appeared, not zero).
type DeltaCalculator struct {
	store    snapshot.Store
	lookback []int
	log      *logger.Log
}

func NewDeltaCalculator(store snapshot.Store, lookbackDays []int) *DeltaCalculator {
	return &DeltaCalculator{
		store:    store,
		lookback: lookbackDays,
		log:      logger.GetLogger(),
	}
}

// Attach fills the per-window change fields on every whale in place. The
// same snapshot set and holder set always produce the same deltas; now is
// the run timestamp used for snapshot age calculation.
func (d *DeltaCalculator) Attach(ctx context.Context, now time.Time, whales []models.WhaleRecord) error {
	log := d.log.WithComponent("delta_calculator")

	for _, days := range d.lookback {
		snap, err := d.store.FindNearest(ctx, now, days)
		if err != nil {
			return err
		}
		if snap == nil {
			log.WithFields(logger.Fields{"lookback_days": days}).Info("no historical snapshot within tolerance")
			continue
		}

		historic := snap.Balances()
		matched := 0
		for i := range whales {
			old, ok := historic[whales[i].Address]
			if !ok {
				continue
			}
			change := whales[i].BalanceBTC - old
			setChange(&whales[i], days, change)
			matched++
		}

		log.WithFields(logger.Fields{
			"lookback_days": days,
			"snapshot_date": snap.Date,
			"matched":       matched,
			"holders":       len(whales),
		}).Info("deltas computed")
	}

	return nil
}

func setChange(w *models.WhaleRecord, lookbackDays int, change float64) {
	v := change
	switch lookbackDays {
	case 1:
		w.Change1d = &v
	case 7:
		w.Change7d = &v
	case 30:
		w.Change30d = &v
	}
}
