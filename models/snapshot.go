package models

import "time"

// SnapshotDateLayout is the calendar-date key used for snapshot files and
// object keys.
const SnapshotDateLayout = "2006-01-02"

// SnapshotEntry is the minimal projection of a whale retained for future
// delta computation. USD balance and tier are re-derivable and not stored.
type SnapshotEntry struct {
	Address    string  `json:"address"`
	BalanceBTC float64 `json:"balance_btc"`
}

// Snapshot is a point-in-time, date-keyed record of holder balances. At most
// one snapshot exists per calendar date; a rerun on the same date overwrites.
type Snapshot struct {
	Date     string          `json:"date"`
	BTCPrice float64         `json:"btc_price"`
	Whales   []SnapshotEntry `json:"whales"`
}

// ParsedDate returns the snapshot's calendar date at midnight UTC.
func (s *Snapshot) ParsedDate() (time.Time, error) {
	return time.ParseInLocation(SnapshotDateLayout, s.Date, time.UTC)
}

// Balances builds the address to native balance lookup used by the delta
// calculator.
func (s *Snapshot) Balances() map[string]float64 {
	out := make(map[string]float64, len(s.Whales))
	for _, w := range s.Whales {
		out[w.Address] = w.BalanceBTC
	}
	return out
}
