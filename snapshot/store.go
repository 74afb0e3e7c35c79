package snapshot

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"whaleflow/models"
)

// Store owns the snapshot lifecycle: one snapshot per calendar date, nearest
// lookup within a tolerance window, and age-based retention. No other
// component touches snapshot files directly.
type Store interface {
	// Write persists the snapshot for now's calendar date (UTC). A rerun on
	// the same date overwrites the previous snapshot.
	Write(ctx context.Context, now time.Time, price float64, entries []models.SnapshotEntry) error

	// FindNearest returns the persisted snapshot whose age in days is
	// closest to targetDaysAgo, within the store's tolerance. Equal
	// distances resolve to the more recent date. Returns (nil, nil) when no
	// candidate qualifies; corrupt snapshots are skipped, never fatal.
	FindNearest(ctx context.Context, now time.Time, targetDaysAgo int) (*models.Snapshot, error)

	// PurgeOlderThan deletes snapshots strictly older than maxAgeDays
	// relative to now. Best-effort; returns the number deleted.
	PurgeOlderThan(ctx context.Context, now time.Time, maxAgeDays int) int
}

var snapshotNameRegexp = regexp.MustCompile(`^snapshot_(\d{4}-\d{2}-\d{2})\.json$`)

// snapshotName returns the file or object name for a calendar date.
func snapshotName(date time.Time) string {
	return fmt.Sprintf("snapshot_%s.json", date.UTC().Format(models.SnapshotDateLayout))
}

// parseSnapshotName extracts the calendar date from a snapshot file name.
func parseSnapshotName(name string) (time.Time, bool) {
	m := snapshotNameRegexp.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(models.SnapshotDateLayout, m[1], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ageInDays returns the whole number of days between now and the snapshot
// date (midnight UTC), truncated.
func ageInDays(now, date time.Time) int {
	return int(now.Sub(date).Hours() / 24)
}

// rankCandidates orders snapshot dates by suitability for the target
// lookback: smallest absolute day difference first, more recent date first
// on equal difference. Dates outside the tolerance are dropped. Callers try
// candidates in order so an unreadable snapshot falls through to the next
// best match.
func rankCandidates(dates []time.Time, now time.Time, targetDaysAgo, toleranceDays int) []time.Time {
	type candidate struct {
		date time.Time
		diff int
	}
	var out []candidate
	for _, d := range dates {
		diff := ageInDays(now, d) - targetDaysAgo
		if diff < 0 {
			diff = -diff
		}
		if diff <= toleranceDays {
			out = append(out, candidate{date: d, diff: diff})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].diff != out[j].diff {
			return out[i].diff < out[j].diff
		}
		return out[i].date.After(out[j].date)
	})
	ranked := make([]time.Time, len(out))
	for i, c := range out {
		ranked[i] = c.date
	}
	return ranked
}
