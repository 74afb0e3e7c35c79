package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"whaleflow/logger"
	"whaleflow/models"
)

// FileStore persists snapshots as date-keyed JSON files in a single
// directory, one file per calendar date.
type FileStore struct {
	dir           string
	toleranceDays int
	log           *logger.Log
}

// NewFileStore creates the snapshot directory if needed.
func NewFileStore(dir string, toleranceDays int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{
		dir:           dir,
		toleranceDays: toleranceDays,
		log:           logger.GetLogger(),
	}, nil
}

func (s *FileStore) Write(ctx context.Context, now time.Time, price float64, entries []models.SnapshotEntry) error {
	snap := models.Snapshot{
		Date:     now.UTC().Format(models.SnapshotDateLayout),
		BTCPrice: price,
		Whales:   entries,
	}

	data, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(s.dir, snapshotName(now))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}

	s.log.WithComponent("snapshot_store").WithFields(logger.Fields{
		"date":    snap.Date,
		"holders": len(entries),
		"path":    path,
	}).Info("snapshot written")
	return nil
}

func (s *FileStore) FindNearest(ctx context.Context, now time.Time, targetDaysAgo int) (*models.Snapshot, error) {
	dates, err := s.listDates()
	if err != nil {
		return nil, err
	}

	log := s.log.WithComponent("snapshot_store").WithFields(logger.Fields{
		"target_days_ago": targetDaysAgo,
		"tolerance_days":  s.toleranceDays,
	})

	for _, date := range rankCandidates(dates, now, targetDaysAgo, s.toleranceDays) {
		snap, err := s.load(date)
		if err != nil {
			// Unreadable snapshots are treated as absent for this lookup.
			log.WithError(err).WithFields(logger.Fields{
				"date": date.Format(models.SnapshotDateLayout),
			}).Warn("skipping unreadable snapshot")
			continue
		}
		log.WithFields(logger.Fields{"date": snap.Date}).Debug("matched snapshot")
		return snap, nil
	}

	log.Debug("no snapshot within tolerance")
	return nil, nil
}

func (s *FileStore) PurgeOlderThan(ctx context.Context, now time.Time, maxAgeDays int) int {
	dates, err := s.listDates()
	if err != nil {
		s.log.WithComponent("snapshot_store").WithError(err).Warn("retention scan failed")
		return 0
	}

	purged := 0
	for _, date := range dates {
		if ageInDays(now, date) <= maxAgeDays {
			continue
		}
		path := filepath.Join(s.dir, snapshotName(date))
		if err := os.Remove(path); err != nil {
			s.log.WithComponent("snapshot_store").WithError(err).WithFields(logger.Fields{
				"path": path,
			}).Warn("failed to purge snapshot")
			continue
		}
		purged++
	}

	if purged > 0 {
		s.log.WithComponent("snapshot_store").WithFields(logger.Fields{
			"purged":       purged,
			"max_age_days": maxAgeDays,
		}).Info("purged expired snapshots")
	}
	return purged
}

func (s *FileStore) listDates() ([]time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}
	var dates []time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if date, ok := parseSnapshotName(e.Name()); ok {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

func (s *FileStore) load(date time.Time) (*models.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotName(date)))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
