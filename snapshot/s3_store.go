package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "whaleflow/config"
	"whaleflow/logger"
	"whaleflow/models"
)

// S3Store persists snapshots as date-keyed objects under
// <prefix>/snapshots/. Same contract as FileStore, so the persistence
// mechanism is swappable without touching the delta calculator.
type S3Store struct {
	client        *s3.Client
	bucket        string
	prefix        string
	toleranceDays int
	log           *logger.Log
}

// NewS3Store configures the AWS SDK and validates credentials, mirroring the
// rest of the storage layer: explicit region, optional static credentials.
func NewS3Store(ctx context.Context, cfg appconfig.S3Config, toleranceDays int) (*S3Store, error) {
	log := logger.GetLogger()

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	store := &S3Store{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		toleranceDays: toleranceDays,
		log:           log,
	}

	log.WithComponent("snapshot_store").WithFields(logger.Fields{
		"bucket": cfg.Bucket,
		"region": cfg.Region,
		"prefix": store.prefix,
	}).Debug("s3 snapshot store initialized")

	return store, nil
}

func (s *S3Store) key(date time.Time) string {
	return path.Join(s.prefix, "snapshots", snapshotName(date))
}

func (s *S3Store) Write(ctx context.Context, now time.Time, price float64, entries []models.SnapshotEntry) error {
	snap := models.Snapshot{
		Date:     now.UTC().Format(models.SnapshotDateLayout),
		BTCPrice: price,
		Whales:   entries,
	}

	data, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	key := s.key(now)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("put snapshot object: %w", err)
	}

	s.log.WithComponent("snapshot_store").WithFields(logger.Fields{
		"date":    snap.Date,
		"holders": len(entries),
		"key":     key,
	}).Info("snapshot written")
	return nil
}

func (s *S3Store) FindNearest(ctx context.Context, now time.Time, targetDaysAgo int) (*models.Snapshot, error) {
	dates, err := s.listDates(ctx)
	if err != nil {
		return nil, err
	}

	log := s.log.WithComponent("snapshot_store").WithFields(logger.Fields{
		"target_days_ago": targetDaysAgo,
		"tolerance_days":  s.toleranceDays,
	})

	for _, date := range rankCandidates(dates, now, targetDaysAgo, s.toleranceDays) {
		snap, err := s.load(ctx, date)
		if err != nil {
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

func (s *S3Store) PurgeOlderThan(ctx context.Context, now time.Time, maxAgeDays int) int {
	dates, err := s.listDates(ctx)
	if err != nil {
		s.log.WithComponent("snapshot_store").WithError(err).Warn("retention scan failed")
		return 0
	}

	purged := 0
	for _, date := range dates {
		if ageInDays(now, date) <= maxAgeDays {
			continue
		}
		key := s.key(date)
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			s.log.WithComponent("snapshot_store").WithError(err).WithFields(logger.Fields{
				"key": key,
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

func (s *S3Store) listDates(ctx context.Context) ([]time.Time, error) {
	prefix := path.Join(s.prefix, "snapshots") + "/"
	var dates []time.Time
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list snapshot objects: %w", err)
		}
		for _, obj := range out.Contents {
			if obj.Key == nil {
				continue
			}
			if date, ok := parseSnapshotName(path.Base(*obj.Key)); ok {
				dates = append(dates, date)
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}
	return dates, nil
}

func (s *S3Store) load(ctx context.Context, date time.Time) (*models.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(date)),
	})
	if err != nil {
		return nil, fmt.Errorf("get snapshot object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot object: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
