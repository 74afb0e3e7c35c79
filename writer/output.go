package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
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

const outputFileName = "whales.json"

// OutputWriter publishes the assembled document. The local file is the
// authoritative copy and is written atomically; the S3 mirror is best-effort
// and never fails a run.
type OutputWriter struct {
	dir    string
	s3     *s3.Client
	bucket string
	prefix string
	log    *logger.Log
}

func NewOutputWriter(dir string) *OutputWriter {
	return &OutputWriter{
		dir: dir,
		log: logger.GetLogger(),
	}
}

// EnableS3Mirror configures an additional copy of the output under
// <prefix>/whales.json in the given bucket.
func (w *OutputWriter) EnableS3Mirror(ctx context.Context, cfg appconfig.S3Config) error {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return fmt.Errorf("aws credentials not found")
	}

	w.s3 = s3.NewFromConfig(awsCfg)
	w.bucket = cfg.Bucket
	w.prefix = strings.Trim(cfg.Prefix, "/")
	return nil
}

// Write persists the document to <dir>/whales.json via a temp file and
// rename, then mirrors it to S3 when a mirror is configured.
func (w *OutputWriter) Write(ctx context.Context, doc *models.OutputDocument) error {
	log := w.log.WithComponent("output_writer")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output document: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	target := filepath.Join(w.dir, outputFileName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace output file: %w", err)
	}

	log.WithFields(logger.Fields{
		"path":   target,
		"whales": doc.TotalWhales,
		"bytes":  len(data),
	}).Info("output document written")

	if w.s3 != nil {
		w.mirror(ctx, data)
	}
	return nil
}

func (w *OutputWriter) mirror(ctx context.Context, data []byte) {
	log := w.log.WithComponent("output_writer")
	key := path.Join(w.prefix, outputFileName)

	start := time.Now()
	_, err := w.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"bucket": w.bucket,
			"key":    key,
		}).Warn("s3 mirror failed, local output is authoritative")
		return
	}

	logger.LogPerformanceEntry(log, "output_writer", "s3_mirror", time.Since(start), logger.Fields{
		"bucket": w.bucket,
		"key":    key,
	})
}
