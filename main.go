package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"whaleflow/config"
	"whaleflow/logger"
	"whaleflow/pipeline"
	"whaleflow/reader"
	"whaleflow/snapshot"
	"whaleflow/writer"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Whaleflow.Name,
		"version": cfg.Whaleflow.Version,
	}).Info("starting whaleflow")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Storage.S3.Enabled {
		logger.InitCloudWatch(cfg.Storage.S3.Region, "", cfg.Logging.DashboardName)
	}

	var store snapshot.Store
	if cfg.Storage.S3.Enabled {
		store, err = snapshot.NewS3Store(ctx, cfg.Storage.S3, cfg.Policy.ToleranceDays)
	} else {
		store, err = snapshot.NewFileStore(filepath.Join(cfg.Storage.DataDir, "snapshots"), cfg.Policy.ToleranceDays)
	}
	if err != nil {
		log.WithError(err).Error("Failed to initialize snapshot store")
		os.Exit(1)
	}

	out := writer.NewOutputWriter(cfg.Storage.DataDir)
	if cfg.Storage.S3.Enabled {
		if err := out.EnableS3Mirror(ctx, cfg.Storage.S3); err != nil {
			log.WithError(err).WithComponent("output_writer").Warn("s3 mirror disabled")
		}
	}

	p := pipeline.New(
		cfg,
		reader.NewPriceFeed(cfg.Source.Price),
		reader.NewRichListClient(cfg.Source.RichList),
		store,
		out,
	)

	start := time.Now()
	runErr := p.Run(ctx)
	logger.LogRunReport(ctx, log, time.Since(start))
	if runErr != nil {
		log.WithError(runErr).Error("aggregation run failed")
		os.Exit(1)
	}
}
