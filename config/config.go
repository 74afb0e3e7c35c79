package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Whaleflow  WhaleflowConfig  `yaml:"whaleflow"`
	Source     SourceConfig     `yaml:"source"`
	Policy     PolicyConfig     `yaml:"policy"`
	Exclusions ExclusionsConfig `yaml:"exclusions"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type WhaleflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type SourceConfig struct {
	RichList RichListConfig `yaml:"rich_list"`
	Price    PriceConfig    `yaml:"price"`
}

type RichListConfig struct {
	URLs              []string      `yaml:"urls"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxAttempts       int           `yaml:"max_attempts"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	UserAgent         string        `yaml:"user_agent"`
}

type PriceConfig struct {
	CoingeckoURL    string        `yaml:"coingecko_url"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxAttempts     int           `yaml:"max_attempts"`
	BinanceFallback bool          `yaml:"binance_fallback"`
	BinanceSymbol   string        `yaml:"binance_symbol"`
}

// PolicyConfig holds the fixed aggregation policy. Defaults match the
// documented contract: $10M floor, top 100 holders, 1/7/30 day lookbacks,
// one day snapshot match tolerance, 60 day retention.
type PolicyConfig struct {
	MinBalanceUSD float64 `yaml:"min_balance_usd"`
	TopWhales     int     `yaml:"top_whales"`
	LookbackDays  []int   `yaml:"lookback_days"`
	ToleranceDays int     `yaml:"tolerance_days"`
	RetentionDays int     `yaml:"retention_days"`
}

// ExclusionsConfig overrides the curated custodial exclusion list. Empty
// lists fall back to the defaults in exclusions.go.
type ExclusionsConfig struct {
	Addresses []string `yaml:"addresses"`
	Labels    []string `yaml:"labels"`
}

type StorageConfig struct {
	DataDir string   `yaml:"data_dir"`
	S3      S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
	MaxAge        int    `yaml:"max_age"`
	DashboardName string `yaml:"dashboard_name"`
}

// Default returns the built-in configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Whaleflow: WhaleflowConfig{
			Name:    "whaleflow",
			Version: "1.0.0",
		},
		Source: SourceConfig{
			RichList: RichListConfig{
				URLs: []string{
					"https://bitinfocharts.com/top-100-richest-bitcoin-addresses.html",
					"https://bitinfocharts.com/top-100-richest-bitcoin-addresses-2.html",
				},
				Timeout:           30 * time.Second,
				MaxAttempts:       3,
				RequestsPerSecond: 0.33,
				UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
			Price: PriceConfig{
				CoingeckoURL:    "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd",
				Timeout:         15 * time.Second,
				MaxAttempts:     3,
				BinanceFallback: true,
				BinanceSymbol:   "BTCUSDT",
			},
		},
		Policy: PolicyConfig{
			MinBalanceUSD: 10_000_000,
			TopWhales:     100,
			LookbackDays:  []int{1, 7, 30},
			ToleranceDays: 1,
			RetentionDays: 60,
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// LoadConfig reads the YAML configuration at path over the defaults and
// applies environment overrides. A missing file is not an error; the
// defaults are used as-is.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override storage settings from environment variables if available
	if v := os.Getenv("DATA_DIR"); v != "" {
		config.Storage.DataDir = strings.TrimSpace(v)
	}
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if len(config.Exclusions.Addresses) == 0 {
		config.Exclusions.Addresses = DefaultCEXAddresses
	}
	if len(config.Exclusions.Labels) == 0 {
		config.Exclusions.Labels = DefaultCEXLabels
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Whaleflow.Name == "" {
		return fmt.Errorf("whaleflow.name is required")
	}

	if cfg.Whaleflow.Version == "" {
		return fmt.Errorf("whaleflow.version is required")
	}

	if len(cfg.Source.RichList.URLs) == 0 {
		return fmt.Errorf("source.rich_list.urls must not be empty")
	}

	if cfg.Source.Price.CoingeckoURL == "" {
		return fmt.Errorf("source.price.coingecko_url is required")
	}

	if cfg.Policy.MinBalanceUSD <= 0 {
		return fmt.Errorf("policy.min_balance_usd must be greater than 0")
	}
	if cfg.Policy.TopWhales <= 0 {
		return fmt.Errorf("policy.top_whales must be greater than 0")
	}
	if len(cfg.Policy.LookbackDays) == 0 {
		return fmt.Errorf("policy.lookback_days must not be empty")
	}
	for _, d := range cfg.Policy.LookbackDays {
		if d <= 0 {
			return fmt.Errorf("policy.lookback_days entries must be greater than 0")
		}
	}
	if cfg.Policy.ToleranceDays < 0 {
		return fmt.Errorf("policy.tolerance_days must not be negative")
	}
	if cfg.Policy.RetentionDays <= 0 {
		return fmt.Errorf("policy.retention_days must be greater than 0")
	}

	if cfg.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
