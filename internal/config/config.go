// Package config loads and validates webrank configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Rank    RankConfig    `mapstructure:"rank"`
	Report  ReportConfig  `mapstructure:"report"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig selects and parameterizes the corpus backend.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	Bucket   string `mapstructure:"bucket"`
	Suffix   string `mapstructure:"suffix"`
}

// FetchConfig governs the download worker pool.
type FetchConfig struct {
	Workers              int `mapstructure:"workers"`
	MaxAttempts          int `mapstructure:"max_attempts"`
	BackoffInitialMs     int `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs         int `mapstructure:"backoff_max_ms"`
	ObjectTimeoutSeconds int `mapstructure:"object_timeout_seconds"`
	ListTimeoutSeconds   int `mapstructure:"list_timeout_seconds"`
}

// RankConfig governs the PageRank iteration.
type RankConfig struct {
	Damping       float64 `mapstructure:"damping"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// ReportConfig controls the final report.
type ReportConfig struct {
	TopN   int    `mapstructure:"top_n"`
	Output string `mapstructure:"output"`
}

// MetricsConfig toggles the Prometheus endpoint served during a run.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WEBRANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.provider", "gcs")
	v.SetDefault("storage.suffix", ".html")
	v.SetDefault("fetch.workers", 20)
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.backoff_initial_ms", 250)
	v.SetDefault("fetch.backoff_max_ms", 5000)
	v.SetDefault("fetch.object_timeout_seconds", 60)
	v.SetDefault("fetch.list_timeout_seconds", 300)
	v.SetDefault("rank.damping", 0.85)
	v.SetDefault("rank.tolerance", 0.005)
	v.SetDefault("rank.max_iterations", 100)
	v.SetDefault("report.top_n", 5)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Fetch.Workers <= 0 {
		return fmt.Errorf("fetch.workers must be > 0")
	}
	if c.Fetch.MaxAttempts <= 0 {
		return fmt.Errorf("fetch.max_attempts must be > 0")
	}
	if c.Fetch.ObjectTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.object_timeout_seconds must be > 0")
	}
	if c.Rank.Damping <= 0 || c.Rank.Damping >= 1 {
		return fmt.Errorf("rank.damping must be in (0, 1)")
	}
	if c.Rank.Tolerance <= 0 {
		return fmt.Errorf("rank.tolerance must be > 0")
	}
	if c.Rank.MaxIterations <= 0 {
		return fmt.Errorf("rank.max_iterations must be > 0")
	}
	if c.Report.TopN <= 0 {
		return fmt.Errorf("report.top_n must be > 0")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must be set when metrics are enabled")
	}
	return nil
}

// ObjectTimeout converts the per-object fetch deadline into a duration.
func (c Config) ObjectTimeout() time.Duration {
	return time.Duration(c.Fetch.ObjectTimeoutSeconds) * time.Second
}

// ListTimeout converts the bucket-listing deadline into a duration.
func (c Config) ListTimeout() time.Duration {
	return time.Duration(c.Fetch.ListTimeoutSeconds) * time.Second
}

// BackoffInitial converts the initial retry delay into a duration.
func (c Config) BackoffInitial() time.Duration {
	return time.Duration(c.Fetch.BackoffInitialMs) * time.Millisecond
}

// BackoffMax converts the retry delay ceiling into a duration.
func (c Config) BackoffMax() time.Duration {
	return time.Duration(c.Fetch.BackoffMaxMs) * time.Millisecond
}
