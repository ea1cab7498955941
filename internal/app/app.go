// Package app initializes and holds the long-lived services for one run,
// acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/linkgraph/webrank/internal/api"
	"github.com/linkgraph/webrank/internal/config"
	"github.com/linkgraph/webrank/internal/storage"
	"github.com/linkgraph/webrank/internal/storage/memory"
)

// App holds the shared services for one rank run. It is constructed once
// at the start of a run and released by Close when the run ends.
type App struct {
	logger  *zap.Logger
	storage storage.Provider
	cfg     config.Config
	metrics *api.Server
}

// Logger returns the run's logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Storage exposes the configured corpus backend.
func (a *App) Storage() storage.Provider {
	return a.storage
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// NewApp creates and initializes an App from the loaded configuration.
// It fails fast if the storage backend cannot be reached.
func NewApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Initializing application services")

	var store storage.Provider
	switch cfg.Storage.Provider {
	case "gcs":
		if cfg.Storage.Bucket == "" {
			return nil, fmt.Errorf("storage provider is 'gcs' but storage.bucket is not set")
		}
		logger.Info("Using GCS storage provider", zap.String("bucket", cfg.Storage.Bucket))
		gcs, err := storage.NewGCSProvider(ctx, cfg.Storage.Bucket, cfg.Storage.Suffix, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize storage: %w", err)
		}
		store = gcs
	case "memory":
		logger.Info("Using in-memory storage provider")
		store = memory.NewProvider()
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}

	a := &App{
		logger:  logger,
		storage: store,
		cfg:     cfg,
	}

	if cfg.Metrics.Enabled {
		a.metrics = api.NewServer(cfg.Metrics.Addr, logger)
		a.metrics.Start()
	}

	return a, nil
}

// Close releases the services held by the App.
func (a *App) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("Failed to shut down metrics server", zap.Error(err))
		}
	}
	if closer, ok := a.storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("Failed to close storage provider", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
