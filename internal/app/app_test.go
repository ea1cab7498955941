package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linkgraph/webrank/internal/config"
)

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNewApp_MemoryProvider(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Storage.Provider = "memory"

	a, err := NewApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Storage())
	require.NotNil(t, a.Logger())
	require.Equal(t, "memory", a.Config().Storage.Provider)
}

func TestNewApp_UnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Storage.Provider = "s3"

	_, err := NewApp(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "unknown storage provider")
}

func TestNewApp_GCSRequiresBucket(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Storage.Provider = "gcs"
	cfg.Storage.Bucket = ""

	_, err := NewApp(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "storage.bucket is not set")
}
