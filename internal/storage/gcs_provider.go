package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// listProgressEvery controls how often List logs a progress line.
const listProgressEvery = 5000

// GCSProvider implements the Provider interface for Google Cloud Storage.
type GCSProvider struct {
	client     *storage.Client
	bucketName string
	suffix     string
	logger     *zap.Logger
}

// NewGCSProvider initializes a new GCS client and verifies the connection.
// Authentication is handled automatically via Google's "Application Default
// Credentials" (ADC). Only object names ending in suffix are listed; an
// empty suffix lists everything.
func NewGCSProvider(ctx context.Context, bucketName, suffix string, logger *zap.Logger) (*GCSProvider, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	// Check that the bucket exists and we have permission to access it,
	// so a bad configuration fails at startup rather than mid-run.
	bkt := client.Bucket(bucketName)
	if _, err := bkt.Attrs(ctx); err != nil {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("Failed to close GCS client after bucket check failure", zap.Error(cerr))
		}
		return nil, fmt.Errorf("get GCS bucket %q attributes: %w", bucketName, err)
	}

	return &GCSProvider{
		client:     client,
		bucketName: bucketName,
		suffix:     suffix,
		logger:     logger,
	}, nil
}

// List walks the bucket and returns every matching object name.
func (g *GCSProvider) List(ctx context.Context) ([]string, error) {
	it := g.client.Bucket(g.bucketName).Objects(ctx, nil)

	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects in bucket %q: %w", g.bucketName, err)
		}
		if g.suffix != "" && !strings.HasSuffix(attrs.Name, g.suffix) {
			continue
		}
		keys = append(keys, attrs.Name)
		if len(keys)%listProgressEvery == 0 {
			g.logger.Info("Listing bucket objects", zap.Int("found", len(keys)))
		}
	}

	g.logger.Info("Bucket listing complete",
		zap.String("bucket", g.bucketName),
		zap.Int("pages", len(keys)),
	)
	return keys, nil
}

// Fetch downloads one object's content.
func (g *GCSProvider) Fetch(ctx context.Context, key string) ([]byte, error) {
	rc, err := g.client.Bucket(g.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("object %q: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("open GCS object %q: %w", key, err)
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		if cerr := rc.Close(); cerr != nil {
			g.logger.Warn("Failed to close GCS reader after read failure", zap.String("key", key), zap.Error(cerr))
		}
		return nil, fmt.Errorf("read GCS object %q: %w", key, err)
	}

	if err := rc.Close(); err != nil {
		return nil, fmt.Errorf("close GCS reader for %q: %w", key, err)
	}
	return data, nil
}

// Close releases the underlying GCS client.
func (g *GCSProvider) Close() error {
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("close GCS client: %w", err)
	}
	return nil
}
