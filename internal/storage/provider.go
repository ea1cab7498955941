// Package storage defines the interfaces for the page-corpus backend.
// This abstraction allows the analysis pipeline to be independent of a
// specific storage implementation (e.g., Google Cloud Storage or an
// in-memory corpus used by tests).
package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Fetch when no object exists for a key.
var ErrObjectNotFound = errors.New("storage: object not found")

// Provider defines the common interface for a page-corpus backend.
// Both operations may fail transiently; callers treat them as retryable.
type Provider interface {
	// List returns the keys of every page object in the corpus.
	List(ctx context.Context) ([]string, error)

	// Fetch returns the raw content of one page object.
	Fetch(ctx context.Context, key string) ([]byte, error)
}
