// Package memory stores a page corpus in-memory for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/linkgraph/webrank/internal/storage"
)

// Provider keeps page objects in a map guarded by a mutex.
type Provider struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

// NewProvider creates an empty in-memory corpus.
func NewProvider() *Provider {
	return &Provider{
		pages: make(map[string][]byte),
	}
}

// Put registers one page object under key.
func (p *Provider) Put(key string, content []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[key] = append([]byte(nil), content...)
}

// List returns every stored key in sorted order.
func (p *Provider) List(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := make([]string, 0, len(p.pages))
	for key := range p.pages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Fetch returns the stored content for key.
func (p *Provider) Fetch(_ context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	content, ok := p.pages[key]
	if !ok {
		return nil, fmt.Errorf("memory corpus key %q: %w", key, storage.ErrObjectNotFound)
	}
	return append([]byte(nil), content...), nil
}
