// Package graph assembles fetched pages into an in-memory directed link
// graph: out-adjacency, its transpose, out-degrees, and the dangling set.
package graph

import (
	"errors"
	"sort"
)

// ErrEmptyCorpus is returned when a graph would contain zero pages.
// PageRank over an empty graph is undefined.
var ErrEmptyCorpus = errors.New("graph: corpus has no pages")

// Builder accumulates fetched (page, links) pairs in any order before the
// graph is finalized. It is not safe for concurrent use; the fetch phase
// delivers results to a single committing goroutine.
type Builder struct {
	out map[string][]string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{out: make(map[string][]string)}
}

// Add records one page and its outgoing link targets. Adding the same key
// twice replaces the earlier entry; the fetch pool guarantees exactly-once
// delivery so this only matters for hand-constructed graphs.
func (b *Builder) Add(key string, links []string) {
	b.out[key] = append([]string(nil), links...)
}

// Build finalizes the graph. Link targets that are not themselves known
// page keys are dropped so the graph never references ghost nodes; the
// in-adjacency is derived as the exact transpose of what remains.
func (b *Builder) Build() (*Graph, error) {
	if len(b.out) == 0 {
		return nil, ErrEmptyCorpus
	}

	g := &Graph{
		out: make(map[string][]string, len(b.out)),
		in:  make(map[string][]string, len(b.out)),
	}
	for key, links := range b.out {
		kept := make([]string, 0, len(links))
		for _, target := range links {
			if _, known := b.out[target]; !known {
				g.droppedTargets++
				continue
			}
			kept = append(kept, target)
		}
		g.out[key] = kept
	}

	pages := make([]string, 0, len(g.out))
	for key, links := range g.out {
		pages = append(pages, key)
		if len(links) == 0 {
			g.dangling = append(g.dangling, key)
		}
		for _, target := range links {
			g.in[target] = append(g.in[target], key)
		}
	}
	sort.Strings(pages)
	sort.Strings(g.dangling)
	g.pages = pages

	return g, nil
}

// Graph is the completed link graph. It is read-only after Build; the
// compute phase iterates it without synchronization.
type Graph struct {
	out            map[string][]string
	in             map[string][]string
	pages          []string
	dangling       []string
	droppedTargets int
}

// Len returns the number of pages n.
func (g *Graph) Len() int {
	return len(g.pages)
}

// Pages returns all page keys in sorted order. Callers must not mutate the
// returned slice.
func (g *Graph) Pages() []string {
	return g.pages
}

// Out returns the outgoing targets of key. Callers must not mutate the
// returned slice.
func (g *Graph) Out(key string) []string {
	return g.out[key]
}

// In returns the pages linking to key. Callers must not mutate the
// returned slice.
func (g *Graph) In(key string) []string {
	return g.in[key]
}

// OutDegree returns the number of distinct outgoing links from key.
func (g *Graph) OutDegree(key string) int {
	return len(g.out[key])
}

// Dangling returns the pages with no outgoing links, sorted.
func (g *Graph) Dangling() []string {
	return g.dangling
}

// DroppedTargets returns how many link targets were discarded at build time
// because they named pages outside the corpus.
func (g *Graph) DroppedTargets() int {
	return g.droppedTargets
}
