// Package report renders the results of a rank run for operators: a
// human-readable console summary and an optional markdown file.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/linkgraph/webrank/internal/fetch"
	"github.com/linkgraph/webrank/internal/graph"
	"github.com/linkgraph/webrank/internal/pagerank"
)

// PageScore pairs a page key with its final rank.
type PageScore struct {
	Key   string
	Score float64
}

// Summary collects everything the final report needs.
type Summary struct {
	Bucket       string
	Pages        int
	Dangling     int
	DroppedLinks int
	Top          []PageScore
	ScoreSum     float64
	Iterations   int
	Converged    bool
	Delta        float64
	Stats        graph.Stats
	Diagnostics  *fetch.Diagnostics
	Elapsed      time.Duration
}

// Build assembles a Summary from the run's artifacts.
func Build(bucket string, g *graph.Graph, res pagerank.Result, stats graph.Stats, diag *fetch.Diagnostics, topN int, elapsed time.Duration) Summary {
	var sum float64
	for _, score := range res.Scores {
		sum += score
	}
	return Summary{
		Bucket:       bucket,
		Pages:        g.Len(),
		Dangling:     len(g.Dangling()),
		DroppedLinks: g.DroppedTargets(),
		Top:          TopN(res.Scores, topN),
		ScoreSum:     sum,
		Iterations:   res.Iterations,
		Converged:    res.Converged,
		Delta:        res.Delta,
		Stats:        stats,
		Diagnostics:  diag,
		Elapsed:      elapsed,
	}
}

// TopN returns the n highest-ranked pages, ties broken by key so the
// report is deterministic.
func TopN(scores map[string]float64, n int) []PageScore {
	ranked := make([]PageScore, 0, len(scores))
	for key, score := range scores {
		ranked = append(ranked, PageScore{Key: key, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Key < ranked[j].Key
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Write renders the console report.
func Write(w io.Writer, s Summary) error {
	rule := strings.Repeat("=", 60)

	if _, err := fmt.Fprintf(w, "%s\nLINK STATISTICS\n%s\n", rule, rule); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	writeDegree(w, "Outgoing Links", s.Stats.Outgoing)
	writeDegree(w, "Incoming Links", s.Stats.Incoming)

	fmt.Fprintf(w, "\n%s\nPAGERANK RESULTS\n%s\n", rule, rule)
	fmt.Fprintf(w, "\nTotal pages: %d\n", s.Pages)
	fmt.Fprintf(w, "Dangling pages: %d\n", s.Dangling)
	fmt.Fprintf(w, "Dropped external links: %d\n", s.DroppedLinks)
	fmt.Fprintf(w, "Iterations: %d (converged: %v, final delta: %.6f)\n", s.Iterations, s.Converged, s.Delta)
	fmt.Fprintf(w, "Sum of all PageRanks: %.6f\n", s.ScoreSum)

	fmt.Fprintf(w, "\nTop %d Pages by PageRank:\n", len(s.Top))
	for i, ps := range s.Top {
		fmt.Fprintf(w, "  %d. %s: %.6f\n", i+1, ps.Key, ps.Score)
	}

	if d := s.Diagnostics; d != nil {
		fmt.Fprintf(w, "\nFetch run %s: %d fetched, %d degraded, %d retries in %s\n",
			d.RunID, d.Fetched, d.Degraded, d.Retries, d.Elapsed.Round(time.Millisecond))
		for _, f := range d.Failures {
			fmt.Fprintf(w, "  failed after %d attempts: %s (%s)\n", f.Attempts, f.Key, f.Reason)
		}
	}

	fmt.Fprintf(w, "\nTotal execution time: %s\n%s\n", s.Elapsed.Round(time.Millisecond), rule)
	return nil
}

func writeDegree(w io.Writer, title string, d graph.DegreeStats) {
	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "  Average: %.2f\n", d.Average)
	fmt.Fprintf(w, "  Median: %.2f\n", d.Median)
	fmt.Fprintf(w, "  Max: %.0f\n", d.Max)
	fmt.Fprintf(w, "  Min: %.0f\n", d.Min)
	if len(d.Quintiles) > 0 {
		parts := make([]string, 0, len(d.Quintiles))
		for _, q := range d.Quintiles {
			parts = append(parts, fmt.Sprintf("%.2f", q))
		}
		fmt.Fprintf(w, "  Quintiles: [%s]\n", strings.Join(parts, ", "))
	}
}
