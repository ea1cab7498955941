package pagerank

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linkgraph/webrank/internal/graph"
)

func buildGraph(t *testing.T, adjacency map[string][]string) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for page, links := range adjacency {
		b.Add(page, links)
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, zap.NewNop())
	require.NoError(t, err)
	return e
}

func scoreSum(scores map[string]float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum
}

func TestEngine_Run_TwoCycle(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, map[string][]string{
		"a.html": {"b.html"},
		"b.html": {"a.html"},
	})

	res, err := newTestEngine(t, Config{}).Run(context.Background(), g)
	require.NoError(t, err)
	require.True(t, res.Converged)

	// The graph is symmetric, so both pages hold exactly half the mass.
	require.InDelta(t, 0.5, res.Scores["a.html"], 1e-9)
	require.InDelta(t, 0.5, res.Scores["b.html"], 1e-9)
}

func TestEngine_Run_CompleteGraphIsUniform(t *testing.T) {
	t.Parallel()

	pages := []string{"1.html", "2.html", "3.html", "4.html", "5.html"}
	adjacency := make(map[string][]string, len(pages))
	for _, page := range pages {
		for _, other := range pages {
			if other != page {
				adjacency[page] = append(adjacency[page], other)
			}
		}
	}
	g := buildGraph(t, adjacency)

	res, err := newTestEngine(t, Config{}).Run(context.Background(), g)
	require.NoError(t, err)
	require.True(t, res.Converged)

	for _, page := range pages {
		require.InDelta(t, 1.0/5.0, res.Scores[page], 1e-9)
	}
}

func TestEngine_Run_FourNodeGraph(t *testing.T) {
	t.Parallel()

	// A -> B, C; B -> C; C -> A; D -> C. C receives the most links and
	// must end up with the highest rank.
	g := buildGraph(t, map[string][]string{
		"a.html": {"b.html", "c.html"},
		"b.html": {"c.html"},
		"c.html": {"a.html"},
		"d.html": {"c.html"},
	})

	res, err := newTestEngine(t, Config{}).Run(context.Background(), g)
	require.NoError(t, err)
	require.InDelta(t, 1.0, scoreSum(res.Scores), 1e-9)

	best := ""
	bestScore := -1.0
	for page, score := range res.Scores {
		if score > bestScore {
			best, bestScore = page, score
		}
	}
	require.Equal(t, "c.html", best)
}

func TestEngine_Run_SingleDanglingChain(t *testing.T) {
	t.Parallel()

	// A -> B -> C, C dangling.
	g := buildGraph(t, map[string][]string{
		"a.html": {"b.html"},
		"b.html": {"c.html"},
		"c.html": nil,
	})

	e := newTestEngine(t, Config{})
	res, err := e.Run(context.Background(), g)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Less(t, res.Iterations, DefaultMaxIterations)
	require.Less(t, res.Delta, DefaultTolerance)
	require.InDelta(t, 1.0, scoreSum(res.Scores), 1e-9)

	// Nothing links to A, so any rank above the teleport floor can only
	// come from C's redistributed dangling mass.
	uniform := make(map[string]float64, g.Len())
	for _, page := range g.Pages() {
		uniform[page] = 1.0 / 3.0
	}
	first := e.step(g, g.Pages(), uniform)
	floor := (1 - DefaultDamping) / 3.0
	require.Greater(t, first["a.html"], floor)
	require.InDelta(t, floor+DefaultDamping*(1.0/3.0)/3.0, first["a.html"], 1e-12)
}

func TestEngine_Run_AllDangling(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, map[string][]string{
		"a.html": nil,
		"b.html": nil,
		"c.html": nil,
	})

	res, err := newTestEngine(t, Config{}).Run(context.Background(), g)
	require.NoError(t, err)
	require.InDelta(t, 1.0, scoreSum(res.Scores), 1e-9)
	for page, score := range res.Scores {
		require.InDeltaf(t, 1.0/3.0, score, 1e-9, "page %s", page)
	}
}

func TestEngine_Step_MassConservationAndNonNegativity(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, map[string][]string{
		"1.html": {"2.html"},
		"2.html": {"3.html", "4.html"},
		"3.html": nil,
		"4.html": {"1.html"},
		"5.html": {"1.html", "2.html", "3.html"},
	})
	e := newTestEngine(t, Config{})

	scores := make(map[string]float64, g.Len())
	for _, page := range g.Pages() {
		scores[page] = 1.0 / float64(g.Len())
	}

	for i := 0; i < 25; i++ {
		scores = e.step(g, g.Pages(), scores)
		require.InDeltaf(t, 1.0, scoreSum(scores), 1e-9, "iteration %d", i+1)
		for page, score := range scores {
			require.GreaterOrEqualf(t, score, 0.0, "iteration %d page %s", i+1, page)
		}
	}
}

func TestEngine_Step_DanglingTermPreventsLeak(t *testing.T) {
	t.Parallel()

	// A -> B, B dangling: B holds half the mass at init.
	g := buildGraph(t, map[string][]string{
		"a.html": {"b.html"},
		"b.html": nil,
	})
	e := newTestEngine(t, Config{})

	uniform := map[string]float64{"a.html": 0.5, "b.html": 0.5}
	next := e.step(g, g.Pages(), uniform)
	require.InDelta(t, 1.0, scoreSum(next), 1e-12)

	// Replicate the update with the dangling term omitted: the vector
	// leaks d * dangling_sum of probability mass, confirming the real
	// update depends on the term.
	n := float64(g.Len())
	var leaky float64
	for _, page := range g.Pages() {
		rank := (1 - DefaultDamping) / n
		for _, src := range g.In(page) {
			rank += DefaultDamping * uniform[src] / float64(g.OutDegree(src))
		}
		leaky += rank
	}
	require.InDelta(t, 1.0-DefaultDamping*0.5, leaky, 1e-12)
	require.Greater(t, scoreSum(next), leaky)
}

func TestEngine_Run_IdempotenceAfterConvergence(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, map[string][]string{
		"a.html": {"b.html", "c.html"},
		"b.html": {"c.html"},
		"c.html": {"a.html"},
		"d.html": {"c.html"},
	})
	e := newTestEngine(t, Config{})

	res, err := e.Run(context.Background(), g)
	require.NoError(t, err)
	require.True(t, res.Converged)

	next := e.step(g, g.Pages(), res.Scores)
	require.Less(t, e.monitor.Delta(res.Scores, next), DefaultTolerance)
	for page := range res.Scores {
		require.Less(t, math.Abs(next[page]-res.Scores[page]), DefaultTolerance)
	}
}

func TestEngine_Run_IterationCapIsNotAnError(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, map[string][]string{
		"a.html": {"b.html"},
		"b.html": {"c.html"},
		"c.html": {"a.html", "b.html"},
	})

	e := newTestEngine(t, Config{Tolerance: 1e-300, MaxIterations: 5})
	res, err := e.Run(context.Background(), g)
	require.NoError(t, err)
	require.False(t, res.Converged)
	require.Equal(t, 5, res.Iterations)
	require.NotEmpty(t, res.Scores)
	require.InDelta(t, 1.0, scoreSum(res.Scores), 1e-9)
}

func TestEngine_Run_EmptyGraph(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{})
	_, err := e.Run(context.Background(), &graph.Graph{})
	require.ErrorIs(t, err, graph.ErrEmptyCorpus)
}

func TestEngine_Run_Canceled(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, map[string][]string{
		"a.html": {"b.html"},
		"b.html": {"a.html"},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t, Config{}).Run(ctx, g)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewEngine_DampingValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		damping float64
		wantErr bool
	}{
		{damping: 0, wantErr: false}, // takes the default
		{damping: 0.85, wantErr: false},
		{damping: 1.0, wantErr: true},
		{damping: 1.5, wantErr: true},
		{damping: -0.2, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("damping=%g", tt.damping), func(t *testing.T) {
			t.Parallel()
			_, err := NewEngine(Config{Damping: tt.damping}, zap.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
