// Package pagerank implements the iterative PageRank fixed-point
// computation over a completed link graph.
//
// Per iteration, for every page A:
//
//	PR(A) = (1-d)/n + d * (dangling_sum/n + Σ PR(Ti)/C(Ti))
//
// where the sum runs over pages Ti linking to A, C(Ti) is Ti's out-degree,
// and dangling_sum is the rank held by pages with no outgoing links,
// redistributed uniformly so no probability mass leaks.
package pagerank

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/linkgraph/webrank/internal/graph"
)

// Defaults for the engine configuration.
const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 0.005
	DefaultMaxIterations = 100

	// massEpsilon bounds the acceptable relative drift of the score
	// vector's total mass from 1.0. Drift beyond it indicates a bug in
	// the update rule, not bad input, so it is logged rather than
	// returned.
	massEpsilon = 1e-9

	iterationLogEvery = 10
)

// Config controls the engine.
type Config struct {
	Damping       float64
	Tolerance     float64
	MaxIterations int
}

// Result is the outcome of a rank computation. Scores always sum to 1
// within floating-point tolerance; when Converged is false the iteration
// cap was reached and Scores holds the best available vector.
type Result struct {
	Scores     map[string]float64
	Iterations int
	Converged  bool
	Delta      float64
}

// Engine runs the iterative computation. It reads the graph but never
// mutates it.
type Engine struct {
	cfg     Config
	monitor *Monitor
	logger  *zap.Logger
}

// NewEngine validates cfg and constructs an Engine. A zero Damping takes
// the default; an out-of-range one is an error.
func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if cfg.Damping == 0 {
		cfg.Damping = DefaultDamping
	}
	if cfg.Damping <= 0 || cfg.Damping >= 1 {
		return nil, fmt.Errorf("damping factor must be in (0, 1), got %g", cfg.Damping)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:     cfg,
		monitor: NewMonitor(cfg.Tolerance, cfg.MaxIterations),
		logger:  logger,
	}, nil
}

// Run iterates to convergence and returns the final score vector. Reaching
// the iteration cap is not an error; the result reports Converged false
// and carries the last vector. The only error conditions are an empty
// graph and context cancellation.
func (e *Engine) Run(ctx context.Context, g *graph.Graph) (Result, error) {
	n := g.Len()
	if n == 0 {
		return Result{}, graph.ErrEmptyCorpus
	}

	pages := g.Pages()
	e.logger.Info("Computing PageRank",
		zap.Int("pages", n),
		zap.Int("dangling", len(g.Dangling())),
		zap.Float64("damping", e.cfg.Damping),
	)

	scores := make(map[string]float64, n)
	uniform := 1.0 / float64(n)
	for _, page := range pages {
		scores[page] = uniform
	}

	var delta float64
	for iteration := 1; iteration <= e.monitor.MaxIterations(); iteration++ {
		select {
		case <-ctx.Done():
			return Result{}, fmt.Errorf("pagerank canceled at iteration %d: %w", iteration, ctx.Err())
		default:
		}

		next := e.step(g, pages, scores)
		delta = e.monitor.Delta(scores, next)
		scores = next

		e.checkMass(scores, iteration)

		if e.monitor.Converged(delta) {
			e.logger.Info("PageRank converged",
				zap.Int("iterations", iteration),
				zap.Float64("delta", delta),
			)
			return Result{
				Scores:     scores,
				Iterations: iteration,
				Converged:  true,
				Delta:      delta,
			}, nil
		}
		if iteration%iterationLogEvery == 0 {
			e.logger.Info("PageRank iteration",
				zap.Int("iteration", iteration),
				zap.Float64("delta", delta),
			)
		}
	}

	e.logger.Warn("PageRank did not converge, returning best available vector",
		zap.Int("iterations", e.monitor.MaxIterations()),
		zap.Float64("delta", delta),
	)
	return Result{
		Scores:     scores,
		Iterations: e.monitor.MaxIterations(),
		Converged:  false,
		Delta:      delta,
	}, nil
}

// step performs one synchronous (Jacobi) update: every term reads the
// previous vector, never the one being written, so results do not depend
// on page iteration order.
func (e *Engine) step(g *graph.Graph, pages []string, prev map[string]float64) map[string]float64 {
	n := float64(len(pages))
	d := e.cfg.Damping

	var danglingSum float64
	for _, page := range g.Dangling() {
		danglingSum += prev[page]
	}
	base := (1-d)/n + d*danglingSum/n

	next := make(map[string]float64, len(pages))
	for _, page := range pages {
		rank := base
		for _, src := range g.In(page) {
			if out := g.OutDegree(src); out > 0 {
				rank += d * prev[src] / float64(out)
			}
		}
		next[page] = rank
	}
	return next
}

// checkMass is a sanity check, not the convergence criterion: the vector
// must stay a probability distribution after every iteration.
func (e *Engine) checkMass(scores map[string]float64, iteration int) {
	var sum float64
	for _, score := range scores {
		sum += score
	}
	if math.Abs(sum-1.0) > massEpsilon*float64(len(scores)) {
		e.logger.Warn("Score vector mass drifted from 1.0",
			zap.Int("iteration", iteration),
			zap.Float64("sum", sum),
		)
	}
}
