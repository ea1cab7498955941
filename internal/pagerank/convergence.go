package pagerank

import "math"

// Monitor evaluates the stopping criterion for the iterative engine: the
// L1 distance between successive score vectors, plus an iteration cap that
// guarantees termination.
type Monitor struct {
	tolerance     float64
	maxIterations int
}

// NewMonitor builds a Monitor. Non-positive arguments fall back to the
// defaults (tolerance 0.005, cap 100).
func NewMonitor(tolerance float64, maxIterations int) *Monitor {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Monitor{
		tolerance:     tolerance,
		maxIterations: maxIterations,
	}
}

// MaxIterations returns the iteration cap.
func (m *Monitor) MaxIterations() int {
	return m.maxIterations
}

// Delta returns the L1 distance between successive score vectors:
// the sum over all pages of |new - old|.
func (m *Monitor) Delta(prev, next map[string]float64) float64 {
	var delta float64
	for page, score := range next {
		delta += math.Abs(score - prev[page])
	}
	return delta
}

// Converged reports whether delta is below the tolerance.
func (m *Monitor) Converged(delta float64) bool {
	return delta < m.tolerance
}
