package pagerank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonitor_Delta(t *testing.T) {
	t.Parallel()

	m := NewMonitor(0, 0)

	prev := map[string]float64{"a": 0.5, "b": 0.3, "c": 0.2}
	next := map[string]float64{"a": 0.4, "b": 0.35, "c": 0.25}
	require.InDelta(t, 0.2, m.Delta(prev, next), 1e-12)

	require.InDelta(t, 0.0, m.Delta(prev, prev), 1e-12)
}

func TestMonitor_Converged(t *testing.T) {
	t.Parallel()

	m := NewMonitor(0.005, 100)
	require.True(t, m.Converged(0.004))
	require.False(t, m.Converged(0.005))
	require.False(t, m.Converged(0.1))
}

func TestNewMonitor_Defaults(t *testing.T) {
	t.Parallel()

	m := NewMonitor(0, -1)
	require.Equal(t, DefaultMaxIterations, m.MaxIterations())
	require.True(t, m.Converged(DefaultTolerance-1e-9))
	require.False(t, m.Converged(DefaultTolerance))
}
