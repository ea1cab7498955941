package graph

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// DegreeStats summarizes one degree distribution.
type DegreeStats struct {
	Average   float64
	Median    float64
	Max       float64
	Min       float64
	Quintiles []float64
}

// Stats holds outgoing and incoming degree summaries for a graph.
type Stats struct {
	Outgoing DegreeStats
	Incoming DegreeStats
}

// Stats computes degree statistics over the whole graph.
func (g *Graph) Stats() (Stats, error) {
	out := make([]float64, 0, len(g.pages))
	in := make([]float64, 0, len(g.pages))
	for _, page := range g.pages {
		out = append(out, float64(len(g.out[page])))
		in = append(in, float64(len(g.in[page])))
	}

	outStats, err := summarize(out)
	if err != nil {
		return Stats{}, fmt.Errorf("outgoing degree stats: %w", err)
	}
	inStats, err := summarize(in)
	if err != nil {
		return Stats{}, fmt.Errorf("incoming degree stats: %w", err)
	}
	return Stats{Outgoing: outStats, Incoming: inStats}, nil
}

func summarize(degrees []float64) (DegreeStats, error) {
	data := stats.Float64Data(degrees)

	mean, err := stats.Mean(data)
	if err != nil {
		return DegreeStats{}, fmt.Errorf("mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return DegreeStats{}, fmt.Errorf("median: %w", err)
	}
	maxVal, err := stats.Max(data)
	if err != nil {
		return DegreeStats{}, fmt.Errorf("max: %w", err)
	}
	minVal, err := stats.Min(data)
	if err != nil {
		return DegreeStats{}, fmt.Errorf("min: %w", err)
	}

	quintiles := make([]float64, 0, 4)
	for _, pct := range []float64{20, 40, 60, 80} {
		q, err := stats.Percentile(data, pct)
		if err != nil {
			// Percentile needs at least a handful of samples; tiny
			// graphs simply report no quintiles.
			quintiles = nil
			break
		}
		quintiles = append(quintiles, q)
	}

	return DegreeStats{
		Average:   mean,
		Median:    median,
		Max:       maxVal,
		Min:       minVal,
		Quintiles: quintiles,
	}, nil
}
