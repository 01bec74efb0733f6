package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of seam actions.
type WindowStats struct {
	Window int `csv:"window"`

	// Actions during window
	Removals   int `csv:"removals"`
	Vertical   int `csv:"vertical"`
	Horizontal int `csv:"horizontal"`
	Undos      int `csv:"undos"`

	// Weights of seams removed during window
	WeightMean float64 `csv:"weight_mean"`
	WeightMin  float64 `csv:"weight_min"`
	WeightMax  float64 `csv:"weight_max"`

	// Image state at window end
	Width     int `csv:"width"`
	Height    int `csv:"height"`
	UndoDepth int `csv:"undo_depth"`

	// Energy distribution over live cells at window end
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation between closest ranks
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates the population mean, standard deviation
// and percentiles of values.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeWeightStats returns mean, min and max of removed seam weights.
func ComputeWeightStats(weights []float64) (mean, lo, hi float64) {
	if len(weights) == 0 {
		return 0, 0, 0
	}
	return stat.Mean(weights, nil), floats.Min(weights), floats.Max(weights)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window", s.Window),
		slog.Int("removals", s.Removals),
		slog.Int("vertical", s.Vertical),
		slog.Int("horizontal", s.Horizontal),
		slog.Int("undos", s.Undos),
		slog.Float64("weight_mean", s.WeightMean),
		slog.Float64("weight_min", s.WeightMin),
		slog.Float64("weight_max", s.WeightMax),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Int("undo_depth", s.UndoDepth),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
