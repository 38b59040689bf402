package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated touch statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pointer events during window
	Moves   int     `csv:"moves"`
	Hits    int     `csv:"hits"`
	Misses  int     `csv:"misses"`
	HitRate float64 `csv:"hit_rate"`

	// Trail state at window end
	LivePoints int    `csv:"live_points"`
	State      string `csv:"state"`
	Uploads    int    `csv:"uploads"`

	// Force distribution of live points
	ForceMean float64 `csv:"force_mean"`
	ForceP50  float64 `csv:"force_p50"`
	ForceP90  float64 `csv:"force_p90"`
	ForceMax  float64 `csv:"force_max"`

	// Intensity buffer (red channel, [0,1])
	IntensityMean float64 `csv:"intensity_mean"`
	IntensityStd  float64 `csv:"intensity_std"`
	IntensityMax  float64 `csv:"intensity_max"`
	Coverage      float64 `csv:"coverage"` // Fraction of texels above coverageThreshold
}

// coverageThreshold is the intensity above which a texel counts as touched.
const coverageThreshold = 0.05

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

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeForceStats calculates mean, median, p90 and max of point forces.
func ComputeForceStats(forces []float64) (mean, p50, p90, max float64) {
	if len(forces) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(forces))
	copy(sorted, forces)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	max = sorted[len(sorted)-1]
	return mean, p50, p90, max
}

// ComputeBufferStats summarises the red channel of an RGBA intensity buffer.
func ComputeBufferStats(buf []byte) (mean, std, max, coverage float64) {
	n := len(buf) / 4
	if n == 0 {
		return 0, 0, 0, 0
	}

	values := make([]float64, n)
	covered := 0
	for i := range values {
		v := float64(buf[i*4]) / 255
		values[i] = v
		if v > coverageThreshold {
			covered++
		}
	}

	mean, std = stat.PopMeanStdDev(values, nil)
	max = floats.Max(values)
	coverage = float64(covered) / float64(n)
	return mean, std, max, coverage
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("moves", s.Moves),
		slog.Int("hits", s.Hits),
		slog.Int("misses", s.Misses),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("live_points", s.LivePoints),
		slog.String("state", s.State),
		slog.Int("uploads", s.Uploads),
		slog.Float64("force_mean", s.ForceMean),
		slog.Float64("force_p50", s.ForceP50),
		slog.Float64("force_p90", s.ForceP90),
		slog.Float64("force_max", s.ForceMax),
		slog.Float64("intensity_mean", s.IntensityMean),
		slog.Float64("intensity_std", s.IntensityStd),
		slog.Float64("intensity_max", s.IntensityMax),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"moves", s.Moves,
		"hits", s.Hits,
		"misses", s.Misses,
		"hit_rate", s.HitRate,
		"live_points", s.LivePoints,
		"state", s.State,
		"uploads", s.Uploads,
		"force_mean", s.ForceMean,
		"force_p90", s.ForceP90,
		"force_max", s.ForceMax,
		"intensity_mean", s.IntensityMean,
		"intensity_max", s.IntensityMax,
		"coverage", s.Coverage,
	)
}
