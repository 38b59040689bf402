package telemetry

import "github.com/pthm-cable/dissolve/systems"

// Collector accumulates pointer events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	moves   int
	hits    int
	misses  int
	uploads int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordMove records a pointer move and whether it hit the surface.
func (c *Collector) RecordMove(hit bool) {
	c.moves++
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// RecordUpload records a touch texture upload.
func (c *Collector) RecordUpload() {
	c.uploads++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// points is the live trail and buffer the RGBA intensity buffer at window end.
func (c *Collector) Flush(currentTick int32, state systems.TouchState, points []systems.TouchPoint, buffer []byte) WindowStats {
	var hitRate float64
	if c.moves > 0 {
		hitRate = float64(c.hits) / float64(c.moves)
	}

	forces := make([]float64, len(points))
	for i, p := range points {
		forces[i] = p.Force
	}
	fMean, fP50, fP90, fMax := ComputeForceStats(forces)
	iMean, iStd, iMax, coverage := ComputeBufferStats(buffer)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Moves:   c.moves,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,

		LivePoints: len(points),
		State:      state.String(),
		Uploads:    c.uploads,

		ForceMean: fMean,
		ForceP50:  fP50,
		ForceP90:  fP90,
		ForceMax:  fMax,

		IntensityMean: iMean,
		IntensityStd:  iStd,
		IntensityMax:  iMax,
		Coverage:      coverage,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.moves = 0
	c.hits = 0
	c.misses = 0
	c.uploads = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
