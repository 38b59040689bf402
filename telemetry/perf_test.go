package telemetry

import (
	"testing"
	"time"
)

// stepClock is a manual time source for PerfCollector.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time         { return c.t }
func (c *stepClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *stepClock) {
	clock := &stepClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.SetClock(clock.Now)
	return pc, clock
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, clock := newTestCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTouchField)
		clock.Advance(100 * time.Microsecond)
		pc.StartPhase(PhaseSprites)
		clock.Advance(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration != 300*time.Microsecond {
		t.Errorf("expected 300µs average tick, got %v", stats.AvgTickDuration)
	}
	if got := stats.PhaseAvg[PhaseTouchField]; got != 100*time.Microsecond {
		t.Errorf("expected touch_field 100µs, got %v", got)
	}
	if got := stats.PhaseAvg[PhaseSprites]; got != 200*time.Microsecond {
		t.Errorf("expected sprites 200µs, got %v", got)
	}
}

func TestPerfCollector_RealClock(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartTick()
	pc.StartPhase(PhaseTouchField)
	time.Sleep(2 * time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	if stats.AvgTickDuration < 2*time.Millisecond {
		t.Errorf("expected at least 2ms tick, got %v", stats.AvgTickDuration)
	}
	if _, ok := stats.PhaseAvg[PhaseTouchField]; !ok {
		t.Error("expected touch_field phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newTestCollector(5)

	// Ten ticks through a five-sample window: only the last five count
	for i := 1; i <= 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTouchField)
		clock.Advance(time.Duration(i) * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.MinTickDuration != 6*time.Millisecond || stats.MaxTickDuration != 10*time.Millisecond {
		t.Errorf("expected window 6ms..10ms, got %v..%v", stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.AvgTickDuration != 8*time.Millisecond {
		t.Errorf("expected 8ms average, got %v", stats.AvgTickDuration)
	}
	if stats.TicksPerSecond != 125 {
		t.Errorf("expected 125 ticks per second, got %v", stats.TicksPerSecond)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc, clock := newTestCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		clock.Advance(1 * time.Millisecond)
		pc.StartPhase("slow")
		clock.Advance(3 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if got := stats.PhasePct["fast"]; got != 25 {
		t.Errorf("expected fast phase 25%%, got %v%%", got)
	}
	if got := stats.PhasePct["slow"]; got != 75 {
		t.Errorf("expected slow phase 75%%, got %v%%", got)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc, clock := newTestCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	clock.Advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("expected 20ms frame, got %v", stats.FrameDuration)
	}
	if stats.FPS != 50 {
		t.Errorf("expected 50 FPS, got %v", stats.FPS)
	}
}
