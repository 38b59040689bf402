package telemetry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pthm-cable/dissolve/systems"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(2.0, 0.25)
	if got := c.WindowDurationTicks(); got != 8 {
		t.Fatalf("WindowDurationTicks() = %d, want 8", got)
	}
	if c.ShouldFlush(7) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(8) {
		t.Error("should flush once the window ends")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 1.0/60)
	if got := c.WindowDurationTicks(); got != 1 {
		t.Errorf("WindowDurationTicks() = %d, want 1", got)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.5)
	c.RecordMove(true)
	c.RecordMove(true)
	c.RecordMove(true)
	c.RecordMove(false)
	c.RecordUpload()
	c.RecordUpload()

	points := []systems.TouchPoint{{Force: 0.2}, {Force: 0.4}}
	buf := []byte{255, 0, 0, 255, 0, 0, 0, 255}

	got := c.Flush(4, systems.TouchActive, points, buf)
	want := WindowStats{
		WindowStartTick: 0,
		WindowEndTick:   4,
		SimTimeSec:      2,
		Moves:           4,
		Hits:            3,
		Misses:          1,
		HitRate:         0.75,
		LivePoints:      2,
		State:           "active",
		Uploads:         2,
		ForceMean:       0.3,
		ForceP50:        0.3,
		ForceP90:        0.38,
		ForceMax:        0.4,
		IntensityMean:   0.5,
		IntensityStd:    0.5,
		IntensityMax:    1,
		Coverage:        0.5,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Flush() mismatch (-want +got):\n%s", diff)
	}

	next := c.Flush(6, systems.TouchIdle, nil, nil)
	if next.WindowStartTick != 4 || next.Moves != 0 || next.Uploads != 0 {
		t.Errorf("counters not reset after flush: %+v", next)
	}
	if next.State != "idle" {
		t.Errorf("State = %q, want idle", next.State)
	}
}
