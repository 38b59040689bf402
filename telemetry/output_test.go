package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/go-cmp/cmp"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// All methods are safe on nil.
	if err := om.WriteTouch(WindowStats{}); err != nil {
		t.Errorf("WriteTouch on nil: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf on nil: %v", err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Errorf("WriteConfig on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Error("Dir on nil should be empty")
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	windows := []WindowStats{
		{WindowEndTick: 60, SimTimeSec: 1, Moves: 10, Hits: 8, Misses: 2, HitRate: 0.8, State: "active"},
		{WindowEndTick: 120, SimTimeSec: 2, State: "idle"},
	}
	for _, w := range windows {
		if err := om.WriteTouch(w); err != nil {
			t.Fatalf("WriteTouch: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{FPS: 60}, 60); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "touch.csv"))
	if err != nil {
		t.Fatalf("open touch.csv: %v", err)
	}
	defer f.Close()

	var got []WindowStats
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("UnmarshalFile: %v", err)
	}
	if diff := cmp.Diff(windows, got); diff != "" {
		t.Errorf("touch.csv mismatch (-want +got):\n%s", diff)
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("read perf.csv: %v", err)
	}
	if len(perf) == 0 {
		t.Error("perf.csv is empty")
	}
}
