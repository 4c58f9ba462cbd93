package storage

import (
	"testing"

	"github.com/san-kum/relsim/internal/gr"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	samples := []Sample{
		{Time: 0, Positions: []gr.Vec3{{}, {X: 0.307}}},
		{Time: 0.1, Positions: []gr.Vec3{{X: -1e-7}, {X: 0.2, Y: 0.21, Z: 0.001}}},
	}
	runID, err := store.Save(RunMetadata{
		Correction: "implicit",
		G:          39.478,
		C:          63239.7,
		Dt:         1e-4,
		Duration:   1.0,
		Bodies:     2,
		Metrics:    map[string]float64{"energy_drift": 1e-9},
	}, samples)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Correction != "implicit" || meta.Bodies != 2 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 1e-9 {
		t.Errorf("metrics not preserved: %v", meta.Metrics)
	}

	loaded, err := store.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples: %v", err)
	}
	if len(loaded) != len(samples) {
		t.Fatalf("samples = %d, want %d", len(loaded), len(samples))
	}
	if loaded[1].Positions[1] != samples[1].Positions[1] {
		t.Errorf("position round trip: %+v vs %+v", loaded[1].Positions[1], samples[1].Positions[1])
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("list = %+v, want single run %s", runs, runID)
	}
}

func TestListEmptyDir(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
