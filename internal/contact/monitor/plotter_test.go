package monitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ismarou/extrinsic-contact/internal/contact"
	"gonum.org/v1/gonum/spatial/r3"
)

func snapshot(step int) contact.StepSnapshot {
	return contact.StepSnapshot{
		Step:     step,
		Instance: 0,
		PlugPoints: []r3.Vec{
			{X: 0.01, Z: 0.05}, {X: -0.02, Z: 0.06},
		},
		SocketPoints: []r3.Vec{
			{X: 0.05, Z: 0}, {X: -0.05, Z: 0.01},
		},
		Scores: []float64{1.0, 0.0},
	}
}

func TestPlotter_DisabledByDefault(t *testing.T) {
	cp := NewContactPlotter()
	if cp.IsEnabled() {
		t.Fatal("new plotter must start disabled")
	}
	// Observing while disabled is a no-op, not a crash.
	cp.ObserveStep(snapshot(0))
}

func TestPlotter_RendersStepFiles(t *testing.T) {
	dir := t.TempDir()
	cp := NewContactPlotter()
	if err := cp.Start(dir); err != nil {
		t.Fatal(err)
	}
	if !cp.IsEnabled() {
		t.Fatal("Start must enable the plotter")
	}

	cp.ObserveStep(snapshot(0))
	cp.ObserveStep(snapshot(1))

	for _, name := range []string{"step_00000.png", "step_00001.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestPlotter_StopDisablesRendering(t *testing.T) {
	dir := t.TempDir()
	cp := NewContactPlotter()
	if err := cp.Start(dir); err != nil {
		t.Fatal(err)
	}
	cp.Stop()
	cp.ObserveStep(snapshot(0))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no renders after Stop, found %d files", len(entries))
	}
}
