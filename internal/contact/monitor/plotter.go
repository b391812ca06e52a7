// Package monitor provides an optional diagnostic plotter for the
// contact estimator. It implements the contact.StepObserver hook and
// renders one PNG scatter per observed step: socket sample, transformed
// plug sample, and the samples currently scored as in contact.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/ismarou/extrinsic-contact/internal/contact"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ContactPlotter renders step snapshots to PNG files in an output
// directory. Points are projected onto the X-Z plane (the insertion
// axis view). The plotter is inert until Start is called.
type ContactPlotter struct {
	mu        sync.Mutex
	enabled   bool
	outputDir string
}

// NewContactPlotter returns a disabled plotter.
func NewContactPlotter() *ContactPlotter {
	return &ContactPlotter{}
}

// Start creates the output directory and enables rendering.
func (cp *ContactPlotter) Start(outputDir string) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	cp.outputDir = outputDir
	cp.enabled = true
	return nil
}

// Stop disables rendering.
func (cp *ContactPlotter) Stop() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.enabled = false
}

// IsEnabled reports whether the plotter is currently rendering.
func (cp *ContactPlotter) IsEnabled() bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.enabled
}

// ObserveStep implements contact.StepObserver.
func (cp *ContactPlotter) ObserveStep(s contact.StepSnapshot) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if !cp.enabled {
		return
	}
	if err := cp.render(s); err != nil {
		// Diagnostics must never fail the step; drop the frame.
		return
	}
}

func (cp *ContactPlotter) render(s contact.StepSnapshot) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("contact step %d (instance %d)", s.Step, s.Instance)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Z (m)"

	socketPts := make(plotter.XYs, 0, len(s.SocketPoints))
	for _, pt := range s.SocketPoints {
		socketPts = append(socketPts, plotter.XY{X: pt.X, Y: pt.Z})
	}
	plugPts := make(plotter.XYs, 0, len(s.PlugPoints))
	contactPts := make(plotter.XYs, 0, len(s.PlugPoints))
	for i, pt := range s.PlugPoints {
		plugPts = append(plugPts, plotter.XY{X: pt.X, Y: pt.Z})
		if i < len(s.Scores) && s.Scores[i] == 1.0 {
			contactPts = append(contactPts, plotter.XY{X: pt.X, Y: pt.Z})
		}
	}

	for _, layer := range []struct {
		pts plotter.XYs
		col color.Color
	}{
		{socketPts, color.RGBA{R: 220, G: 180, B: 0, A: 255}},
		{plugPts, color.RGBA{A: 255}},
		{contactPts, color.RGBA{R: 220, A: 255}},
	} {
		if len(layer.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(layer.pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = layer.col
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
	}

	file := filepath.Join(cp.outputDir, fmt.Sprintf("step_%05d.png", s.Step))
	return p.Save(6*vg.Inch, 6*vg.Inch, file)
}
