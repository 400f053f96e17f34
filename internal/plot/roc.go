// Package plot renders the two ROC line charts of an evaluation run.
package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"atheroeval/domain/metrics"
	"atheroeval/internal"
)

var (
	curveColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	diagonalColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// ROCPlotter renders ROC curves to an output directory
type ROCPlotter struct {
	outputDir string
	logger    *internal.Logger
}

// NewROCPlotter creates a plotter writing into outputDir
func NewROCPlotter(outputDir string, logger *internal.Logger) *ROCPlotter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ROCPlotter{outputDir: outputDir, logger: logger}
}

// PlotCrossval renders the 3-point cross-validation ROC curve
// (0,0) -> (mean FPR, mean sensitivity) -> (1,1) with a diagonal reference.
func (r *ROCPlotter) PlotCrossval(meanFPR, meanSensitivity float64) (string, error) {
	pts := plotter.XYs{
		{X: 0, Y: 0},
		{X: meanFPR, Y: meanSensitivity},
		{X: 1, Y: 1},
	}
	return r.render("ROC curve (5-fold cross-validation, threshold 0.5)", "roc_crossval.png", pts)
}

// PlotSweep renders the swept ROC curve: one FPR/recall point per threshold
func (r *ROCPlotter) PlotSweep(points []metrics.SweepPoint) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("cannot plot empty threshold sweep")
	}
	pts := make(plotter.XYs, len(points))
	for i, p := range points {
		pts[i].X = p.FPR
		pts[i].Y = p.Recall
	}
	return r.render("ROC curve (threshold sweep 0.10-0.90)", "roc_sweep.png", pts)
}

func (r *ROCPlotter) render(title, filename string, pts plotter.XYs) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "Sensitivity"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	curve, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("failed to build ROC line: %w", err)
	}
	curve.Color = curveColor

	diagonal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return "", fmt.Errorf("failed to build reference line: %w", err)
	}
	diagonal.Color = diagonalColor
	diagonal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(curve, diagonal)
	p.Legend.Add("model", curve)
	p.Legend.Add("chance", diagonal)
	p.Legend.Top = false

	path := filepath.Join(r.outputDir, filename)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}

	r.logger.Info("[Plot] wrote %s", path)
	return path, nil
}
