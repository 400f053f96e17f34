// Package report reduces per-fold score records into the cross-validated
// summary and writes the markdown/HTML run report.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"atheroeval/domain/core"
	"atheroeval/domain/metrics"
	"atheroeval/internal"
)

// Summary is the 5-fold cross-validated metric summary: the arithmetic mean
// of each per-fold sequence.
type Summary struct {
	RunID           core.RunID `json:"run_id"`
	Folds           int        `json:"folds"`
	Threshold       float64    `json:"threshold"`
	MeanAccuracy    float64    `json:"mean_accuracy"`
	MeanSensitivity float64    `json:"mean_sensitivity"`
	MeanSpecificity float64    `json:"mean_specificity"`
	MeanPrecision   float64    `json:"mean_precision"`
	MeanF1          float64    `json:"mean_f1"`
	MeanFPR         float64    `json:"mean_fpr"`
	MeanAUC         float64    `json:"mean_auc"`
}

// Summarize reduces fold scores to their arithmetic means. NaN fold metrics
// (empty confusion cells) propagate into the means rather than being
// silently skipped.
func Summarize(runID core.RunID, threshold float64, scores []metrics.FoldScore) (*Summary, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("cannot summarize zero fold scores")
	}

	accuracy := make([]float64, len(scores))
	sensitivity := make([]float64, len(scores))
	specificity := make([]float64, len(scores))
	precision := make([]float64, len(scores))
	f1 := make([]float64, len(scores))
	fpr := make([]float64, len(scores))
	auc := make([]float64, len(scores))
	for i, s := range scores {
		accuracy[i] = s.Accuracy
		sensitivity[i] = s.Sensitivity
		specificity[i] = s.Specificity
		precision[i] = s.Precision
		f1[i] = s.F1
		fpr[i] = s.FPR
		auc[i] = s.AUC
	}

	summary := &Summary{
		RunID:     runID,
		Folds:     len(scores),
		Threshold: threshold,
	}
	for _, m := range []struct {
		dst    *float64
		values []float64
	}{
		{&summary.MeanAccuracy, accuracy},
		{&summary.MeanSensitivity, sensitivity},
		{&summary.MeanSpecificity, specificity},
		{&summary.MeanPrecision, precision},
		{&summary.MeanF1, f1},
		{&summary.MeanFPR, fpr},
		{&summary.MeanAUC, auc},
	} {
		mean, err := stats.Mean(m.values)
		if err != nil {
			return nil, fmt.Errorf("mean computation failed: %w", err)
		}
		*m.dst = mean
	}
	return summary, nil
}

// Reporter writes run reports to an output directory
type Reporter struct {
	outputDir string
	logger    *internal.Logger
}

// NewReporter creates a reporter writing into outputDir
func NewReporter(outputDir string, logger *internal.Logger) *Reporter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reporter{outputDir: outputDir, logger: logger}
}

// Write renders the run report as report.md and report.html
func (r *Reporter) Write(summary *Summary, scores []metrics.FoldScore, sweep []metrics.SweepPoint) error {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	md := r.renderMarkdown(summary, scores, sweep)
	mdPath := filepath.Join(r.outputDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}

	htmlPath := filepath.Join(r.outputDir, "report.html")
	if err := os.WriteFile(htmlPath, renderHTML(md), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}

	r.logger.Info("[Report] wrote %s and %s", mdPath, htmlPath)
	return nil
}

func (r *Reporter) renderMarkdown(summary *Summary, scores []metrics.FoldScore, sweep []metrics.SweepPoint) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Atherosclerosis probit evaluation\n\n")
	fmt.Fprintf(&b, "Run `%s`, %d-fold cross-validation at threshold %.2f.\n\n", summary.RunID, summary.Folds, summary.Threshold)

	fmt.Fprintf(&b, "## Cross-validated summary\n\n")
	fmt.Fprintf(&b, "| Metric | Mean |\n|---|---|\n")
	fmt.Fprintf(&b, "| Accuracy | %.4f |\n", summary.MeanAccuracy)
	fmt.Fprintf(&b, "| Sensitivity | %.4f |\n", summary.MeanSensitivity)
	fmt.Fprintf(&b, "| Specificity | %.4f |\n", summary.MeanSpecificity)
	fmt.Fprintf(&b, "| Precision | %.4f |\n", summary.MeanPrecision)
	fmt.Fprintf(&b, "| F1 | %.4f |\n", summary.MeanF1)
	fmt.Fprintf(&b, "| False positive rate | %.4f |\n", summary.MeanFPR)
	fmt.Fprintf(&b, "| AUC | %.4f |\n\n", summary.MeanAUC)

	fmt.Fprintf(&b, "## Per-fold scores\n\n")
	fmt.Fprintf(&b, "| Fold | Train | Test | Accuracy | Sensitivity | Specificity | Precision | F1 | AUC |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|---|---|---|\n")
	for _, s := range scores {
		fmt.Fprintf(&b, "| %d | %d | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			s.Fold, s.TrainSize, s.TestSize, s.Accuracy, s.Sensitivity, s.Specificity, s.Precision, s.F1, s.AUC)
	}
	b.WriteString("\n")

	if len(sweep) > 0 {
		fmt.Fprintf(&b, "## Threshold sweep (%d points, fold 1 split)\n\n", len(sweep))
		fmt.Fprintf(&b, "| Threshold | Recall | Precision | FPR |\n|---|---|---|---|\n")
		for _, p := range sweep {
			fmt.Fprintf(&b, "| %.2f | %.4f | %.4f | %.4f |\n", p.Threshold, p.Recall, p.Precision, p.FPR)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderHTML converts the markdown report to a standalone HTML document
func renderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Atherosclerosis probit evaluation",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}
