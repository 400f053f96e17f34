package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ROCCurve holds a receiver operating characteristic curve derived from the
// full score set, ordered by decreasing threshold.
type ROCCurve struct {
	TPR []float64 `json:"tpr"`
	FPR []float64 `json:"fpr"`
	AUC float64   `json:"auc"`
}

// NewROCCurve computes the ROC curve and its area for actual binary outcomes
// and predicted probabilities. The curve spans every distinct score, not a
// fixed handful of cutoffs.
func NewROCCurve(actual, probabilities []float64) (ROCCurve, error) {
	if len(actual) != len(probabilities) {
		return ROCCurve{}, fmt.Errorf("actual/probability length mismatch: %d vs %d", len(actual), len(probabilities))
	}
	if len(actual) == 0 {
		return ROCCurve{}, fmt.Errorf("cannot compute ROC curve over empty score set")
	}

	// stat.ROC requires scores sorted ascending with labels kept aligned.
	scores := make([]float64, len(probabilities))
	copy(scores, probabilities)
	classes := make([]bool, len(actual))
	for i, a := range actual {
		classes[i] = a == 1
	}
	stat.SortWeightedLabeled(scores, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	auc := integrate.Trapezoidal(fpr, tpr)

	return ROCCurve{TPR: tpr, FPR: fpr, AUC: auc}, nil
}
