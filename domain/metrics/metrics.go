package metrics

import (
	"fmt"
)

// ConfusionMatrix is the 2x2 table of classification outcomes at a single
// decision threshold.
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// NewConfusionMatrix tabulates actual binary outcomes against predicted
// probabilities classified at the given threshold (predicted positive iff
// probability > threshold).
func NewConfusionMatrix(actual, probabilities []float64, threshold float64) (ConfusionMatrix, error) {
	if len(actual) != len(probabilities) {
		return ConfusionMatrix{}, fmt.Errorf("actual/probability length mismatch: %d vs %d", len(actual), len(probabilities))
	}

	var cm ConfusionMatrix
	for i, p := range probabilities {
		predicted := p > threshold
		positive := actual[i] == 1
		switch {
		case predicted && positive:
			cm.TruePositives++
		case predicted && !positive:
			cm.FalsePositives++
		case !predicted && !positive:
			cm.TrueNegatives++
		default:
			cm.FalseNegatives++
		}
	}
	return cm, nil
}

// Total returns the number of classified observations
func (cm ConfusionMatrix) Total() int {
	return cm.TruePositives + cm.FalsePositives + cm.TrueNegatives + cm.FalseNegatives
}

// All ratios below are computed in float64 so an empty cell sum yields NaN
// rather than a silent guard value; NaN propagates into fold means, matching
// the reference behavior.

// Accuracy returns (tp+tn)/total
func (cm ConfusionMatrix) Accuracy() float64 {
	return float64(cm.TruePositives+cm.TrueNegatives) / float64(cm.Total())
}

// Sensitivity returns tp/(tp+fn), the true-positive rate (recall)
func (cm ConfusionMatrix) Sensitivity() float64 {
	return float64(cm.TruePositives) / float64(cm.TruePositives+cm.FalseNegatives)
}

// Specificity returns tn/(tn+fp), the true-negative rate
func (cm ConfusionMatrix) Specificity() float64 {
	return float64(cm.TrueNegatives) / float64(cm.TrueNegatives+cm.FalsePositives)
}

// Precision returns tp/(tp+fp)
func (cm ConfusionMatrix) Precision() float64 {
	return float64(cm.TruePositives) / float64(cm.TruePositives+cm.FalsePositives)
}

// F1 returns the harmonic mean of precision and sensitivity
func (cm ConfusionMatrix) F1() float64 {
	p := cm.Precision()
	s := cm.Sensitivity()
	return 2 * p * s / (p + s)
}

// FalsePositiveRate returns 1 - specificity
func (cm ConfusionMatrix) FalsePositiveRate() float64 {
	return 1 - cm.Specificity()
}

// FoldScore is the immutable per-fold evaluation record produced by
// cross-validation. One record is collected per fold and the set is reduced
// once at the end, instead of mutating shared accumulator slices.
type FoldScore struct {
	Fold        int             `json:"fold"`
	TrainSize   int             `json:"train_size"`
	TestSize    int             `json:"test_size"`
	Threshold   float64         `json:"threshold"`
	Confusion   ConfusionMatrix `json:"confusion"`
	Accuracy    float64         `json:"accuracy"`
	Sensitivity float64         `json:"sensitivity"`
	Specificity float64         `json:"specificity"`
	Precision   float64         `json:"precision"`
	F1          float64         `json:"f1"`
	FPR         float64         `json:"fpr"`
	AUC         float64         `json:"auc"`
}

// NewFoldScore derives all scalar metrics from a confusion matrix and a
// separately computed AUC.
func NewFoldScore(fold, trainSize, testSize int, threshold float64, cm ConfusionMatrix, auc float64) FoldScore {
	return FoldScore{
		Fold:        fold,
		TrainSize:   trainSize,
		TestSize:    testSize,
		Threshold:   threshold,
		Confusion:   cm,
		Accuracy:    cm.Accuracy(),
		Sensitivity: cm.Sensitivity(),
		Specificity: cm.Specificity(),
		Precision:   cm.Precision(),
		F1:          cm.F1(),
		FPR:         cm.FalsePositiveRate(),
		AUC:         auc,
	}
}

// SweepPoint is one threshold's worth of sweep-mode metrics.
type SweepPoint struct {
	Threshold float64 `json:"threshold"`
	Recall    float64 `json:"recall"`
	Precision float64 `json:"precision"`
	FPR       float64 `json:"fpr"`
}
