package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ten labeled rows with known confusion counts at threshold 0.5:
// tp=3, fp=1, tn=4, fn=2.
var (
	knownActual = []float64{1, 1, 1, 1, 1, 0, 0, 0, 0, 0}
	knownProbs  = []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.6, 0.4, 0.3, 0.2, 0.1}
)

func TestConfusionMatrix_KnownCounts(t *testing.T) {
	cm, err := NewConfusionMatrix(knownActual, knownProbs, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 3, cm.TruePositives)
	assert.Equal(t, 1, cm.FalsePositives)
	assert.Equal(t, 4, cm.TrueNegatives)
	assert.Equal(t, 2, cm.FalseNegatives)
	assert.Equal(t, 10, cm.Total())
}

func TestConfusionMatrix_DerivedFormulas(t *testing.T) {
	cm := ConfusionMatrix{TruePositives: 3, FalsePositives: 1, TrueNegatives: 4, FalseNegatives: 2}

	assert.InDelta(t, 7.0/10.0, cm.Accuracy(), 1e-12)
	assert.InDelta(t, 3.0/5.0, cm.Sensitivity(), 1e-12)
	assert.InDelta(t, 4.0/5.0, cm.Specificity(), 1e-12)
	assert.InDelta(t, 3.0/4.0, cm.Precision(), 1e-12)

	precision, sensitivity := 3.0/4.0, 3.0/5.0
	assert.InDelta(t, 2*precision*sensitivity/(precision+sensitivity), cm.F1(), 1e-12)
	assert.InDelta(t, 1.0/5.0, cm.FalsePositiveRate(), 1e-12)
}

// TestConfusionMatrix_EmptyCellsPropagateNaN pins the division-by-zero
// behavior: no positive predictions must yield NaN precision, not a guard
// value.
func TestConfusionMatrix_EmptyCellsPropagateNaN(t *testing.T) {
	cm := ConfusionMatrix{TrueNegatives: 5, FalseNegatives: 5}

	assert.True(t, math.IsNaN(cm.Precision()))
	assert.True(t, math.IsNaN(cm.F1()))
	assert.InDelta(t, 0.0, cm.Sensitivity(), 1e-12) // 0/5, not NaN
}

func TestConfusionMatrix_ThresholdIsStrict(t *testing.T) {
	// predicted positive iff p > threshold, so p == threshold is negative
	cm, err := NewConfusionMatrix([]float64{1, 0}, []float64{0.5, 0.5}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, cm.TruePositives)
	assert.Equal(t, 1, cm.FalseNegatives)
	assert.Equal(t, 1, cm.TrueNegatives)
}

func TestConfusionMatrix_LengthMismatch(t *testing.T) {
	_, err := NewConfusionMatrix([]float64{1}, []float64{0.5, 0.6}, 0.5)
	assert.Error(t, err)
}

func TestNewFoldScore_CarriesAllMetrics(t *testing.T) {
	cm := ConfusionMatrix{TruePositives: 3, FalsePositives: 1, TrueNegatives: 4, FalseNegatives: 2}
	score := NewFoldScore(2, 80, 20, 0.5, cm, 0.91)

	assert.Equal(t, 2, score.Fold)
	assert.Equal(t, 80, score.TrainSize)
	assert.Equal(t, 20, score.TestSize)
	assert.InDelta(t, cm.Accuracy(), score.Accuracy, 1e-12)
	assert.InDelta(t, cm.F1(), score.F1, 1e-12)
	assert.InDelta(t, 0.91, score.AUC, 1e-12)
}

func TestNewROCCurve_PerfectSeparation(t *testing.T) {
	actual := []float64{0, 0, 0, 1, 1, 1}
	probs := []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}

	roc, err := NewROCCurve(actual, probs)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, roc.AUC, 1e-12)
}

func TestNewROCCurve_RandomScores(t *testing.T) {
	// Scores identical across classes: AUC 0.5.
	actual := []float64{0, 1, 0, 1}
	probs := []float64{0.4, 0.4, 0.4, 0.4}

	roc, err := NewROCCurve(actual, probs)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, roc.AUC, 1e-12)
}

func TestNewROCCurve_Empty(t *testing.T) {
	_, err := NewROCCurve(nil, nil)
	assert.Error(t, err)
}
