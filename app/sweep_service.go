package app

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"atheroeval/domain/core"
	"atheroeval/domain/dataset"
	"atheroeval/domain/metrics"
	"atheroeval/internal"
	apperrors "atheroeval/internal/errors"
	"atheroeval/internal/folds"
	"atheroeval/internal/glm"
)

// Sweep thresholds: 0.10 through 0.90 inclusive at 0.01 steps.
const (
	SweepStart  = 0.10
	SweepEnd    = 0.90
	SweepPoints = 81
)

// SweepService evaluates classification metrics across a threshold sweep
// using a single train/test split.
type SweepService struct {
	logger *internal.Logger
}

// SweepRequest defines the inputs for a threshold sweep
type SweepRequest struct {
	Cohort *dataset.Cohort
	Folds  int
	Seed   int64
	RunID  core.RunID // optional, generated if empty
}

// SweepResult contains one metric point per threshold, ordered by
// increasing threshold.
type SweepResult struct {
	RunID     core.RunID           `json:"run_id"`
	Seed      int64                `json:"seed"`
	Points    []metrics.SweepPoint `json:"points"`
	RuntimeMs int64                `json:"runtime_ms"`
	CreatedAt core.Timestamp       `json:"created_at"`
}

// NewSweepService creates a threshold-sweep service
func NewSweepService(logger *internal.Logger) *SweepService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SweepService{logger: logger}
}

// Run fits the probit model once on the first fold's training partition and
// reclassifies its held-out scores at each swept threshold. The fit does not
// depend on the threshold, so it is not repeated per point.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	startTime := time.Now()

	if req.Cohort == nil {
		return nil, apperrors.InvalidInput("threshold sweep requires a cohort")
	}
	if err := req.Cohort.ValidateSchema(); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeSchemaError, "cohort schema check failed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := req.RunID
	if core.ID(runID).IsEmpty() {
		runID = core.NewRunID()
	}

	partition, err := folds.Split(req.Cohort.NumRows(), req.Folds, req.Seed)
	if err != nil {
		return nil, fmt.Errorf("fold split failed: %w", err)
	}
	split := partition[0]

	s.logger.Info("[Sweep] run %s: %d thresholds on fold 1 split (%d train / %d test)",
		runID, SweepPoints, len(split.Train), len(split.Test))

	p := len(dataset.PredictorColumns)
	trainX, trainY, err := req.Cohort.MatrixFor(split.Train)
	if err != nil {
		return nil, err
	}
	model, err := glm.Fit(trainX, trainY, p)
	if err != nil {
		return nil, apperrors.Wrap(err, "probit fit failed")
	}

	testX, testY, err := req.Cohort.MatrixFor(split.Test)
	if err != nil {
		return nil, err
	}
	probs, err := model.Predict(testX)
	if err != nil {
		return nil, err
	}

	thresholds := make([]float64, SweepPoints)
	floats.Span(thresholds, SweepStart, SweepEnd)

	points := make([]metrics.SweepPoint, 0, SweepPoints)
	for _, threshold := range thresholds {
		cm, err := metrics.NewConfusionMatrix(testY, probs, threshold)
		if err != nil {
			return nil, err
		}
		points = append(points, metrics.SweepPoint{
			Threshold: threshold,
			Recall:    cm.Sensitivity(),
			Precision: cm.Precision(),
			FPR:       cm.FalsePositiveRate(),
		})
	}

	return &SweepResult{
		RunID:     runID,
		Seed:      req.Seed,
		Points:    points,
		RuntimeMs: time.Since(startTime).Milliseconds(),
		CreatedAt: core.Now(),
	}, nil
}
