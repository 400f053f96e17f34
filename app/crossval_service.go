package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"atheroeval/domain/core"
	"atheroeval/domain/dataset"
	"atheroeval/domain/metrics"
	"atheroeval/internal"
	apperrors "atheroeval/internal/errors"
	"atheroeval/internal/folds"
	"atheroeval/internal/glm"
)

// CrossvalService runs k-fold cross-validated probit evaluation over a cohort
type CrossvalService struct {
	logger *internal.Logger
}

// CrossvalRequest defines the inputs for a deterministic cross-validation run
type CrossvalRequest struct {
	Cohort    *dataset.Cohort
	Folds     int
	Seed      int64
	Threshold float64
	RunID     core.RunID // optional, generated if empty
}

// CrossvalResult contains the per-fold score records of a run
type CrossvalResult struct {
	RunID     core.RunID          `json:"run_id"`
	Seed      int64               `json:"seed"`
	Threshold float64             `json:"threshold"`
	Scores    []metrics.FoldScore `json:"scores"`
	RuntimeMs int64               `json:"runtime_ms"`
	CreatedAt core.Timestamp      `json:"created_at"`
}

// NewCrossvalService creates a cross-validation service
func NewCrossvalService(logger *internal.Logger) *CrossvalService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CrossvalService{logger: logger}
}

// Run fits one probit model per fold on the training partition, scores the
// held-out partition at the request threshold, and collects one immutable
// FoldScore per fold. Fold fits are independent and run concurrently; each
// result lands in its fold's slot, so output order is deterministic.
func (s *CrossvalService) Run(ctx context.Context, req CrossvalRequest) (*CrossvalResult, error) {
	startTime := time.Now()

	if req.Cohort == nil {
		return nil, apperrors.InvalidInput("cross-validation requires a cohort")
	}
	if err := req.Cohort.ValidateSchema(); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeSchemaError, "cohort schema check failed")
	}

	runID := req.RunID
	if core.ID(runID).IsEmpty() {
		runID = core.NewRunID()
	}

	partition, err := folds.Split(req.Cohort.NumRows(), req.Folds, req.Seed)
	if err != nil {
		return nil, fmt.Errorf("fold split failed: %w", err)
	}

	outcome, err := req.Cohort.Outcome()
	if err != nil {
		return nil, err
	}
	positives := 0
	for _, v := range outcome {
		if v == 1 {
			positives++
		}
	}

	s.logger.Info("[Crossval] run %s: %d folds over %d rows, %d positive (seed %d, threshold %.2f)",
		runID, req.Folds, req.Cohort.NumRows(), positives, req.Seed, req.Threshold)

	scores := make([]metrics.FoldScore, len(partition))
	g, gctx := errgroup.WithContext(ctx)
	for i := range partition {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := s.evaluateFold(req.Cohort, partition[i], i, req.Threshold)
			if err != nil {
				return apperrors.Wrapf(err, "fold %d", i+1)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, score := range scores {
		s.logger.Debug("[Crossval] fold %d: accuracy=%.4f sensitivity=%.4f specificity=%.4f auc=%.4f",
			score.Fold, score.Accuracy, score.Sensitivity, score.Specificity, score.AUC)
	}

	return &CrossvalResult{
		RunID:     runID,
		Seed:      req.Seed,
		Threshold: req.Threshold,
		Scores:    scores,
		RuntimeMs: time.Since(startTime).Milliseconds(),
		CreatedAt: core.Now(),
	}, nil
}

// evaluateFold fits on the training partition and scores the held-out rows
func (s *CrossvalService) evaluateFold(cohort *dataset.Cohort, fold folds.Fold, index int, threshold float64) (metrics.FoldScore, error) {
	p := len(dataset.PredictorColumns)

	trainX, trainY, err := cohort.MatrixFor(fold.Train)
	if err != nil {
		return metrics.FoldScore{}, err
	}
	model, err := glm.Fit(trainX, trainY, p)
	if err != nil {
		return metrics.FoldScore{}, apperrors.Wrap(err, "probit fit failed")
	}

	testX, testY, err := cohort.MatrixFor(fold.Test)
	if err != nil {
		return metrics.FoldScore{}, err
	}
	probs, err := model.Predict(testX)
	if err != nil {
		return metrics.FoldScore{}, err
	}

	cm, err := metrics.NewConfusionMatrix(testY, probs, threshold)
	if err != nil {
		return metrics.FoldScore{}, err
	}
	roc, err := metrics.NewROCCurve(testY, probs)
	if err != nil {
		return metrics.FoldScore{}, err
	}

	return metrics.NewFoldScore(index+1, len(fold.Train), len(fold.Test), threshold, cm, roc.AUC), nil
}
