package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Empty values fall through to defaults; this also shields the test from
	// whatever the ambient environment carries.
	t.Setenv("ATHEROEVAL_FOLDS", "")
	t.Setenv("ATHEROEVAL_SEED", "")
	t.Setenv("ATHEROEVAL_THRESHOLD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Evaluation.Folds != DefaultFolds {
		t.Errorf("expected %d folds, got %d", DefaultFolds, cfg.Evaluation.Folds)
	}
	if cfg.Evaluation.Seed != DefaultSeed {
		t.Errorf("expected seed %d, got %d", DefaultSeed, cfg.Evaluation.Seed)
	}
	if cfg.Evaluation.Threshold != DefaultThreshold {
		t.Errorf("expected threshold %v, got %v", DefaultThreshold, cfg.Evaluation.Threshold)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ATHEROEVAL_FOLDS", "10")
	t.Setenv("ATHEROEVAL_SEED", "7")
	t.Setenv("ATHEROEVAL_THRESHOLD", "0.4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Evaluation.Folds != 10 || cfg.Evaluation.Seed != 7 || cfg.Evaluation.Threshold != 0.4 {
		t.Errorf("env overrides not applied: %+v", cfg.Evaluation)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("ATHEROEVAL_FOLDS", "one")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric fold count")
	}

	t.Setenv("ATHEROEVAL_FOLDS", "1")
	if _, err := Load(); err == nil {
		t.Error("expected error for fold count below 2")
	}
}

func TestValidate_Threshold(t *testing.T) {
	cfg := &Config{
		Data:       DataConfig{CohortFile: "cohort.csv"},
		Evaluation: EvaluationConfig{Folds: 5, Seed: 1, Threshold: 1.5},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for threshold outside (0,1)")
	}
}
