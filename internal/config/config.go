package config

import (
	"os"
	"strconv"

	"atheroeval/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data       DataConfig
	Evaluation EvaluationConfig
	Output     OutputConfig
}

// DataConfig holds cohort data source settings
type DataConfig struct {
	CohortFile string
}

// EvaluationConfig holds cross-validation and sweep settings
type EvaluationConfig struct {
	Folds     int
	Seed      int64
	Threshold float64
}

// OutputConfig holds report and chart destinations
type OutputConfig struct {
	Dir string
}

// Defaults matching the reference analysis: 5 folds, seed 2561, 0.5 cut.
const (
	DefaultFolds     = 5
	DefaultSeed      = 2561
	DefaultThreshold = 0.5
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			CohortFile: getEnv("ATHEROEVAL_COHORT_FILE", "data/athero_cohort.csv"),
		},
		Evaluation: EvaluationConfig{
			Folds:     DefaultFolds,
			Seed:      DefaultSeed,
			Threshold: DefaultThreshold,
		},
		Output: OutputConfig{
			Dir: getEnv("ATHEROEVAL_OUTPUT_DIR", "out"),
		},
	}

	if v := os.Getenv("ATHEROEVAL_FOLDS"); v != "" {
		folds, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid ATHEROEVAL_FOLDS")
		}
		config.Evaluation.Folds = folds
	}

	if v := os.Getenv("ATHEROEVAL_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "invalid ATHEROEVAL_SEED")
		}
		config.Evaluation.Seed = seed
	}

	if v := os.Getenv("ATHEROEVAL_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrap(err, "invalid ATHEROEVAL_THRESHOLD")
		}
		config.Evaluation.Threshold = threshold
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Data.CohortFile == "" {
		return errors.ConfigInvalid("cohort file path cannot be empty")
	}
	if c.Evaluation.Folds < 2 {
		return errors.ConfigInvalid("fold count must be at least 2")
	}
	if c.Evaluation.Threshold <= 0 || c.Evaluation.Threshold >= 1 {
		return errors.ConfigInvalid("classification threshold must be in (0, 1)")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
