package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"atheroeval/adapters/tabular"
	"atheroeval/app"
	"atheroeval/domain/core"
	"atheroeval/domain/dataset"
	"atheroeval/internal"
	"atheroeval/internal/config"
	apperrors "atheroeval/internal/errors"
	"atheroeval/internal/plot"
	"atheroeval/internal/preprocess"
	"atheroeval/internal/report"
	"atheroeval/internal/testkit"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", apperrors.GetCode(err), err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "atheroeval",
		Short: "Probit-regression evaluation of an atherosclerosis cohort",
	}

	rootCmd.AddCommand(
		newRunCmd(cfg),
		newCrossvalCmd(cfg),
		newSweepCmd(cfg),
		newSynthCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", apperrors.GetCode(err), err)
		os.Exit(1)
	}
}

// evalFlags are the common data/evaluation flags, defaulted from config
type evalFlags struct {
	data      string
	out       string
	folds     int
	seed      int64
	threshold float64
}

func addEvalFlags(cmd *cobra.Command, cfg *config.Config, flags *evalFlags) {
	cmd.Flags().StringVar(&flags.data, "data", cfg.Data.CohortFile, "cohort file (.csv or .xlsx)")
	cmd.Flags().StringVar(&flags.out, "out", cfg.Output.Dir, "output directory for reports and charts")
	cmd.Flags().IntVar(&flags.folds, "folds", cfg.Evaluation.Folds, "number of cross-validation folds")
	cmd.Flags().Int64Var(&flags.seed, "seed", cfg.Evaluation.Seed, "fold-split random seed")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", cfg.Evaluation.Threshold, "classification threshold")
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var flags evalFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: cross-validation, threshold sweep, report, charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := internal.DefaultLogger
			cohort, err := loadCohort(flags.data)
			if err != nil {
				return err
			}

			runID := core.NewRunID()
			ctx := context.Background()

			cvResult, err := app.NewCrossvalService(logger).Run(ctx, app.CrossvalRequest{
				Cohort:    cohort,
				Folds:     flags.folds,
				Seed:      flags.seed,
				Threshold: flags.threshold,
				RunID:     runID,
			})
			if err != nil {
				return err
			}

			sweepResult, err := app.NewSweepService(logger).Run(ctx, app.SweepRequest{
				Cohort: cohort,
				Folds:  flags.folds,
				Seed:   flags.seed,
				RunID:  runID,
			})
			if err != nil {
				return err
			}

			summary, err := report.Summarize(runID, flags.threshold, cvResult.Scores)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)

			if err := report.NewReporter(flags.out, logger).Write(summary, cvResult.Scores, sweepResult.Points); err != nil {
				return err
			}

			plotter := plot.NewROCPlotter(flags.out, logger)
			if _, err := plotter.PlotCrossval(summary.MeanFPR, summary.MeanSensitivity); err != nil {
				return err
			}
			if _, err := plotter.PlotSweep(sweepResult.Points); err != nil {
				return err
			}
			return nil
		},
	}
	addEvalFlags(cmd, cfg, &flags)
	return cmd
}

func newCrossvalCmd(cfg *config.Config) *cobra.Command {
	var flags evalFlags
	cmd := &cobra.Command{
		Use:   "crossval",
		Short: "Run k-fold cross-validation and print the averaged metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cohort, err := loadCohort(flags.data)
			if err != nil {
				return err
			}

			result, err := app.NewCrossvalService(internal.DefaultLogger).Run(context.Background(), app.CrossvalRequest{
				Cohort:    cohort,
				Folds:     flags.folds,
				Seed:      flags.seed,
				Threshold: flags.threshold,
			})
			if err != nil {
				return err
			}

			summary, err := report.Summarize(result.RunID, flags.threshold, result.Scores)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}
	addEvalFlags(cmd, cfg, &flags)
	return cmd
}

func newSweepCmd(cfg *config.Config) *cobra.Command {
	var flags evalFlags
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the 81-point threshold sweep on the first fold's split",
		RunE: func(cmd *cobra.Command, args []string) error {
			cohort, err := loadCohort(flags.data)
			if err != nil {
				return err
			}

			result, err := app.NewSweepService(internal.DefaultLogger).Run(context.Background(), app.SweepRequest{
				Cohort: cohort,
				Folds:  flags.folds,
				Seed:   flags.seed,
			})
			if err != nil {
				return err
			}

			cmd.Printf("threshold  recall  precision  fpr\n")
			for _, p := range result.Points {
				cmd.Printf("%9.2f  %6.4f  %9.4f  %6.4f\n", p.Threshold, p.Recall, p.Precision, p.FPR)
			}
			return nil
		},
	}
	addEvalFlags(cmd, cfg, &flags)
	return cmd
}

func newSynthCmd(cfg *config.Config) *cobra.Command {
	var (
		out        string
		rows       int
		prevalence float64
		seed       int64
		separable  bool
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic schema-conforming cohort CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := testkit.GenerateCohort(testkit.CohortSpec{
				Rows:       rows,
				Prevalence: prevalence,
				Seed:       seed,
				Separable:  separable,
			})
			if err != nil {
				return err
			}
			if err := testkit.WriteCSV(table, out); err != nil {
				return err
			}
			cmd.Printf("wrote %d rows to %s\n", rows, out)
			return nil
		},
	}
	def := testkit.DefaultSpec()
	cmd.Flags().StringVar(&out, "out", "synthetic_cohort.csv", "output CSV path")
	cmd.Flags().IntVar(&rows, "rows", def.Rows, "number of rows")
	cmd.Flags().Float64Var(&prevalence, "prevalence", def.Prevalence, "positive outcome rate")
	cmd.Flags().Int64Var(&seed, "seed", cfg.Evaluation.Seed, "generator seed")
	cmd.Flags().BoolVar(&separable, "separable", false, "make the outcome perfectly separable by age")
	return cmd
}

// loadCohort reads and preprocesses the cohort file
func loadCohort(path string) (*dataset.Cohort, error) {
	raw, err := tabular.NewCohortReader(path).Read()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read cohort file")
	}
	cohort, err := preprocess.NewEncoder().Encode(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, "preprocessing failed")
	}
	if err := cohort.ValidateSchema(); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeSchemaError, "cohort schema validation failed")
	}
	return cohort, nil
}

func printSummary(cmd *cobra.Command, s *report.Summary) {
	cmd.Printf("run %s (%d folds, threshold %.2f)\n", s.RunID, s.Folds, s.Threshold)
	cmd.Printf("  accuracy:    %.4f\n", s.MeanAccuracy)
	cmd.Printf("  sensitivity: %.4f\n", s.MeanSensitivity)
	cmd.Printf("  specificity: %.4f\n", s.MeanSpecificity)
	cmd.Printf("  precision:   %.4f\n", s.MeanPrecision)
	cmd.Printf("  f1:          %.4f\n", s.MeanF1)
	cmd.Printf("  fpr:         %.4f\n", s.MeanFPR)
	cmd.Printf("  auc:         %.4f\n", s.MeanAUC)
}
