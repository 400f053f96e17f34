// Package testkit generates schema-conforming synthetic cohorts for tests
// and for the synth CLI command.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"atheroeval/adapters/tabular"
	"atheroeval/domain/dataset"
)

// CohortSpec describes a synthetic cohort to generate.
type CohortSpec struct {
	Rows       int
	Prevalence float64 // fraction of positive outcomes, applied exactly
	Seed       int64
	// Separable makes firstadmitage perfectly separate the outcome classes
	// (positives at 65+, negatives below 55), for end-to-end checks that
	// expect near-perfect accuracy and AUC.
	Separable bool
}

// DefaultSpec returns a realistic mid-sized cohort spec
func DefaultSpec() CohortSpec {
	return CohortSpec{
		Rows:       500,
		Prevalence: 0.3,
		Seed:       2561,
	}
}

var headers = []string{
	dataset.ColAdmissionID,
	dataset.ColOutcome,
	dataset.ColGender,
	dataset.ColAgeGroup,
	dataset.ColFirstAdmitAge,
	dataset.ColAbnlGlucose,
	dataset.ColAbnlCreatinine,
	dataset.ColAbnlTroponin,
	dataset.ColAbnlChol,
	dataset.ColHypertension,
	dataset.ColHyperchol,
}

// GenerateCohort builds a raw cohort table from the spec. The positive count
// is exact (round(rows*prevalence)) with positions shuffled by the seed, so
// a fixed seed reproduces the identical table.
func GenerateCohort(spec CohortSpec) (*tabular.RawTable, error) {
	if spec.Rows < 20 {
		return nil, fmt.Errorf("synthetic cohort needs at least 20 rows, got %d", spec.Rows)
	}
	if spec.Prevalence <= 0 || spec.Prevalence >= 1 {
		return nil, fmt.Errorf("prevalence must be in (0, 1), got %v", spec.Prevalence)
	}

	rng := rand.New(rand.NewSource(spec.Seed))

	// Exact positive count, shuffled positions.
	positives := int(float64(spec.Rows)*spec.Prevalence + 0.5)
	outcomes := make([]int, spec.Rows)
	for i := 0; i < positives; i++ {
		outcomes[i] = 1
	}
	rng.Shuffle(spec.Rows, func(i, j int) {
		outcomes[i], outcomes[j] = outcomes[j], outcomes[i]
	})

	rows := make([]tabular.RawRow, spec.Rows)
	for i := 0; i < spec.Rows; i++ {
		positive := outcomes[i] == 1

		// A small share of negatives are neonates so all three age-group
		// levels occur and the adult/elder indicators stay non-degenerate.
		neonate := !positive && rng.Float64() < 0.03

		var age float64
		switch {
		case neonate:
			age = rng.Float64() * 0.9
		case spec.Separable && positive:
			age = 65 + rng.Float64()*20
		case spec.Separable:
			age = 35 + rng.Float64()*20
		case positive:
			age = 68 + rng.NormFloat64()*8
			if age < 18 {
				age = 18
			}
		default:
			age = 55 + rng.NormFloat64()*10
			if age < 18 {
				age = 18
			}
		}

		gender := "F"
		if rng.Float64() < 0.5 {
			gender = "M"
		}
		ageGroup := "adult"
		if neonate {
			ageGroup = "neonate"
		} else if age >= 65 {
			ageGroup = "elder"
		}

		row := tabular.RawRow{
			dataset.ColAdmissionID:   strconv.Itoa(100000 + i),
			dataset.ColOutcome:       strconv.Itoa(outcomes[i]),
			dataset.ColGender:        gender,
			dataset.ColAgeGroup:      ageGroup,
			dataset.ColFirstAdmitAge: strconv.FormatFloat(age, 'f', 1, 64),
		}
		for _, flag := range []string{
			dataset.ColAbnlGlucose,
			dataset.ColAbnlCreatinine,
			dataset.ColAbnlTroponin,
			dataset.ColAbnlChol,
			dataset.ColHypertension,
			dataset.ColHyperchol,
		} {
			row[flag] = flagValue(rng, positive)
		}
		rows[i] = row
	}

	return &tabular.RawTable{Headers: headers, Rows: rows}, nil
}

// flagValue draws a comorbidity/lab flag weighted by outcome class
func flagValue(rng *rand.Rand, positive bool) string {
	p := 0.2
	if positive {
		p = 0.6
	}
	if rng.Float64() < p {
		return "1"
	}
	return "0"
}

// WriteCSV writes a raw cohort table as CSV in header order
func WriteCSV(table *tabular.RawTable, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(table.Headers); err != nil {
		return err
	}
	record := make([]string, len(table.Headers))
	for _, row := range table.Rows {
		for i, h := range table.Headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
