// Package preprocess turns the raw cohort table into the numeric-only form
// the regression consumes: one-hot encoded demographics, a fixed boolean
// cast list, and float64 everything else.
package preprocess

import (
	"fmt"
	"strconv"
	"strings"

	"atheroeval/adapters/tabular"
	"atheroeval/domain/dataset"
	apperrors "atheroeval/internal/errors"
)

// Categorical column levels expanded by one-hot encoding. The level set is
// fixed: every level column is created even when the level never occurs, so
// the regression formula sees a stable schema.
var (
	genderLevels   = []string{dataset.ColFemale, dataset.ColMale}
	ageGroupLevels = []string{dataset.ColNeonate, dataset.ColAdult, dataset.ColElder}

	droppedColumns = []string{dataset.ColGender, dataset.ColAgeGroup, dataset.ColAdmissionID}
)

// Encoder preprocesses raw cohort tables
type Encoder struct{}

// NewEncoder creates a preprocessor
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode one-hot encodes GENDER and agegroup, drops the original categorical
// columns and the admission identifier, casts the fixed boolean column list
// to 0/1, and parses every remaining column as float64. Any unparseable cell
// or absent expected column is a fatal error.
func (e *Encoder) Encode(raw *tabular.RawTable) (*dataset.Cohort, error) {
	if raw == nil || len(raw.Rows) == 0 {
		return nil, apperrors.InvalidInput("raw cohort table is empty")
	}

	n := len(raw.Rows)
	names := make([]string, 0, len(raw.Headers)+len(genderLevels)+len(ageGroupLevels))
	columns := make([][]float64, 0, cap(names))

	// One-hot columns first, in fixed level order.
	genderCols, err := e.oneHot(raw, dataset.ColGender, genderLevels)
	if err != nil {
		return nil, err
	}
	ageCols, err := e.oneHot(raw, dataset.ColAgeGroup, ageGroupLevels)
	if err != nil {
		return nil, err
	}
	names = append(names, genderLevels...)
	columns = append(columns, genderCols...)
	names = append(names, ageGroupLevels...)
	columns = append(columns, ageCols...)

	booleans := make(map[string]bool, len(dataset.BooleanColumns))
	for _, name := range dataset.BooleanColumns {
		booleans[name] = true
	}
	dropped := make(map[string]bool, len(droppedColumns))
	for _, name := range droppedColumns {
		dropped[name] = true
	}

	for _, header := range raw.Headers {
		if dropped[header] {
			continue
		}

		col := make([]float64, n)
		for i, row := range raw.Rows {
			cell := row[header]
			var v float64
			var err error
			if booleans[header] {
				v, err = parseBoolean(cell)
			} else {
				v, err = parseNumeric(cell)
			}
			if err != nil {
				return nil, apperrors.WrapCode(err, apperrors.CodeInvalidInput,
					fmt.Sprintf("column %q row %d", header, i+1))
			}
			col[i] = v
		}
		names = append(names, header)
		columns = append(columns, col)
	}

	return dataset.NewCohort(names, columns)
}

// oneHot expands a categorical column into 0/1 indicator columns, one per
// fixed level.
func (e *Encoder) oneHot(raw *tabular.RawTable, column string, levels []string) ([][]float64, error) {
	if !hasHeader(raw.Headers, column) {
		return nil, apperrors.SchemaError(fmt.Sprintf("categorical column %q not present in cohort file", column))
	}

	cols := make([][]float64, len(levels))
	for j := range cols {
		cols[j] = make([]float64, len(raw.Rows))
	}

	for i, row := range raw.Rows {
		value := strings.TrimSpace(row[column])
		matched := false
		for j, level := range levels {
			if strings.EqualFold(value, level) {
				cols[j][i] = 1
				matched = true
				break
			}
		}
		if !matched {
			return nil, apperrors.InvalidInput(fmt.Sprintf("column %q row %d: unknown level %q (expected one of %v)", column, i+1, value, levels))
		}
	}
	return cols, nil
}

// parseBoolean deterministically coerces a cell to 0 or 1
func parseBoolean(cell string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "true", "t", "yes", "y":
		return 1, nil
	case "0", "false", "f", "no", "n":
		return 0, nil
	}
	return 0, fmt.Errorf("cannot coerce %q to boolean", cell)
}

// parseNumeric coerces a cell to float64
func parseNumeric(cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as numeric", cell)
	}
	return v, nil
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
