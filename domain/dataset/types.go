package dataset

import (
	"fmt"
)

// Fixed column names of the atherosclerosis cohort schema.
const (
	ColOutcome        = "Atherosclerosis41401"
	ColAdmissionID    = "hadmid"
	ColGender         = "GENDER"
	ColAgeGroup       = "agegroup"
	ColFirstAdmitAge  = "firstadmitage"
	ColFemale         = "F"
	ColMale           = "M"
	ColNeonate        = "neonate"
	ColAdult          = "adult"
	ColElder          = "elder"
	ColAbnlGlucose    = "abnormalglucose"
	ColAbnlCreatinine = "abnormalcreatinine"
	ColAbnlTroponin   = "abnormaltroponin"
	ColAbnlChol       = "abnormalcholesterol"
	ColHypertension   = "Hypertension4019"
	ColHyperchol      = "Hypercholesterolemia2720"
)

// PredictorColumns is the fixed covariate set of the regression formula.
// Gender and age group are reference-coded (M and neonate omitted) so the
// design matrix stays full rank next to the intercept. The fit step depends
// on these exact names; MatrixFor validates them up front so a schema
// mismatch fails at the pipeline boundary instead of inside the solver.
var PredictorColumns = []string{
	ColFirstAdmitAge,
	ColFemale,
	ColAdult,
	ColElder,
	ColAbnlGlucose,
	ColAbnlCreatinine,
	ColAbnlTroponin,
	ColAbnlChol,
	ColHypertension,
	ColHyperchol,
}

// BooleanColumns is the fixed list of columns cast to 0/1 during
// preprocessing.
var BooleanColumns = []string{
	ColOutcome,
	ColFemale,
	ColMale,
	ColNeonate,
	ColAdult,
	ColElder,
	ColAbnlGlucose,
	ColAbnlCreatinine,
	ColAbnlTroponin,
	ColAbnlChol,
}

// Cohort is the preprocessed, numeric-only cohort table. Columns are stored
// column-major; every column has exactly NumRows values.
type Cohort struct {
	columns []string
	index   map[string]int
	data    [][]float64
	rows    int
}

// NewCohort builds a cohort table from named columns. All columns must have
// equal length.
func NewCohort(columns []string, data [][]float64) (*Cohort, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("column name/data mismatch: %d names, %d columns", len(columns), len(data))
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("cohort must have at least one column")
	}

	rows := len(data[0])
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if len(data[i]) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", name, len(data[i]), rows)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	return &Cohort{
		columns: columns,
		index:   index,
		data:    data,
		rows:    rows,
	}, nil
}

// NumRows returns the number of rows in the cohort
func (c *Cohort) NumRows() int {
	return c.rows
}

// Columns returns the column names in order
func (c *Cohort) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// HasColumn reports whether the named column exists
func (c *Cohort) HasColumn(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Column returns the values of the named column
func (c *Cohort) Column(name string) ([]float64, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not present in cohort", name)
	}
	return c.data[i], nil
}

// Outcome returns the binary outcome vector
func (c *Cohort) Outcome() ([]float64, error) {
	return c.Column(ColOutcome)
}

// ValidateSchema checks that the outcome and every fixed predictor column
// are present, returning a descriptive error naming the first missing column.
func (c *Cohort) ValidateSchema() error {
	if !c.HasColumn(ColOutcome) {
		return fmt.Errorf("cohort is missing outcome column %q", ColOutcome)
	}
	for _, name := range PredictorColumns {
		if !c.HasColumn(name) {
			return fmt.Errorf("cohort is missing predictor column %q required by the regression formula", name)
		}
	}
	return nil
}

// MatrixFor assembles the design matrix rows for the given row indices,
// ordered as PredictorColumns. The returned slice is row-major with
// len(PredictorColumns) values per row. The paired outcome values are
// returned alongside.
func (c *Cohort) MatrixFor(rowIdx []int) (x []float64, y []float64, err error) {
	if err := c.ValidateSchema(); err != nil {
		return nil, nil, err
	}

	p := len(PredictorColumns)
	cols := make([][]float64, p)
	for j, name := range PredictorColumns {
		cols[j] = c.data[c.index[name]]
	}
	outcome := c.data[c.index[ColOutcome]]

	x = make([]float64, 0, len(rowIdx)*p)
	y = make([]float64, 0, len(rowIdx))
	for _, i := range rowIdx {
		if i < 0 || i >= c.rows {
			return nil, nil, fmt.Errorf("row index %d out of range [0, %d)", i, c.rows)
		}
		for j := 0; j < p; j++ {
			x = append(x, cols[j][i])
		}
		y = append(y, outcome[i])
	}
	return x, y, nil
}
