package preprocess

import (
	"strings"
	"testing"

	"atheroeval/adapters/tabular"
	"atheroeval/domain/dataset"
	apperrors "atheroeval/internal/errors"
)

func sampleTable() *tabular.RawTable {
	return &tabular.RawTable{
		Headers: []string{
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
		},
		Rows: []tabular.RawRow{
			{
				dataset.ColAdmissionID: "100001", dataset.ColOutcome: "1",
				dataset.ColGender: "F", dataset.ColAgeGroup: "elder",
				dataset.ColFirstAdmitAge: "72.5",
				dataset.ColAbnlGlucose:   "1", dataset.ColAbnlCreatinine: "0",
				dataset.ColAbnlTroponin: "true", dataset.ColAbnlChol: "false",
				dataset.ColHypertension: "1", dataset.ColHyperchol: "0",
			},
			{
				dataset.ColAdmissionID: "100002", dataset.ColOutcome: "0",
				dataset.ColGender: "M", dataset.ColAgeGroup: "adult",
				dataset.ColFirstAdmitAge: "48.0",
				dataset.ColAbnlGlucose:   "0", dataset.ColAbnlCreatinine: "1",
				dataset.ColAbnlTroponin: "0", dataset.ColAbnlChol: "0",
				dataset.ColHypertension: "0", dataset.ColHyperchol: "1",
			},
			{
				dataset.ColAdmissionID: "100003", dataset.ColOutcome: "0",
				dataset.ColGender: "M", dataset.ColAgeGroup: "neonate",
				dataset.ColFirstAdmitAge: "0.2",
				dataset.ColAbnlGlucose:   "0", dataset.ColAbnlCreatinine: "0",
				dataset.ColAbnlTroponin: "0", dataset.ColAbnlChol: "0",
				dataset.ColHypertension: "0", dataset.ColHyperchol: "0",
			},
		},
	}
}

func TestEncode_OneHotAndCast(t *testing.T) {
	cohort, err := NewEncoder().Encode(sampleTable())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if cohort.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", cohort.NumRows())
	}

	wantColumn := func(name string, want []float64) {
		t.Helper()
		col, err := cohort.Column(name)
		if err != nil {
			t.Fatalf("column %q missing: %v", name, err)
		}
		for i := range want {
			if col[i] != want[i] {
				t.Errorf("column %q row %d: got %v, want %v", name, i, col[i], want[i])
			}
		}
	}

	wantColumn(dataset.ColFemale, []float64{1, 0, 0})
	wantColumn(dataset.ColMale, []float64{0, 1, 1})
	wantColumn(dataset.ColNeonate, []float64{0, 0, 1})
	wantColumn(dataset.ColAdult, []float64{0, 1, 0})
	wantColumn(dataset.ColElder, []float64{1, 0, 0})
	wantColumn(dataset.ColOutcome, []float64{1, 0, 0})
	wantColumn(dataset.ColAbnlTroponin, []float64{1, 0, 0}) // "true"/"0"/"0"
	wantColumn(dataset.ColFirstAdmitAge, []float64{72.5, 48.0, 0.2})
}

func TestEncode_DropsIdentifierAndCategoricals(t *testing.T) {
	cohort, err := NewEncoder().Encode(sampleTable())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	for _, name := range []string{dataset.ColAdmissionID, dataset.ColGender, dataset.ColAgeGroup} {
		if cohort.HasColumn(name) {
			t.Errorf("column %q should have been dropped", name)
		}
	}
	if err := cohort.ValidateSchema(); err != nil {
		t.Errorf("encoded cohort should satisfy the predictor schema: %v", err)
	}
}

func TestEncode_UnknownCategoricalLevel(t *testing.T) {
	table := sampleTable()
	table.Rows[1][dataset.ColGender] = "X"

	_, err := NewEncoder().Encode(table)
	if err == nil {
		t.Fatal("expected error for unknown gender level")
	}
	if !strings.Contains(err.Error(), "unknown level") {
		t.Errorf("error should name the unknown level, got: %v", err)
	}
}

func TestEncode_MissingCategoricalColumn(t *testing.T) {
	table := sampleTable()
	headers := make([]string, 0, len(table.Headers))
	for _, h := range table.Headers {
		if h != dataset.ColAgeGroup {
			headers = append(headers, h)
		}
	}
	table.Headers = headers
	for _, row := range table.Rows {
		delete(row, dataset.ColAgeGroup)
	}

	_, err := NewEncoder().Encode(table)
	if err == nil {
		t.Fatal("expected error for missing agegroup column")
	}
	if got := apperrors.GetCode(err); got != apperrors.CodeSchemaError {
		t.Errorf("expected %s, got %s", apperrors.CodeSchemaError, got)
	}
}

func TestEncode_BadBooleanCell(t *testing.T) {
	table := sampleTable()
	table.Rows[0][dataset.ColAbnlGlucose] = "maybe"

	_, err := NewEncoder().Encode(table)
	if err == nil {
		t.Fatal("expected error for unparseable boolean cell")
	}
	if !strings.Contains(err.Error(), dataset.ColAbnlGlucose) {
		t.Errorf("error should name the offending column, got: %v", err)
	}
	if got := apperrors.GetCode(err); got != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, got)
	}
}

func TestEncode_Empty(t *testing.T) {
	if _, err := NewEncoder().Encode(&tabular.RawTable{}); err == nil {
		t.Fatal("expected error for empty table")
	}
}
