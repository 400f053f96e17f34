package tabular

// RawRow represents one row of raw cohort data as string key-value pairs
type RawRow map[string]string

// RawTable represents the complete raw cohort file before type coercion
type RawTable struct {
	Headers []string // Column headers
	Rows    []RawRow // Data rows
}
