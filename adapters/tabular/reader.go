// Package tabular reads the cohort file into a raw string table. CSV is the
// reference input format; XLSX exports of the same schema are accepted as
// well, dispatched on file extension.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"atheroeval/internal"
	apperrors "atheroeval/internal/errors"

	"github.com/xuri/excelize/v2"
)

// CohortReader handles reading cohort CSV and XLSX files
type CohortReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
	logger   *internal.Logger
}

// NewCohortReader creates a reader for the given file, detecting the format
// from its extension. Anything that is not .xlsx is treated as CSV.
func NewCohortReader(filePath string) *CohortReader {
	fileType := "csv"
	if strings.ToLower(filepath.Ext(filePath)) == ".xlsx" {
		fileType = "xlsx"
	}
	return &CohortReader{
		filePath: filePath,
		fileType: fileType,
		logger:   internal.DefaultLogger,
	}
}

// Read loads the cohort file into a raw table
func (r *CohortReader) Read() (*RawTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, apperrors.IOError(fmt.Sprintf("cohort file not found: %s", r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readXLSX()
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

func (r *CohortReader) readCSV() (*RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeIOError, "failed to open CSV file")
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeIOError, "failed to read CSV file")
	}
	if len(rows) < 2 {
		return nil, apperrors.InvalidInput("cohort file must have a header row and at least one data row")
	}

	return r.processRows(rows)
}

func (r *CohortReader) readXLSX() (*RawTable, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeIOError, "failed to open XLSX file")
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeIOError, "failed to read Sheet1")
	}
	if len(rows) < 2 {
		return nil, apperrors.InvalidInput("cohort file must have a header row and at least one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into the RawTable format
func (r *CohortReader) processRows(rows [][]string) (*RawTable, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRow, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Info("[CohortReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &RawTable{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
