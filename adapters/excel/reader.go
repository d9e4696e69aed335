// Package excel loads measurement columns from Excel and CSV files. The
// first row names the analytes; each later row carries one measurement per
// column. Blank and non-numeric cells count as missing and are skipped.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"reflim/internal/errors"
)

// DataReader handles reading Excel and CSV sample files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

// NewDataReader creates a reader that handles both Excel and CSV files.
// The sheet name only applies to Excel inputs.
func NewDataReader(filePath, sheet string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet}
}

// Read loads all analyte columns from the file.
func (r *DataReader) Read() (*ColumnSource, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.FileError(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readExcel()
	}
}

func (r *DataReader) readExcel() (*ColumnSource, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.FileError("failed to open Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.FileError(fmt.Sprintf("failed to read sheet %s", r.sheet), err)
	}
	return columnsFromRows(rows)
}

func (r *DataReader) readCSV() (*ColumnSource, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.FileError("failed to open CSV file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.FileError("failed to parse CSV file", err)
		}
		rows = append(rows, record)
	}
	return columnsFromRows(rows)
}

// columnsFromRows turns a header row plus data rows into named columns,
// dropping cells that do not parse as numbers.
func columnsFromRows(rows [][]string) (*ColumnSource, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("input file must have a header row and at least one data row")
	}

	header := rows[0]
	analytes := make([]string, 0, len(header))
	columns := make(map[string][]float64, len(header))

	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", col+1)
		}
		analytes = append(analytes, name)
		values := make([]float64, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		columns[name] = values
	}

	return &ColumnSource{analytes: analytes, columns: columns}, nil
}

// ColumnSource holds named measurement columns and implements
// app.SampleSource.
type ColumnSource struct {
	analytes []string
	columns  map[string][]float64
}

// Analytes returns the column names in file order.
func (s *ColumnSource) Analytes() []string {
	return s.analytes
}

// Sample returns the measurements of one analyte.
func (s *ColumnSource) Sample(analyte string) ([]float64, error) {
	values, ok := s.columns[analyte]
	if !ok {
		return nil, errors.Newf(errors.CodeInvalidInput, "unknown analyte %q", analyte)
	}
	return values, nil
}
