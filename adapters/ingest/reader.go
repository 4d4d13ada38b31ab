// Package ingest loads CSV and Excel files into classified datasets.
// Column kinds are settled here, once, before the analysis pass begins.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"autostat/domain/dataset"
)

// Reader handles reading CSV and Excel files into a Dataset.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader, detecting the format from the extension.
func NewReader(filePath string) *Reader {
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm", ".xls":
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the file and returns a classified dataset.
func (r *Reader) Read() (*dataset.Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *Reader) readCSV() (*dataset.Dataset, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses CSV content from a stream into a classified dataset.
func ReadCSV(r io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return buildDataset(rows)
}

func (r *Reader) readExcel() (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return datasetFromWorkbook(f)
}

// ReadExcel parses workbook content from a stream into a classified dataset.
func ReadExcel(r io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel data: %w", err)
	}
	defer f.Close()
	return datasetFromWorkbook(f)
}

func datasetFromWorkbook(f *excelize.File) (*dataset.Dataset, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return buildDataset(rows)
}

// buildDataset classifies each column from the raw cell grid. Columns
// with no values at all are dropped, matching the loader's filter step.
func buildDataset(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have at least a header row and one data row")
	}

	header := rows[0]
	dataRows := rows[1:]

	columns := make([]dataset.Column, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		raw := make([]string, len(dataRows))
		empty := true
		for j, row := range dataRows {
			if i < len(row) {
				raw[j] = strings.TrimSpace(row[i])
			}
			if raw[j] != "" && !isMissingToken(raw[j]) {
				empty = false
			}
		}
		if empty {
			continue
		}
		columns = append(columns, classifyColumn(name, raw))
	}

	return dataset.New(columns)
}
