package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DataReader reads delimited text or Excel workbooks into header + rows records
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader choosing the format from the file extension.
// Anything that is not .xlsx is treated as CSV.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// FileType reports the detected format
func (r *DataReader) FileType() string {
	return r.fileType
}

// ReadRecords returns the raw records, header row first. Every row is padded or
// truncated to the header width. An empty file yields no records at all.
func (r *DataReader) ReadRecords() ([][]string, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	readStart := time.Now()
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] %s file read in %.2fms (%d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return normalizeRows(rows), nil
}

// readExcelRows reads the first sheet of the workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses comma separated text with ragged rows allowed
func ReadCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// normalizeRows trims the header, drops a leading BOM and squares up ragged rows
func normalizeRows(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	out := make([][]string, 0, len(rows))
	out = append(out, header)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		squared := make([]string, len(header))
		copy(squared, row)
		out = append(out, squared)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
