// Package sample reads event magnitudes from CSV files and writes derived
// columns back. It knows nothing about selection; it only moves numbers.
package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// missingValues are cell contents read as NaN.
var missingValues = map[string]bool{
	"": true, "na": true, "nan": true, "null": true,
}

// Table is a CSV file held in memory. The first row is the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// LoadTable reads a CSV file with a header row.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	t, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses CSV with a header row from r.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("CSV has a header but no rows")
	}
	return t, nil
}

// columnIndex returns the position of name in the header.
func (t *Table) columnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q not found; available: %s", name, strings.Join(t.Header, ", "))
}

// Column parses the named column as float64. Missing cells ("", NA, NaN,
// null) become NaN; anything else that does not parse is an error.
func (t *Table) Column(name string) ([]float64, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, fmt.Errorf("row %d has %d columns, %q is column %d", i+1, len(row), name, idx+1)
		}
		cell := strings.TrimSpace(row[idx])
		if missingValues[strings.ToLower(cell)] {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", i+1, name, err)
		}
		values[i] = v
	}
	return values, nil
}

// AppendColumn adds a column with one value per row.
func (t *Table) AppendColumn(name string, values []float64) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	if _, err := t.columnIndex(name); err == nil {
		return fmt.Errorf("column %q already exists", name)
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], strconv.FormatFloat(values[i], 'g', -1, 64))
	}
	return nil
}

// Write writes the table as CSV, header first.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to path.
func (t *Table) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.Write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
