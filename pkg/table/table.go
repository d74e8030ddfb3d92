// Package table reads and writes the delimited flat files passed between pipeline stages.
// A table keeps every column it was read with, so a stage can append its own columns
// and write the result without knowing what upstream stages produced.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Table is an in-memory delimited file with a header row
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// New makes an empty table with the given columns
func New(columns ...string) *Table {
	t := &Table{index: map[string]int{}}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

// Read loads a table from a CSV file
func Read(path string) (*Table, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	t, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Decode reads a table from CSV data
func Decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := New(header...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.rows)+1, err)
		}
		row := make([]string, len(t.header))
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Write saves the table to path, replacing any existing file
func (t *Table) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("make dir for %s: %w", path, err)
		}
	}
	tmp := path + ".tmp"
	fh, err := os.Create(tmp) //nolint:gosec // path comes from config
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := t.Encode(fh); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// Encode writes the table as CSV
func (t *Table) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Columns returns the column names in file order
func (t *Table) Columns() []string {
	res := make([]string, len(t.header))
	copy(res, t.header)
	return res
}

// Has reports whether the table has the named column
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

// Column returns a copy of the named column's values
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	res := make([]string, len(t.rows))
	for i, row := range t.rows {
		res[i] = row[idx]
	}
	return res, nil
}

// Value returns the cell at row i of the named column, empty if the column is absent
func (t *Table) Value(i int, name string) string {
	idx, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return ""
	}
	return t.rows[i][idx]
}

// SetColumn replaces the named column or appends it as the last column.
// The number of values must match the number of rows.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}
	idx, ok := t.index[name]
	if !ok {
		idx = t.addColumn(name)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "")
		}
	}
	for i, v := range values {
		t.rows[i][idx] = v
	}
	return nil
}

// Append adds a row given as column-name to value, missing columns stay empty
func (t *Table) Append(rec map[string]string) {
	row := make([]string, len(t.header))
	for name, v := range rec {
		if idx, ok := t.index[name]; ok {
			row[idx] = v
		}
	}
	t.rows = append(t.rows, row)
}

// Require returns an error naming the first missing column
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return fmt.Errorf("column %q not found", c)
		}
	}
	return nil
}

func (t *Table) addColumn(name string) int {
	t.index[name] = len(t.header)
	t.header = append(t.header, name)
	return len(t.header) - 1
}
