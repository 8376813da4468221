// Package dataset loads and writes the tab-separated result tables emitted
// by R-tree benchmark programs.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

var (
	// ErrMissingColumn is returned when a table lacks a requested column.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformed is returned for tables that cannot be parsed.
	ErrMalformed = errors.New("malformed table")
)

// Table is a column-oriented set of numeric benchmark rows.
type Table struct {
	columns []string
	values  map[string][]float64
	rows    int
}

// Read parses a TSV table with a header row.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header row", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	t := &Table{
		columns: make([]string, len(header)),
		values:  make(map[string][]float64, len(header)),
	}

	for i, name := range header {
		if _, dup := t.values[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformed, name)
		}

		t.columns[i] = name
		t.values[name] = nil
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		line, _ := cr.FieldPos(0)

		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %q",
					ErrMalformed, line, t.columns[i], field)
			}

			t.values[t.columns[i]] = append(t.values[t.columns[i]], v)
		}

		t.rows++
	}

	return t, nil
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return t.rows
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.values[name]

	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	v, ok := t.values[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
	}

	return append([]float64(nil), v...), nil
}

// Max returns the largest value in the named column, or 0 for an empty
// table.
func (t *Table) Max(name string) (float64, error) {
	v, ok := t.values[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrMissingColumn, name)
	}

	var m float64
	for i, x := range v {
		if i == 0 || x > m {
			m = x
		}
	}

	return m, nil
}

// Row returns the values of row i keyed by column name.
func (t *Table) Row(i int) map[string]float64 {
	row := make(map[string]float64, len(t.columns))
	for _, name := range t.columns {
		row[name] = t.values[name][i]
	}

	return row
}

// Source is a loaded, labeled result table.
type Source struct {
	Path  string
	Label string
	Table *Table
}

// Load reads the table at path.
func Load(path, label string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Source{Path: path, Label: label, Table: t}, nil
}

// Usable reports whether path exists and is non-empty.
func Usable(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
