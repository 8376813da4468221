package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Writer emits rows in the same format Read accepts.
type Writer struct {
	w       *bufio.Writer
	columns int
}

// NewWriter writes the header row and returns a Writer for the data rows.
func NewWriter(w io.Writer, columns []string) (*Writer, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrMalformed)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(columns, "\t") + "\n"); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &Writer{w: bw, columns: len(columns)}, nil
}

// WriteRow writes one row. The number of values must match the header.
func (w *Writer) WriteRow(values ...float64) error {
	if len(values) != w.columns {
		return fmt.Errorf("%w: row has %d values, header has %d",
			ErrMalformed, len(values), w.columns)
	}

	for i, v := range values {
		if i > 0 {
			if err := w.w.WriteByte('\t'); err != nil {
				return err
			}
		}

		if _, err := w.w.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
			return err
		}
	}

	return w.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
