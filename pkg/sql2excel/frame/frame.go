// Package frame provides a minimal ordered tabular container for query
// results. It carries column names and row-major values the way a result set
// comes back from the database, preserving insertion order throughout.
package frame

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrColumnNotFound indicates a named column does not exist in the frame.
var ErrColumnNotFound = errors.New("column not found")

// Frame holds tabular data as column names plus row-major values.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// New creates a frame from column names and rows.
func New(columns []string, rows [][]any) *Frame {
	return &Frame{Columns: columns, Rows: rows}
}

// Shape returns the number of rows and columns.
func (f *Frame) Shape() (rows, cols int) {
	return len(f.Rows), len(f.Columns)
}

// Col returns the values of the column at idx (0-based).
func (f *Frame) Col(idx int) []any {
	if idx < 0 || idx >= len(f.Columns) {
		return nil
	}
	values := make([]any, 0, len(f.Rows))
	for _, row := range f.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		}
	}
	return values
}

// ColIndex returns the 0-based index of the named column, or -1.
func (f *Frame) ColIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Unique returns the number of distinct values in the column at idx.
func (f *Frame) Unique(idx int) int {
	seen := make(map[string]struct{})
	for _, v := range f.Col(idx) {
		seen[fmt.Sprint(v)] = struct{}{}
	}
	return len(seen)
}

// IsConstant reports whether the column at idx holds a single repeated value.
// A constant column is what makes a series a reference (baseline) series.
func (f *Frame) IsConstant(idx int) bool {
	return len(f.Rows) > 0 && f.Unique(idx) == 1
}

// Numeric returns the column at idx converted to float64 values. Values that
// cannot be converted are skipped.
func (f *Frame) Numeric(idx int) []float64 {
	values := make([]float64, 0, len(f.Rows))
	for _, v := range f.Col(idx) {
		if n, ok := AsFloat(v); ok {
			values = append(values, n)
		}
	}
	return values
}

// AsFloat converts a cell value to float64 if it is numeric.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Pivot reshapes the frame from long to wide form. Values of the index column
// become rows, distinct values of the columns column become new columns, and
// the values column fills the grid. Row and column order follows first
// appearance. Missing cells are nil.
func (f *Frame) Pivot(index, columns, values string) (*Frame, error) {
	idxCol := f.ColIndex(index)
	if idxCol < 0 {
		return nil, fmt.Errorf("pivot index %q: %w", index, ErrColumnNotFound)
	}
	colCol := f.ColIndex(columns)
	if colCol < 0 {
		return nil, fmt.Errorf("pivot columns %q: %w", columns, ErrColumnNotFound)
	}
	valCol := f.ColIndex(values)
	if valCol < 0 {
		return nil, fmt.Errorf("pivot values %q: %w", values, ErrColumnNotFound)
	}

	// The string form is only the map key; the cell keeps the original value.
	var rowKeys []string
	rowVals := make(map[string]any)
	rowPos := make(map[string]int)
	var colKeys []string
	colPos := make(map[string]int)
	cells := make(map[string]map[string]any)

	for _, row := range f.Rows {
		rk := cellLabel(row[idxCol])
		ck := cellLabel(row[colCol])
		if _, ok := rowPos[rk]; !ok {
			rowPos[rk] = len(rowKeys)
			rowKeys = append(rowKeys, rk)
			rowVals[rk] = row[idxCol]
			cells[rk] = make(map[string]any)
		}
		if _, ok := colPos[ck]; !ok {
			colPos[ck] = len(colKeys)
			colKeys = append(colKeys, ck)
		}
		cells[rk][ck] = row[valCol]
	}

	out := &Frame{Columns: append([]string{index}, colKeys...)}
	for _, rk := range rowKeys {
		row := make([]any, len(colKeys)+1)
		row[0] = rowVals[rk]
		for _, ck := range colKeys {
			if v, ok := cells[rk][ck]; ok {
				row[colPos[ck]+1] = v
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func cellLabel(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}
