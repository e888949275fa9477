// Package frame implements the in-memory dataset engine: an immutable
// rows-by-named-columns table with the cleaning, reshaping, and combining
// operations the workbench exposes. Every operation returns a new Frame;
// the receiver is never mutated, which keeps session snapshots cheap to
// reason about.
package frame

import (
	"fmt"
	"strconv"
)

// Column describes one named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Frame is an ordered collection of equally sized columns plus row labels.
// The zero value is not usable; construct with New.
type Frame struct {
	cols     []Column
	rows     [][]any // row-major cells, len(rows[i]) == len(cols)
	index    []string
	indexCol string // column serving as index, "" means positional labels
}

// New creates an empty frame with the given columns. Column names must be
// unique and non-empty.
func New(cols []Column) (*Frame, error) {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column name must not be empty")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: %s", ErrColumnExists, c.Name)
		}
		seen[c.Name] = true
	}
	return &Frame{cols: append([]Column(nil), cols...)}, nil
}

// Restore reconstructs a frame from previously captured parts. The store
// codec uses it to round-trip snapshots, so labels and the index column come
// back exactly as saved.
func Restore(cols []Column, rows [][]any, index []string, indexCol string) (*Frame, error) {
	f, err := New(cols)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(index) {
		return nil, fmt.Errorf("%d rows but %d labels", len(rows), len(index))
	}
	if indexCol != "" && !f.HasColumn(indexCol) {
		return nil, fmt.Errorf("%w: index column %s", ErrColumnNotFound, indexCol)
	}
	for _, row := range rows {
		if err := f.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	f.index = append([]string(nil), index...)
	f.indexCol = indexCol
	return f, nil
}

// MustNew is New for tests and literals with known-good columns.
func MustNew(cols []Column) *Frame {
	f, err := New(cols)
	if err != nil {
		panic(err)
	}
	return f
}

// AppendRow adds a row, validating cell kinds. The label is the current row
// count, matching the positional index assigned at load time.
func (f *Frame) AppendRow(cells ...any) error {
	if len(cells) != len(f.cols) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrRaggedRow, len(cells), len(f.cols))
	}
	for i, v := range cells {
		if err := checkCell(f.cols[i].Kind, v); err != nil {
			return fmt.Errorf("column %s: %w", f.cols[i].Name, err)
		}
	}
	f.rows = append(f.rows, append([]any(nil), cells...))
	f.index = append(f.index, strconv.Itoa(len(f.index)))
	return nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return len(f.rows) }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Columns returns a copy of the column descriptors.
func (f *Frame) Columns() []Column {
	return append([]Column(nil), f.cols...)
}

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// colIndex locates a column by name.
func (f *Frame) colIndex(name string) (int, error) {
	for i, c := range f.cols {
		if c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, err := f.colIndex(name)
	return err == nil
}

// ColumnKind returns the kind of the named column.
func (f *Frame) ColumnKind(name string) (Kind, error) {
	i, err := f.colIndex(name)
	if err != nil {
		return KindString, err
	}
	return f.cols[i].Kind, nil
}

// Cell returns the cell at row r, column c.
func (f *Frame) Cell(r, c int) any { return f.rows[r][c] }

// Row returns a copy of row r's cells.
func (f *Frame) Row(r int) []any {
	return append([]any(nil), f.rows[r]...)
}

// Labels returns a copy of the row labels.
func (f *Frame) Labels() []string {
	return append([]string(nil), f.index...)
}

// Label returns the label of row r.
func (f *Frame) Label(r int) string { return f.index[r] }

// IndexColumn returns the column currently serving as the index, or "".
func (f *Frame) IndexColumn() string { return f.indexCol }

// ColumnCells returns a copy of the named column's cells.
func (f *Frame) ColumnCells(name string) ([]any, error) {
	i, err := f.colIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(f.rows))
	for r := range f.rows {
		out[r] = f.rows[r][i]
	}
	return out, nil
}

// NumericColumn extracts the named column as float64 values with a validity
// mask (false = null). Bool columns count as 0/1; other kinds are rejected.
func (f *Frame) NumericColumn(name string) ([]float64, []bool, error) {
	i, err := f.colIndex(name)
	if err != nil {
		return nil, nil, err
	}
	k := f.cols[i].Kind
	if !k.IsNumeric() && k != KindBool {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrNotNumeric, name, k)
	}
	vals := make([]float64, len(f.rows))
	ok := make([]bool, len(f.rows))
	for r := range f.rows {
		if v, valid := asFloat(f.rows[r][i]); valid {
			vals[r] = v
			ok[r] = true
		}
	}
	return vals, ok, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	g := &Frame{
		cols:     append([]Column(nil), f.cols...),
		rows:     make([][]any, len(f.rows)),
		index:    append([]string(nil), f.index...),
		indexCol: f.indexCol,
	}
	for r := range f.rows {
		g.rows[r] = append([]any(nil), f.rows[r]...)
	}
	return g
}

// Head returns the first n rows (all rows when n exceeds the row count).
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	g := f.Clone()
	g.rows = g.rows[:n]
	g.index = g.index[:n]
	return g
}

// AddColumn appends a new column with the given cells, one per row.
func (f *Frame) AddColumn(col Column, cells []any) (*Frame, error) {
	if f.HasColumn(col.Name) {
		return nil, fmt.Errorf("%w: %s", ErrColumnExists, col.Name)
	}
	if len(cells) != len(f.rows) {
		return nil, fmt.Errorf("%w: %d cells for %d rows", ErrRaggedRow, len(cells), len(f.rows))
	}
	for r, v := range cells {
		if err := checkCell(col.Kind, v); err != nil {
			return nil, fmt.Errorf("row %s: %w", f.index[r], err)
		}
	}
	g := f.Clone()
	g.cols = append(g.cols, col)
	for r := range g.rows {
		g.rows[r] = append(g.rows[r], cells[r])
	}
	return g, nil
}

// RenameColumn renames a column, rejecting collisions with existing names.
func (f *Frame) RenameColumn(old, new string) (*Frame, error) {
	i, err := f.colIndex(old)
	if err != nil {
		return nil, err
	}
	if new == "" {
		return nil, fmt.Errorf("new column name must not be empty")
	}
	if new != old && f.HasColumn(new) {
		return nil, fmt.Errorf("%w: %s", ErrColumnExists, new)
	}
	g := f.Clone()
	g.cols[i].Name = new
	if g.indexCol == old {
		g.indexCol = new
	}
	return g, nil
}

// SetIndex marks a column as the row index. Row labels become the column's
// stringified cells; subsequent row drop/restore operations address rows by
// those labels.
func (f *Frame) SetIndex(name string) (*Frame, error) {
	i, err := f.colIndex(name)
	if err != nil {
		return nil, err
	}
	g := f.Clone()
	g.indexCol = name
	for r := range g.rows {
		g.index[r] = FormatCell(g.rows[r][i])
	}
	return g, nil
}

// ResetIndex restores positional 0..n-1 labels.
func (f *Frame) ResetIndex() *Frame {
	g := f.Clone()
	g.indexCol = ""
	for r := range g.index {
		g.index[r] = strconv.Itoa(r)
	}
	return g
}
