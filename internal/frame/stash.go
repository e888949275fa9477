package frame

import (
	"fmt"
	"sort"
)

// DroppedColumn preserves a dropped column so it can be restored later at its
// original position with its original values, keyed by row label.
type DroppedColumn struct {
	Col   Column         `json:"col"`
	Pos   int            `json:"pos"`
	Cells map[string]any `json:"cells"` // row label -> cell
}

// DroppedRow preserves a dropped row for later restore.
type DroppedRow struct {
	Label string   `json:"label"`
	Cells []any    `json:"cells"` // aligned with the column order at drop time
	Names []string `json:"names"`
}

// DropColumns removes the named columns, returning the reduced frame and the
// stash entries needed to restore them. Unknown names fail the whole call.
func (f *Frame) DropColumns(names []string) (*Frame, []DroppedColumn, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !f.HasColumn(n) {
			return nil, nil, fmt.Errorf("%w: %s", ErrColumnNotFound, n)
		}
		drop[n] = true
	}
	if drop[f.indexCol] {
		return nil, nil, fmt.Errorf("cannot drop index column %s; reset the index first", f.indexCol)
	}

	var stash []DroppedColumn
	g := &Frame{index: append([]string(nil), f.index...), indexCol: f.indexCol}
	keep := make([]int, 0, len(f.cols))
	for i, c := range f.cols {
		if drop[c.Name] {
			cells := make(map[string]any, len(f.rows))
			for r := range f.rows {
				cells[f.index[r]] = f.rows[r][i]
			}
			stash = append(stash, DroppedColumn{Col: c, Pos: i, Cells: cells})
			continue
		}
		g.cols = append(g.cols, c)
		keep = append(keep, i)
	}
	g.rows = make([][]any, len(f.rows))
	for r := range f.rows {
		row := make([]any, len(keep))
		for n, i := range keep {
			row[n] = f.rows[r][i]
		}
		g.rows[r] = row
	}
	return g, stash, nil
}

// RestoreColumns reinserts stashed columns. Each column returns to its
// original position (clamped to the current width); cells are matched by row
// label, so rows dropped in the meantime simply lose those cells and rows the
// stash never saw get nulls. Restored entries are removed from the returned
// remainder.
func (f *Frame) RestoreColumns(stash []DroppedColumn, names []string) (*Frame, []DroppedColumn, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	g := f.Clone()
	var remainder []DroppedColumn
	restored := 0
	for _, dc := range stash {
		if !want[dc.Col.Name] {
			remainder = append(remainder, dc)
			continue
		}
		if g.HasColumn(dc.Col.Name) {
			return nil, nil, fmt.Errorf("%w: %s", ErrColumnExists, dc.Col.Name)
		}
		pos := dc.Pos
		if pos > len(g.cols) {
			pos = len(g.cols)
		}
		g.cols = append(g.cols[:pos], append([]Column{dc.Col}, g.cols[pos:]...)...)
		for r := range g.rows {
			v := dc.Cells[g.index[r]]
			g.rows[r] = append(g.rows[r][:pos], append([]any{v}, g.rows[r][pos:]...)...)
		}
		restored++
	}
	if restored != len(want) {
		for n := range want {
			found := false
			for _, dc := range stash {
				if dc.Col.Name == n {
					found = true
					break
				}
			}
			if !found {
				return nil, nil, fmt.Errorf("%w: column %s", ErrNothingToStash, n)
			}
		}
	}
	return g, remainder, nil
}

// DropRows removes rows by label, returning the stash entries for restore.
func (f *Frame) DropRows(labels []string) (*Frame, []DroppedRow, error) {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	byLabel := make(map[string]bool, len(f.index))
	for _, l := range f.index {
		byLabel[l] = true
	}
	for _, l := range labels {
		if !byLabel[l] {
			return nil, nil, fmt.Errorf("%w: %s", ErrRowNotFound, l)
		}
	}

	names := f.ColumnNames()
	g := f.Clone()
	rows := g.rows[:0]
	idx := g.index[:0]
	var stash []DroppedRow
	for r, row := range g.rows {
		if want[g.index[r]] {
			stash = append(stash, DroppedRow{Label: g.index[r], Cells: append([]any(nil), row...), Names: names})
			continue
		}
		rows = append(rows, row)
		idx = append(idx, g.index[r])
	}
	g.rows = rows
	g.index = idx
	return g, stash, nil
}

// RestoreRows reinserts stashed rows and re-sorts the frame by label so the
// restored rows land back in index order. Cells are matched to the current
// columns by name; columns added since the drop get nulls.
func (f *Frame) RestoreRows(stash []DroppedRow, labels []string) (*Frame, []DroppedRow, error) {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	g := f.Clone()
	var remainder []DroppedRow
	found := make(map[string]bool)
	for _, dr := range stash {
		if !want[dr.Label] {
			remainder = append(remainder, dr)
			continue
		}
		found[dr.Label] = true
		byName := make(map[string]any, len(dr.Names))
		for i, n := range dr.Names {
			if i < len(dr.Cells) {
				byName[n] = dr.Cells[i]
			}
		}
		row := make([]any, len(g.cols))
		for i, c := range g.cols {
			row[i] = byName[c.Name]
		}
		g.rows = append(g.rows, row)
		g.index = append(g.index, dr.Label)
	}
	for _, l := range labels {
		if !found[l] {
			return nil, nil, fmt.Errorf("%w: row %s", ErrNothingToStash, l)
		}
	}

	// Re-sort by label, numeric-aware, mirroring sort_index after restore.
	order := make([]int, len(g.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return labelLess(g.index[order[a]], g.index[order[b]])
	})
	rows := make([][]any, len(g.rows))
	idx := make([]string, len(g.index))
	for pos, r := range order {
		rows[pos] = g.rows[r]
		idx[pos] = g.index[r]
	}
	g.rows = rows
	g.index = idx
	return g, remainder, nil
}
