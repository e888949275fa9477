package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DropDuplicates removes rows that are exact duplicates of an earlier row,
// keeping the first occurrence.
func (f *Frame) DropDuplicates() *Frame {
	g := f.Clone()
	seen := make(map[string]bool, len(f.rows))
	keepRows := g.rows[:0]
	keepIdx := g.index[:0]
	for r, row := range g.rows {
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		keepRows = append(keepRows, row)
		keepIdx = append(keepIdx, g.index[r])
	}
	g.rows = keepRows
	g.index = keepIdx
	return g
}

// rowKey builds a fingerprint for duplicate detection. A separator byte that
// cannot appear in formatted cells keeps "a","bc" distinct from "ab","c".
func rowKey(row []any) string {
	var sb strings.Builder
	for _, v := range row {
		if v == nil {
			sb.WriteString("\x00N")
		} else {
			sb.WriteString(FormatCell(v))
		}
		sb.WriteByte('\x1f')
	}
	return sb.String()
}

// Convert casts a column to the target kind. The conversion is all-or-nothing:
// if any cell cannot be represented in the target kind the frame is unchanged
// and the error names the first offending row.
func (f *Frame) Convert(name string, to Kind) (*Frame, error) {
	i, err := f.colIndex(name)
	if err != nil {
		return nil, err
	}
	converted := make([]any, len(f.rows))
	for r := range f.rows {
		v, err := convertCell(f.rows[r][i], to)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s row %s: %v", ErrConvertFailed, name, f.index[r], err)
		}
		converted[r] = v
	}
	g := f.Clone()
	g.cols[i].Kind = to
	for r := range g.rows {
		g.rows[r][i] = converted[r]
	}
	return g, nil
}

func convertCell(v any, to Kind) (any, error) {
	if v == nil {
		if to == KindInt {
			// Matches the engine's integer columns being non-nullable on cast.
			return nil, fmt.Errorf("null cell cannot become int")
		}
		return nil, nil
	}
	switch to {
	case KindString:
		return FormatCell(v), nil
	case KindInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case float64:
			return int64(x), nil // truncates, like astype(int)
		case bool:
			if x {
				return int64(1), nil
			}
			return int64(0), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", x)
			}
			return n, nil
		}
	case KindFloat:
		if fv, ok := asFloat(v); ok {
			return fv, nil
		}
		if s, ok := v.(string); ok {
			fv, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", s)
			}
			return fv, nil
		}
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case float64:
			return x != 0, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return nil, fmt.Errorf("%q is not a bool", x)
			}
			return b, nil
		}
	case KindTime:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			return ParseTime(x)
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, to)
}

// SortBy stably sorts rows by the named column. Nulls always sort last.
func (f *Frame) SortBy(name string, ascending bool) (*Frame, error) {
	i, err := f.colIndex(name)
	if err != nil {
		return nil, err
	}
	g := f.Clone()
	order := make([]int, len(g.rows))
	for r := range order {
		order[r] = r
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := g.rows[order[a]][i], g.rows[order[b]][i]
		if va == nil || vb == nil {
			// nulls-last independent of direction
			return vb == nil && va != nil
		}
		c := compareCells(va, vb)
		if ascending {
			return c < 0
		}
		return c > 0
	})
	rows := make([][]any, len(g.rows))
	idx := make([]string, len(g.index))
	for pos, r := range order {
		rows[pos] = g.rows[r]
		idx[pos] = g.index[r]
	}
	g.rows = rows
	g.index = idx
	return g, nil
}

// AggFunc names a group aggregation.
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggMean  AggFunc = "mean"
	AggCount AggFunc = "count"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// ParseAggFunc validates a user-supplied aggregate name.
func ParseAggFunc(s string) (AggFunc, error) {
	switch AggFunc(strings.ToLower(strings.TrimSpace(s))) {
	case AggSum:
		return AggSum, nil
	case AggMean:
		return AggMean, nil
	case AggCount:
		return AggCount, nil
	case AggMin:
		return AggMin, nil
	case AggMax:
		return AggMax, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAggregate, s)
	}
}

// GroupBy groups rows by the named column and applies fn to every other
// column that supports it: sum and mean use numeric columns only, count
// counts non-null cells in any column, min and max work on any comparable
// kind. Groups are emitted in sorted key order.
func (f *Frame) GroupBy(name string, fn AggFunc) (*Frame, error) {
	ki, err := f.colIndex(name)
	if err != nil {
		return nil, err
	}

	type group struct {
		key  any
		rows []int
	}
	groups := make(map[string]*group)
	var keys []string
	for r := range f.rows {
		k := FormatCell(f.rows[r][ki])
		g, ok := groups[k]
		if !ok {
			g = &group{key: f.rows[r][ki]}
			groups[k] = g
			keys = append(keys, k)
		}
		g.rows = append(g.rows, r)
	}
	sort.Slice(keys, func(a, b int) bool {
		return compareCells(groups[keys[a]].key, groups[keys[b]].key) < 0
	})

	// Pick output columns.
	var outCols []Column
	var srcIdx []int
	outCols = append(outCols, f.cols[ki])
	for i, c := range f.cols {
		if i == ki {
			continue
		}
		switch fn {
		case AggSum:
			if c.Kind.IsNumeric() {
				outCols = append(outCols, c)
				srcIdx = append(srcIdx, i)
			}
		case AggMean:
			if c.Kind.IsNumeric() {
				outCols = append(outCols, Column{Name: c.Name, Kind: KindFloat})
				srcIdx = append(srcIdx, i)
			}
		case AggCount:
			outCols = append(outCols, Column{Name: c.Name, Kind: KindInt})
			srcIdx = append(srcIdx, i)
		case AggMin, AggMax:
			outCols = append(outCols, c)
			srcIdx = append(srcIdx, i)
		}
	}

	out, err := New(outCols)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		g := groups[k]
		row := make([]any, 0, len(outCols))
		row = append(row, g.key)
		for n, i := range srcIdx {
			row = append(row, aggregate(f, g.rows, i, outCols[n+1].Kind, fn))
		}
		if err := out.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func aggregate(f *Frame, rows []int, col int, outKind Kind, fn AggFunc) any {
	switch fn {
	case AggCount:
		var n int64
		for _, r := range rows {
			if f.rows[r][col] != nil {
				n++
			}
		}
		return n
	case AggSum, AggMean:
		var sum float64
		var n int
		for _, r := range rows {
			if v, ok := asFloat(f.rows[r][col]); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return nil
		}
		if fn == AggMean {
			return sum / float64(n)
		}
		if outKind == KindInt {
			return int64(sum)
		}
		return sum
	case AggMin, AggMax:
		var best any
		for _, r := range rows {
			v := f.rows[r][col]
			if v == nil {
				continue
			}
			if best == nil {
				best = v
				continue
			}
			c := compareCells(v, best)
			if (fn == AggMin && c < 0) || (fn == AggMax && c > 0) {
				best = v
			}
		}
		return best
	}
	return nil
}

// DropNulls removes every row containing at least one null cell.
func (f *Frame) DropNulls() *Frame {
	g := f.Clone()
	rows := g.rows[:0]
	idx := g.index[:0]
outer:
	for r, row := range g.rows {
		for _, v := range row {
			if v == nil {
				continue outer
			}
		}
		rows = append(rows, row)
		idx = append(idx, g.index[r])
	}
	g.rows = rows
	g.index = idx
	return g
}

// FillNulls replaces null cells with the given text coerced to each column's
// kind. Columns where the text cannot be coerced are left untouched, the way
// a scalar fillna leaves incompatible columns alone.
func (f *Frame) FillNulls(text string) *Frame {
	g := f.Clone()
	fills := make([]any, len(g.cols))
	usable := make([]bool, len(g.cols))
	for i, c := range g.cols {
		if v, err := convertCell(text, c.Kind); err == nil {
			fills[i] = v
			usable[i] = true
		}
	}
	for r := range g.rows {
		for i := range g.cols {
			if g.rows[r][i] == nil && usable[i] {
				g.rows[r][i] = fills[i]
			}
		}
	}
	return g
}

// FilterContains keeps rows whose cell in the named column, stringified,
// contains the given substring.
func (f *Frame) FilterContains(name, substr string) (*Frame, error) {
	i, err := f.colIndex(name)
	if err != nil {
		return nil, err
	}
	g := f.Clone()
	rows := g.rows[:0]
	idx := g.index[:0]
	for r, row := range g.rows {
		if strings.Contains(FormatCell(row[i]), substr) {
			rows = append(rows, row)
			idx = append(idx, g.index[r])
		}
	}
	g.rows = rows
	g.index = idx
	return g, nil
}

// Concat appends frames row-wise. The output columns are the union of all
// input columns in first-seen order; missing cells become nulls. Columns
// sharing a name but not a kind widen to string. Labels are reset.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("concat requires at least one frame")
	}
	var cols []Column
	pos := make(map[string]int)
	for _, f := range frames {
		for _, c := range f.cols {
			if i, ok := pos[c.Name]; ok {
				if cols[i].Kind != c.Kind {
					cols[i].Kind = KindString
				}
				continue
			}
			pos[c.Name] = len(cols)
			cols = append(cols, c)
		}
	}
	out, err := New(cols)
	if err != nil {
		return nil, err
	}
	for _, f := range frames {
		for r := range f.rows {
			row := make([]any, len(cols))
			for i, c := range f.cols {
				v := f.rows[r][i]
				if v != nil && cols[pos[c.Name]].Kind == KindString {
					v = FormatCell(v)
				}
				row[pos[c.Name]] = v
			}
			if err := out.AppendRow(row...); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Merge inner-joins f with other on the named key column. Non-key columns
// sharing a name get _x (left) and _y (right) suffixes. Row order follows the
// left frame; ties expand in right-frame order.
func (f *Frame) Merge(other *Frame, on string) (*Frame, error) {
	li, err := f.colIndex(on)
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}
	ri, err := other.colIndex(on)
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}

	leftNames := make(map[string]bool)
	for _, c := range f.cols {
		leftNames[c.Name] = true
	}
	var cols []Column
	cols = append(cols, f.cols[li])
	for i, c := range f.cols {
		if i == li {
			continue
		}
		name := c.Name
		if other.HasColumn(name) && name != on {
			name += "_x"
		}
		cols = append(cols, Column{Name: name, Kind: c.Kind})
	}
	for i, c := range other.cols {
		if i == ri {
			continue
		}
		name := c.Name
		if leftNames[name] && name != on {
			name += "_y"
		}
		cols = append(cols, Column{Name: name, Kind: c.Kind})
	}

	out, err := New(cols)
	if err != nil {
		return nil, err
	}

	// Hash the right side by key for the probe phase.
	rightByKey := make(map[string][]int, len(other.rows))
	for r := range other.rows {
		k := FormatCell(other.rows[r][ri])
		rightByKey[k] = append(rightByKey[k], r)
	}
	for lr := range f.rows {
		key := f.rows[lr][li]
		for _, rr := range rightByKey[FormatCell(key)] {
			if !cellsEqual(key, other.rows[rr][ri]) {
				continue
			}
			row := make([]any, 0, len(cols))
			row = append(row, key)
			for i := range f.cols {
				if i != li {
					row = append(row, f.rows[lr][i])
				}
			}
			for i := range other.cols {
				if i != ri {
					row = append(row, other.rows[rr][i])
				}
			}
			if err := out.AppendRow(row...); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// labelLess orders row labels. Numeric labels compare numerically so
// positional indexes interleave correctly after a restore.
func labelLess(a, b string) bool {
	na, ea := strconv.ParseFloat(a, 64)
	nb, eb := strconv.ParseFloat(b, 64)
	if ea == nil && eb == nil {
		if na != nb {
			return na < nb
		}
		return a < b
	}
	if (ea == nil) != (eb == nil) {
		return ea == nil
	}
	return a < b
}
