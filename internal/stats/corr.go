package stats

import (
	"fmt"
	"math"

	"tabwork/internal/frame"
	"tabwork/internal/logging"
)

// CorrMatrix is a symmetric Pearson correlation matrix over the numeric
// columns of a frame. Values[i][j] correlates Columns[i] with Columns[j];
// pairs with fewer than two complete observations are NaN.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// Correlation computes the pairwise-complete Pearson correlation matrix.
// Frames with no numeric columns are an error since the heatmap would be
// empty.
func Correlation(f *frame.Frame) (*CorrMatrix, error) {
	timer := logging.StartTimer(logging.CategoryStats, "Correlation")
	defer timer.Stop()

	type colvec struct {
		vals []float64
		ok   []bool
	}
	var names []string
	var vecs []colvec
	for _, col := range f.Columns() {
		if !col.Kind.IsNumeric() {
			continue
		}
		vals, ok, err := f.NumericColumn(col.Name)
		if err != nil {
			return nil, err
		}
		names = append(names, col.Name)
		vecs = append(vecs, colvec{vals: vals, ok: ok})
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no numeric columns to correlate")
	}

	m := &CorrMatrix{Columns: names, Values: make([][]float64, len(names))}
	for i := range names {
		m.Values[i] = make([]float64, len(names))
	}
	for i := range names {
		m.Values[i][i] = 1
		for j := i + 1; j < len(names); j++ {
			r := pearson(vecs[i].vals, vecs[i].ok, vecs[j].vals, vecs[j].ok)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

// pearson correlates two columns over rows where both cells are present.
func pearson(xs []float64, xok []bool, ys []float64, yok []bool) float64 {
	var x, y []float64
	for i := range xs {
		if xok[i] && yok[i] {
			x = append(x, xs[i])
			y = append(y, ys[i])
		}
	}
	n := len(x)
	if n < 2 {
		return math.NaN()
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN() // constant column
	}
	return sxy / math.Sqrt(sxx*syy)
}
