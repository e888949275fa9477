// Package stats computes descriptive statistics over frames: the describe
// summary (count/mean/std/min/percentiles/max for numeric columns,
// count/unique/top/freq for the rest) and the Pearson correlation matrix
// behind the heatmap chart.
package stats

import (
	"fmt"
	"math"
	"sort"

	"tabwork/internal/frame"
	"tabwork/internal/logging"
)

// ColumnSummary holds the describe output for one column.
type ColumnSummary struct {
	Name    string
	Kind    frame.Kind
	Numeric bool

	// Populated for every column
	Count int

	// Numeric columns
	Mean        float64
	Std         float64
	Min         float64
	Max         float64
	Percentiles []float64 // aligned with Description.Percentiles

	// Non-numeric columns
	Unique int
	Top    string
	Freq   int
}

// Description is the full describe() result.
type Description struct {
	Percentiles []float64 // requested fractions, e.g. 0.25, 0.5, 0.75
	Columns     []ColumnSummary
}

// Describe summarizes every column of the frame. Percentile fractions must
// lie within [0,1]; nil defaults to quartiles.
func Describe(f *frame.Frame, percentiles []float64) (*Description, error) {
	timer := logging.StartTimer(logging.CategoryStats, "Describe")
	defer timer.Stop()

	if percentiles == nil {
		percentiles = []float64{0.25, 0.5, 0.75}
	}
	for _, p := range percentiles {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("percentile %v out of range [0,1]", p)
		}
	}

	d := &Description{Percentiles: percentiles}
	for _, col := range f.Columns() {
		if col.Kind.IsNumeric() {
			vals, ok, err := f.NumericColumn(col.Name)
			if err != nil {
				return nil, err
			}
			d.Columns = append(d.Columns, numericSummary(col, vals, ok, percentiles))
			continue
		}
		cells, err := f.ColumnCells(col.Name)
		if err != nil {
			return nil, err
		}
		d.Columns = append(d.Columns, categoricalSummary(col, cells))
	}
	logging.Stats("described %d columns over %d rows", f.NumCols(), f.NumRows())
	return d, nil
}

func numericSummary(col frame.Column, vals []float64, ok []bool, percentiles []float64) ColumnSummary {
	clean := make([]float64, 0, len(vals))
	for i, v := range vals {
		if ok[i] {
			clean = append(clean, v)
		}
	}
	s := ColumnSummary{Name: col.Name, Kind: col.Kind, Numeric: true, Count: len(clean)}
	if len(clean) == 0 {
		s.Mean, s.Std, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		s.Percentiles = make([]float64, len(percentiles))
		for i := range s.Percentiles {
			s.Percentiles[i] = math.NaN()
		}
		return s
	}

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = mean(clean)
	s.Std = stddev(clean, s.Mean)
	s.Percentiles = make([]float64, len(percentiles))
	for i, p := range percentiles {
		s.Percentiles[i] = Quantile(sorted, p)
	}
	return s
}

func categoricalSummary(col frame.Column, cells []any) ColumnSummary {
	s := ColumnSummary{Name: col.Name, Kind: col.Kind}
	counts := make(map[string]int)
	var order []string
	for _, c := range cells {
		if c == nil {
			continue
		}
		s.Count++
		key := frame.FormatCell(c)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}
	s.Unique = len(counts)
	for _, key := range order {
		if counts[key] > s.Freq {
			s.Freq = counts[key]
			s.Top = key
		}
	}
	return s
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the sample standard deviation (n-1 denominator). A single value
// has no spread to estimate and yields NaN.
func stddev(vals []float64, mu float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	var ss float64
	for _, v := range vals {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// Quantile returns the p-quantile of sorted values using linear
// interpolation between closest ranks.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
