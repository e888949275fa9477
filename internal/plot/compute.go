package plot

import (
	"fmt"
	"math"
	"sort"

	"tabwork/internal/stats"
)

// Bin is one histogram bucket over the half-open interval [Lo, Hi), the last
// bucket closed on the right.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Label renders the bucket range for a bar axis.
func (b Bin) Label() string {
	return fmt.Sprintf("%.4g-%.4g", b.Lo, b.Hi)
}

// Histogram buckets values into n equal-width bins. Constant data collapses
// into a single bin.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 || n < 1 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(values)}}
	}
	bins := make([]Bin, n)
	width := (hi - lo) / float64(n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// BoxStats are the five-number summary a box plot draws, in echarts order.
type BoxStats struct {
	Min, Q1, Median, Q3, Max float64
}

// Box computes the five-number summary using the same linear-interpolated
// quantiles as the describe table.
func Box(values []float64) (BoxStats, error) {
	if len(values) == 0 {
		return BoxStats{}, fmt.Errorf("no values to summarize")
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return BoxStats{
		Min:    sorted[0],
		Q1:     stats.Quantile(sorted, 0.25),
		Median: stats.Quantile(sorted, 0.5),
		Q3:     stats.Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}, nil
}
