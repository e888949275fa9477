package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabwork/internal/frame"
)

func statFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.MustNew([]frame.Column{
		{Name: "v", Kind: frame.KindFloat},
		{Name: "tag", Kind: frame.KindString},
	})
	require.NoError(t, f.AppendRow(1.0, "a"))
	require.NoError(t, f.AppendRow(2.0, "b"))
	require.NoError(t, f.AppendRow(3.0, "a"))
	require.NoError(t, f.AppendRow(4.0, "a"))
	require.NoError(t, f.AppendRow(nil, nil))
	return f
}

func TestDescribe_Numeric(t *testing.T) {
	d, err := Describe(statFrame(t), nil)
	require.NoError(t, err)
	require.Len(t, d.Columns, 2)

	v := d.Columns[0]
	assert.True(t, v.Numeric)
	assert.Equal(t, 4, v.Count, "null excluded")
	assert.InDelta(t, 2.5, v.Mean, 1e-9)
	assert.InDelta(t, 1.2909944487, v.Std, 1e-9, "sample std")
	assert.Equal(t, 1.0, v.Min)
	assert.Equal(t, 4.0, v.Max)
	require.Len(t, v.Percentiles, 3)
	assert.InDelta(t, 1.75, v.Percentiles[0], 1e-9, "linear interpolation")
	assert.InDelta(t, 2.5, v.Percentiles[1], 1e-9)
	assert.InDelta(t, 3.25, v.Percentiles[2], 1e-9)
}

func TestDescribe_Categorical(t *testing.T) {
	d, err := Describe(statFrame(t), nil)
	require.NoError(t, err)

	tag := d.Columns[1]
	assert.False(t, tag.Numeric)
	assert.Equal(t, 4, tag.Count)
	assert.Equal(t, 2, tag.Unique)
	assert.Equal(t, "a", tag.Top)
	assert.Equal(t, 3, tag.Freq)
}

func TestDescribe_EmptyNumericColumn(t *testing.T) {
	f := frame.MustNew([]frame.Column{{Name: "v", Kind: frame.KindFloat}})
	require.NoError(t, f.AppendRow(nil))

	d, err := Describe(f, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Columns[0].Count)
	assert.True(t, math.IsNaN(d.Columns[0].Mean))
}

func TestDescribe_BadPercentile(t *testing.T) {
	_, err := Describe(statFrame(t), []float64{1.2})
	assert.Error(t, err)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-9)
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.9))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestCorrelation(t *testing.T) {
	f := frame.MustNew([]frame.Column{
		{Name: "x", Kind: frame.KindFloat},
		{Name: "y", Kind: frame.KindFloat},
		{Name: "z", Kind: frame.KindFloat},
		{Name: "s", Kind: frame.KindString},
	})
	require.NoError(t, f.AppendRow(1.0, 2.0, 5.0, "a"))
	require.NoError(t, f.AppendRow(2.0, 4.0, 4.0, "b"))
	require.NoError(t, f.AppendRow(3.0, 6.0, 3.0, "c"))

	m, err := Correlation(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, m.Columns, "string column excluded")
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-9, "perfect positive")
	assert.InDelta(t, -1.0, m.Values[0][2], 1e-9, "perfect negative")
	assert.Equal(t, 1.0, m.Values[2][2])
	assert.Equal(t, m.Values[1][2], m.Values[2][1], "symmetric")
}

func TestCorrelation_ConstantColumnIsNaN(t *testing.T) {
	f := frame.MustNew([]frame.Column{
		{Name: "x", Kind: frame.KindFloat},
		{Name: "c", Kind: frame.KindFloat},
	})
	require.NoError(t, f.AppendRow(1.0, 9.0))
	require.NoError(t, f.AppendRow(2.0, 9.0))

	m, err := Correlation(f)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.Values[0][1]))
}

func TestCorrelation_NoNumericColumns(t *testing.T) {
	f := frame.MustNew([]frame.Column{{Name: "s", Kind: frame.KindString}})
	require.NoError(t, f.AppendRow("a"))
	_, err := Correlation(f)
	assert.Error(t, err)
}

func TestMarkdown(t *testing.T) {
	d, err := Describe(statFrame(t), nil)
	require.NoError(t, err)

	md := d.Markdown("sales.csv")
	assert.True(t, strings.HasPrefix(md, "## sales.csv"))
	assert.Contains(t, md, "| stat | v | tag |")
	assert.Contains(t, md, "| 25% |")
	assert.Contains(t, md, "| top |  | a |")
}
