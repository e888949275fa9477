package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabwork/internal/config"
	"tabwork/internal/frame"
)

func plotFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.MustNew([]frame.Column{
		{Name: "x", Kind: frame.KindFloat},
		{Name: "y", Kind: frame.KindFloat},
		{Name: "tag", Kind: frame.KindString},
	})
	require.NoError(t, f.AppendRow(1.0, 2.0, "a"))
	require.NoError(t, f.AppendRow(2.0, 4.0, "b"))
	require.NoError(t, f.AppendRow(3.0, nil, "c"))
	require.NoError(t, f.AppendRow(4.0, 8.0, "d"))
	return f
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, bins, 5)
	for _, b := range bins {
		assert.Equal(t, 2, b.Count)
	}
	assert.Equal(t, 1.0, bins[0].Lo)
	assert.Equal(t, 10.0, bins[4].Hi)

	t.Run("max lands in last bin", func(t *testing.T) {
		bins := Histogram([]float64{0, 10}, 10)
		assert.Equal(t, 1, bins[9].Count)
	})

	t.Run("constant data collapses", func(t *testing.T) {
		bins := Histogram([]float64{5, 5, 5}, 10)
		require.Len(t, bins, 1)
		assert.Equal(t, 3, bins[0].Count)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, Histogram(nil, 10))
	})
}

func TestBox(t *testing.T) {
	box, err := Box([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, box.Min)
	assert.InDelta(t, 1.75, box.Q1, 1e-9)
	assert.InDelta(t, 2.5, box.Median, 1e-9)
	assert.InDelta(t, 3.25, box.Q3, 1e-9)
	assert.Equal(t, 4.0, box.Max)

	_, err = Box(nil)
	assert.Error(t, err)
}

func TestRender_Smoke(t *testing.T) {
	p := NewRenderer(config.DefaultConfig().Plot)
	f := plotFrame(t)

	cases := map[string]func(w *bytes.Buffer) error{
		"scatter": func(w *bytes.Buffer) error { return p.Scatter(w, f, "x", "y") },
		"line":    func(w *bytes.Buffer) error { return p.Line(w, f, "tag", "y") },
		"bar":     func(w *bytes.Buffer) error { return p.Bar(w, f, "tag", "x") },
		"hist":    func(w *bytes.Buffer) error { return p.Hist(w, f, "x", 0) },
		"box":     func(w *bytes.Buffer) error { return p.BoxPlot(w, f, nil) },
		"boxby":   func(w *bytes.Buffer) error { return p.GroupedBox(w, f, "x", "tag") },
		"heatmap": func(w *bytes.Buffer) error { return p.Heatmap(w, f) },
	}
	for name, render := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf))
			html := buf.String()
			assert.True(t, strings.Contains(html, "echarts"), "rendered page embeds echarts")
		})
	}
}

func TestRender_Errors(t *testing.T) {
	p := NewRenderer(config.DefaultConfig().Plot)
	f := plotFrame(t)

	assert.Error(t, p.Scatter(&bytes.Buffer{}, f, "tag", "y"), "non-numeric x")
	assert.Error(t, p.Hist(&bytes.Buffer{}, f, "missing", 0))

	empty := frame.MustNew([]frame.Column{{Name: "s", Kind: frame.KindString}})
	require.NoError(t, empty.AppendRow("a"))
	assert.Error(t, p.BoxPlot(&bytes.Buffer{}, empty, nil))
	assert.Error(t, p.Heatmap(&bytes.Buffer{}, empty))
}
