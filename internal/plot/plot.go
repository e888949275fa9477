// Package plot renders dataset charts to self-contained HTML files using
// echarts. Each chart function takes the current frame and returns the
// rendered page through an io.Writer so the CLI can target files and tests
// can target buffers.
package plot

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"tabwork/internal/config"
	"tabwork/internal/frame"
	"tabwork/internal/logging"
	"tabwork/internal/stats"
)

// Renderer holds the chart sizing and theme options shared by all plots.
type Renderer struct {
	cfg config.PlotConfig
}

// NewRenderer builds a renderer from plot configuration.
func NewRenderer(cfg config.PlotConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

func (p *Renderer) init(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:     p.cfg.Width,
			Height:    p.cfg.Height,
			Theme:     p.cfg.Theme,
			PageTitle: title,
		}),
	}
}

// numeric pulls a numeric column, dropping nulls.
func numeric(f *frame.Frame, name string) ([]float64, error) {
	vals, ok, err := f.NumericColumn(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(vals))
	for i, v := range vals {
		if ok[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// Scatter plots two numeric columns against each other, skipping rows where
// either cell is null.
func (p *Renderer) Scatter(w io.Writer, f *frame.Frame, x, y string) error {
	xs, xok, err := f.NumericColumn(x)
	if err != nil {
		return err
	}
	ys, yok, err := f.NumericColumn(y)
	if err != nil {
		return err
	}
	var data []opts.ScatterData
	for i := range xs {
		if xok[i] && yok[i] {
			data = append(data, opts.ScatterData{Value: []any{xs[i], ys[i]}})
		}
	}

	chart := charts.NewScatter()
	chart.SetGlobalOptions(append(p.init(fmt.Sprintf("%s vs %s", y, x)),
		charts.WithXAxisOpts(opts.XAxis{Name: x, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: y, Type: "value"}),
	)...)
	chart.AddSeries(y, data)
	logging.Plot("scatter %s vs %s (%d points)", y, x, len(data))
	return chart.Render(w)
}

// Line plots a numeric column over the rows of the frame, with the x column's
// stringified cells as axis labels.
func (p *Renderer) Line(w io.Writer, f *frame.Frame, x, y string) error {
	labels, err := f.ColumnCells(x)
	if err != nil {
		return err
	}
	ys, yok, err := f.NumericColumn(y)
	if err != nil {
		return err
	}
	var axis []string
	var data []opts.LineData
	for i := range ys {
		if yok[i] {
			axis = append(axis, frame.FormatCell(labels[i]))
			data = append(data, opts.LineData{Value: ys[i]})
		}
	}

	chart := charts.NewLine()
	chart.SetGlobalOptions(append(p.init(fmt.Sprintf("%s over %s", y, x)),
		charts.WithXAxisOpts(opts.XAxis{Name: x}),
		charts.WithYAxisOpts(opts.YAxis{Name: y}),
	)...)
	chart.SetXAxis(axis).AddSeries(y, data)
	logging.Plot("line %s over %s (%d points)", y, x, len(data))
	return chart.Render(w)
}

// Bar plots a numeric column as bars labeled by the x column.
func (p *Renderer) Bar(w io.Writer, f *frame.Frame, x, y string) error {
	labels, err := f.ColumnCells(x)
	if err != nil {
		return err
	}
	ys, yok, err := f.NumericColumn(y)
	if err != nil {
		return err
	}
	var axis []string
	var data []opts.BarData
	for i := range ys {
		if yok[i] {
			axis = append(axis, frame.FormatCell(labels[i]))
			data = append(data, opts.BarData{Value: ys[i]})
		}
	}

	chart := charts.NewBar()
	chart.SetGlobalOptions(append(p.init(fmt.Sprintf("%s by %s", y, x)),
		charts.WithXAxisOpts(opts.XAxis{Name: x}),
		charts.WithYAxisOpts(opts.YAxis{Name: y}),
	)...)
	chart.SetXAxis(axis).AddSeries(y, data)
	logging.Plot("bar %s by %s (%d bars)", y, x, len(data))
	return chart.Render(w)
}

// Hist buckets a numeric column into equal-width bins and renders the counts
// as bars. bins <= 0 falls back to the configured default.
func (p *Renderer) Hist(w io.Writer, f *frame.Frame, col string, bins int) error {
	if bins <= 0 {
		bins = p.cfg.HistogramBins
	}
	values, err := numeric(f, col)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("column %s has no values to bin", col)
	}
	buckets := Histogram(values, bins)

	axis := make([]string, len(buckets))
	data := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		axis[i] = b.Label()
		data[i] = opts.BarData{Value: b.Count}
	}

	chart := charts.NewBar()
	chart.SetGlobalOptions(append(p.init(fmt.Sprintf("distribution of %s", col)),
		charts.WithXAxisOpts(opts.XAxis{Name: col}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)...)
	chart.SetXAxis(axis).AddSeries(col, data)
	logging.Plot("histogram %s (%d bins)", col, len(buckets))
	return chart.Render(w)
}

// BoxPlot renders five-number summaries for the given numeric columns, or
// every numeric column when cols is empty.
func (p *Renderer) BoxPlot(w io.Writer, f *frame.Frame, cols []string) error {
	if len(cols) == 0 {
		for _, c := range f.Columns() {
			if c.Kind.IsNumeric() {
				cols = append(cols, c.Name)
			}
		}
	}
	if len(cols) == 0 {
		return fmt.Errorf("no numeric columns to plot")
	}

	var axis []string
	var data []opts.BoxPlotData
	for _, name := range cols {
		values, err := numeric(f, name)
		if err != nil {
			return err
		}
		box, err := Box(values)
		if err != nil {
			return fmt.Errorf("column %s: %w", name, err)
		}
		axis = append(axis, name)
		data = append(data, opts.BoxPlotData{
			Value: []float64{box.Min, box.Q1, box.Median, box.Q3, box.Max},
		})
	}

	chart := charts.NewBoxPlot()
	chart.SetGlobalOptions(p.init("box plot")...)
	chart.SetXAxis(axis).AddSeries("summary", data)
	logging.Plot("box plot over %d columns", len(axis))
	return chart.Render(w)
}

// GroupedBox renders one five-number summary per distinct value of the key
// column, boxes in sorted key order.
func (p *Renderer) GroupedBox(w io.Writer, f *frame.Frame, value, by string) error {
	keys, err := f.ColumnCells(by)
	if err != nil {
		return err
	}
	vals, ok, err := f.NumericColumn(value)
	if err != nil {
		return err
	}

	groups := make(map[string][]float64)
	var order []string
	for i := range vals {
		if !ok[i] || keys[i] == nil {
			continue
		}
		k := frame.FormatCell(keys[i])
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], vals[i])
	}
	if len(order) == 0 {
		return fmt.Errorf("no values to plot for %s by %s", value, by)
	}
	sort.Strings(order)

	var data []opts.BoxPlotData
	for _, k := range order {
		box, err := Box(groups[k])
		if err != nil {
			return fmt.Errorf("group %s: %w", k, err)
		}
		data = append(data, opts.BoxPlotData{
			Value: []float64{box.Min, box.Q1, box.Median, box.Q3, box.Max},
		})
	}

	chart := charts.NewBoxPlot()
	chart.SetGlobalOptions(append(p.init(fmt.Sprintf("%s by %s", value, by)),
		charts.WithXAxisOpts(opts.XAxis{Name: by}),
		charts.WithYAxisOpts(opts.YAxis{Name: value}),
	)...)
	chart.SetXAxis(order).AddSeries(value, data)
	logging.Plot("grouped box %s by %s (%d groups)", value, by, len(order))
	return chart.Render(w)
}

// Heatmap renders the Pearson correlation matrix of the frame's numeric
// columns.
func (p *Renderer) Heatmap(w io.Writer, f *frame.Frame) error {
	m, err := stats.Correlation(f)
	if err != nil {
		return err
	}

	var data []opts.HeatMapData
	for i := range m.Columns {
		for j := range m.Columns {
			data = append(data, opts.HeatMapData{
				Value: [3]any{i, j, m.Values[j][i]},
			})
		}
	}

	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(append(p.init("correlation"),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: m.Columns}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Columns}),
		charts.WithVisualMapOpts(opts.VisualMap{Min: -1, Max: 1, Calculable: opts.Bool(true)}),
	)...)
	chart.AddSeries("correlation", data)
	logging.Plot("correlation heatmap over %d columns", len(m.Columns))
	return chart.Render(w)
}
