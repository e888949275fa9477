package config

// PlotConfig configures chart generation.
type PlotConfig struct {
	// Default histogram bin count
	HistogramBins int `yaml:"histogram_bins"`

	// Chart canvas size, echarts px strings
	Width  string `yaml:"width"`
	Height string `yaml:"height"`

	// echarts theme name
	Theme string `yaml:"theme"`
}

// DefaultPlotConfig returns the plot defaults.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		HistogramBins: 10,
		Width:         "900px",
		Height:        "520px",
		Theme:         "white",
	}
}

// StatsConfig configures descriptive statistics.
type StatsConfig struct {
	// Percentiles reported by describe, as fractions of 1
	Percentiles []float64 `yaml:"percentiles"`
}

// DefaultStatsConfig returns the stats defaults.
func DefaultStatsConfig() StatsConfig {
	return StatsConfig{Percentiles: []float64{0.25, 0.5, 0.75}}
}

// ReportConfig configures XLSX report export.
type ReportConfig struct {
	// Sheet holding the cleaned data
	SheetName string `yaml:"sheet_name"`

	// Also write a describe() sheet
	IncludeStats bool `yaml:"include_stats"`
}

// DefaultReportConfig returns the report defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{SheetName: "Cleaned Data"}
}
