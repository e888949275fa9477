// Package config holds all tabwork configuration. Settings live in
// .tabwork/config.yaml inside the workspace; missing files fall back to
// defaults so a fresh workspace needs no setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigDir is the workspace-relative directory tabwork owns.
const ConfigDir = ".tabwork"

// Config holds all tabwork configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// File loading
	Ingest IngestConfig `yaml:"ingest"`

	// Descriptive statistics
	Stats StatsConfig `yaml:"stats"`

	// Chart generation
	Plot PlotConfig `yaml:"plot"`

	// Report export
	Report ReportConfig `yaml:"report"`

	// Session persistence
	Store StoreConfig `yaml:"store"`

	// Source file watching
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "tabwork",
		Version: "0.3.0",
		Ingest:  DefaultIngestConfig(),
		Stats:   DefaultStatsConfig(),
		Plot:    DefaultPlotConfig(),
		Report:  DefaultReportConfig(),
		Store:   DefaultStoreConfig(),
		Watch:   DefaultWatchConfig(),
		Logging: DefaultLoggingConfig(),
	}
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ConfigDir, "config.yaml")
}

// Load reads the workspace config, layering the file over defaults and then
// applying environment overrides. A missing file is not an error.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to the workspace, creating .tabwork/ if needed.
func (c *Config) Save(workspace string) error {
	dir := filepath.Join(workspace, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(Path(workspace), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file settings.
// TABWORK_LOG_LEVEL and TABWORK_DB_PATH are the supported knobs.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TABWORK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TABWORK_DB_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("TABWORK_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// Validate checks cross-field constraints before the config is used.
func (c *Config) Validate() error {
	if c.Ingest.Concurrency < 1 {
		return fmt.Errorf("ingest.concurrency must be at least 1")
	}
	if c.Plot.HistogramBins < 1 {
		return fmt.Errorf("plot.histogram_bins must be at least 1")
	}
	for _, p := range c.Stats.Percentiles {
		if p < 0 || p > 1 {
			return fmt.Errorf("stats.percentiles must be within [0,1], got %v", p)
		}
	}
	return nil
}
