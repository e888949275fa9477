package config

// StoreConfig configures the SQLite session store.
type StoreConfig struct {
	// Database path, workspace-relative unless absolute
	DatabasePath string `yaml:"database_path"`

	// SQLite busy timeout
	BusyTimeout string `yaml:"busy_timeout"`
}

// DefaultStoreConfig returns the store defaults.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DatabasePath: ".tabwork/session.db",
		BusyTimeout:  "5s",
	}
}

// WatchConfig configures source file watching.
type WatchConfig struct {
	// Enable fsnotify watching of loaded source files
	Enabled bool `yaml:"enabled"`

	// Coalesce bursts of events within this many milliseconds
	DebounceMillis int `yaml:"debounce_millis"`
}

// DefaultWatchConfig returns the watch defaults.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{Enabled: true, DebounceMillis: 250}
}

// LoggingConfig configures logging. The logging package reads this section
// directly from the YAML file to avoid an import cycle; keep field names in
// sync with internal/logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"` // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"`
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultLoggingConfig returns the logging defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info"}
}
