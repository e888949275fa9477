package config

// IngestConfig configures file loading and type inference.
type IngestConfig struct {
	// Field delimiter for CSV files
	Delimiter string `yaml:"delimiter"`

	// Cell literals treated as null before inference
	NullLiterals []string `yaml:"null_literals"`

	// Infer column kinds from cell contents (off = everything is a string)
	InferTypes bool `yaml:"infer_types"`

	// Parallel workers for multi-file loads
	Concurrency int `yaml:"concurrency"`
}

// DefaultIngestConfig returns the ingest defaults.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		Delimiter:    ",",
		NullLiterals: []string{"", "NA", "N/A", "NaN", "null"},
		InferTypes:   true,
		Concurrency:  4,
	}
}
