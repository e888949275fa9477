// Package ingest loads CSV and Excel files into frames, inferring column
// kinds from cell contents. Multi-file loads run concurrently with per-file
// error reporting so one bad file never sinks the batch.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"tabwork/internal/config"
	"tabwork/internal/frame"
	"tabwork/internal/logging"
)

// ReadCSV parses CSV from r. The first record is the header row.
func ReadCSV(r io.Reader, cfg config.IngestConfig) (*frame.Frame, error) {
	timer := logging.StartTimer(logging.CategoryIngest, "ReadCSV")
	defer timer.Stop()

	cr := csv.NewReader(r)
	if cfg.Delimiter != "" {
		runes := []rune(cfg.Delimiter)
		if len(runes) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", cfg.Delimiter)
		}
		cr.Comma = runes[0]
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // ragged rows pad with nulls

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}
	return buildFrame(records[0], records[1:], cfg)
}

// ReadCSVFile opens and parses a CSV file.
func ReadCSVFile(path string, cfg config.IngestConfig) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, cfg)
}

// buildFrame turns raw header + records into a typed frame.
func buildFrame(header []string, records [][]string, cfg config.IngestConfig) (*frame.Frame, error) {
	names := dedupeHeaders(header)

	nulls := make(map[string]bool, len(cfg.NullLiterals))
	for _, l := range cfg.NullLiterals {
		nulls[l] = true
	}
	isNull := func(s string) bool { return nulls[strings.TrimSpace(s)] }

	// Column-major view for inference; short records pad with nulls, long
	// records are an error.
	colCells := make([][]string, len(names))
	for i := range colCells {
		colCells[i] = make([]string, len(records))
	}
	for r, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", r+1, len(rec), len(names))
		}
		for c := range names {
			if c < len(rec) {
				colCells[c][r] = rec[c]
			}
		}
	}

	cols := make([]frame.Column, len(names))
	for i, n := range names {
		k := frame.KindString
		if cfg.InferTypes {
			k = inferKind(colCells[i], isNull)
		}
		cols[i] = frame.Column{Name: n, Kind: k}
	}
	logging.IngestDebug("inferred schema: %v", cols)

	f, err := frame.New(cols)
	if err != nil {
		return nil, err
	}
	row := make([]any, len(cols))
	for r := range records {
		for c := range cols {
			v, err := typeCell(colCells[c][r], cols[c].Kind, isNull)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r+1, cols[c].Name, err)
			}
			row[c] = v
		}
		if err := f.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return f, nil
}
