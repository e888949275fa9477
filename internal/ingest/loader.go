package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"tabwork/internal/config"
	"tabwork/internal/frame"
	"tabwork/internal/logging"
)

// Result is the outcome of loading one file. Err is set when the file was
// skipped; the rest of the batch is unaffected.
type Result struct {
	Name  string // dataset name, the file basename
	Path  string
	Frame *frame.Frame
	Err   error
}

// ReadFile dispatches on the file extension.
func ReadFile(path string, cfg config.IngestConfig) (*frame.Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path, cfg)
	case ".xlsx", ".xls":
		return ReadExcelFile(path, cfg)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv, .xls, .xlsx)", filepath.Ext(path))
	}
}

// LoadAll loads the given files concurrently, bounded by cfg.Concurrency.
// Results come back in input order. A per-file failure is recorded in its
// Result, not returned; the returned error covers context cancellation only.
func LoadAll(ctx context.Context, paths []string, cfg config.IngestConfig) ([]Result, error) {
	timer := logging.StartTimer(logging.CategoryIngest, "LoadAll")
	defer timer.Stop()

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := filepath.Base(p)
			f, err := ReadFile(p, cfg)
			if err != nil {
				logging.IngestError("failed to load %s: %v", p, err)
				results[i] = Result{Name: name, Path: p, Err: err}
				return nil
			}
			logging.Ingest("loaded %s: %d rows x %d cols", name, f.NumRows(), f.NumCols())
			results[i] = Result{Name: name, Path: p, Frame: f}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
