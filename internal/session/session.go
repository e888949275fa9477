// Package session holds the mutable working state of the workbench: which
// datasets are loaded, their current frames, and the stash of dropped columns
// and rows per dataset. Frames themselves are immutable; a session swaps in
// the frame each operation returns.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"tabwork/internal/config"
	"tabwork/internal/frame"
	"tabwork/internal/ingest"
	"tabwork/internal/logging"
	"tabwork/internal/store"
)

var (
	// ErrDatasetNotFound is returned when a dataset name is not loaded.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDatasetExists is returned when a load or combine would clobber a
	// loaded dataset.
	ErrDatasetExists = errors.New("dataset already loaded")
)

// Dataset is one loaded table plus its restorable state.
type Dataset struct {
	Name           string
	SourcePath     string
	LoadedAt       time.Time
	Frame          *frame.Frame
	DroppedColumns []frame.DroppedColumn
	DroppedRows    []frame.DroppedRow
	Stale          bool // source file changed since load
}

// Session is the set of datasets being worked on. All methods are safe for
// concurrent use; the TUI reads while the watcher flips stale flags.
type Session struct {
	mu       sync.RWMutex
	id       string
	name     string
	cfg      config.IngestConfig
	datasets []*Dataset
}

// New creates an empty session.
func New(name string, cfg config.IngestConfig) *Session {
	return &Session{name: name, cfg: cfg}
}

// ID returns the persisted session id, empty until the first save.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Name returns the session name.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Rename changes the session name.
func (s *Session) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Names returns the loaded dataset names in load order.
func (s *Session) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.datasets))
	for i, d := range s.datasets {
		names[i] = d.Name
	}
	return names
}

// Dataset returns a snapshot of the named dataset. The frame pointer is
// shared but frames are immutable, so the caller can read it freely.
func (s *Session) Dataset(name string) (Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, err := s.find(name)
	if err != nil {
		return Dataset{}, err
	}
	return *d, nil
}

func (s *Session) find(name string) (*Dataset, error) {
	for _, d := range s.datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
}

// datasetName derives a unique dataset name from a file path.
func (s *Session) datasetName(path string) string {
	base := filepath.Base(path)
	name := base
	for n := 2; ; n++ {
		if _, err := s.find(name); err != nil {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}
}

// Load reads the given files into the session. Files already loaded (by
// source path) are skipped unless reload is set, so repeated loads are cheap.
// Per-file failures are reported in the returned results rather than aborting
// the batch.
func (s *Session) Load(ctx context.Context, paths []string, reload bool) ([]ingest.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toLoad []string
	for _, p := range paths {
		if existing := s.findBySource(p); existing != nil && !reload {
			logging.SessionDebug("skip already loaded %s", p)
			continue
		}
		toLoad = append(toLoad, p)
	}
	if len(toLoad) == 0 {
		return nil, nil
	}

	results, err := ingest.LoadAll(ctx, toLoad, s.cfg)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if existing := s.findBySource(res.Path); existing != nil {
			existing.Frame = res.Frame
			existing.LoadedAt = time.Now()
			existing.DroppedColumns = nil
			existing.DroppedRows = nil
			existing.Stale = false
			logging.Session("reloaded %s (%d rows)", existing.Name, res.Frame.NumRows())
			continue
		}
		s.datasets = append(s.datasets, &Dataset{
			Name:       s.datasetName(res.Path),
			SourcePath: res.Path,
			LoadedAt:   time.Now(),
			Frame:      res.Frame,
		})
		logging.Session("loaded %s (%d rows, %d cols)", res.Path, res.Frame.NumRows(), res.Frame.NumCols())
	}
	return results, nil
}

func (s *Session) findBySource(path string) *Dataset {
	for _, d := range s.datasets {
		if d.SourcePath == path && d.SourcePath != "" {
			return d
		}
	}
	return nil
}

// Add inserts a derived dataset, one with no backing file.
func (s *Session) Add(name string, f *frame.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(name); err == nil {
		return fmt.Errorf("%w: %s", ErrDatasetExists, name)
	}
	s.datasets = append(s.datasets, &Dataset{Name: name, LoadedAt: time.Now(), Frame: f})
	return nil
}

// Remove drops a dataset from the session entirely.
func (s *Session) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.datasets {
		if d.Name == name {
			s.datasets = append(s.datasets[:i], s.datasets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
}

// Update applies fn to the named dataset's frame and swaps in the result.
// Operations with stash side effects use the dedicated methods instead.
func (s *Session) Update(name string, fn func(*frame.Frame) (*frame.Frame, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.find(name)
	if err != nil {
		return err
	}
	g, err := fn(d.Frame)
	if err != nil {
		return err
	}
	d.Frame = g
	return nil
}

// DropColumns hides columns, stashing them for later restore.
func (s *Session) DropColumns(name string, cols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.find(name)
	if err != nil {
		return err
	}
	g, stash, err := d.Frame.DropColumns(cols)
	if err != nil {
		return err
	}
	d.Frame = g
	d.DroppedColumns = append(d.DroppedColumns, stash...)
	logging.Session("%s: dropped %d columns", name, len(stash))
	return nil
}

// RestoreColumns brings stashed columns back.
func (s *Session) RestoreColumns(name string, cols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.find(name)
	if err != nil {
		return err
	}
	g, remainder, err := d.Frame.RestoreColumns(d.DroppedColumns, cols)
	if err != nil {
		return err
	}
	d.Frame = g
	d.DroppedColumns = remainder
	return nil
}

// DropRows hides rows by label, stashing them for later restore.
func (s *Session) DropRows(name string, labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.find(name)
	if err != nil {
		return err
	}
	g, stash, err := d.Frame.DropRows(labels)
	if err != nil {
		return err
	}
	d.Frame = g
	d.DroppedRows = append(d.DroppedRows, stash...)
	logging.Session("%s: dropped %d rows", name, len(stash))
	return nil
}

// RestoreRows brings stashed rows back.
func (s *Session) RestoreRows(name string, labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.find(name)
	if err != nil {
		return err
	}
	g, remainder, err := d.Frame.RestoreRows(d.DroppedRows, labels)
	if err != nil {
		return err
	}
	d.Frame = g
	d.DroppedRows = remainder
	return nil
}

// Concat appends the union-of-columns concatenation of the named datasets as
// a new dataset.
func (s *Session) Concat(newName string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(newName); err == nil {
		return fmt.Errorf("%w: %s", ErrDatasetExists, newName)
	}
	frames := make([]*frame.Frame, 0, len(names))
	for _, n := range names {
		d, err := s.find(n)
		if err != nil {
			return err
		}
		frames = append(frames, d.Frame)
	}
	g, err := frame.Concat(frames...)
	if err != nil {
		return err
	}
	s.datasets = append(s.datasets, &Dataset{Name: newName, LoadedAt: time.Now(), Frame: g})
	logging.Session("concat %v -> %s (%d rows)", names, newName, g.NumRows())
	return nil
}

// Merge inner-joins two datasets on a key column into a new dataset.
func (s *Session) Merge(newName, left, right, on string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(newName); err == nil {
		return fmt.Errorf("%w: %s", ErrDatasetExists, newName)
	}
	l, err := s.find(left)
	if err != nil {
		return err
	}
	r, err := s.find(right)
	if err != nil {
		return err
	}
	g, err := l.Frame.Merge(r.Frame, on)
	if err != nil {
		return err
	}
	s.datasets = append(s.datasets, &Dataset{Name: newName, LoadedAt: time.Now(), Frame: g})
	logging.Session("merge %s + %s on %s -> %s (%d rows)", left, right, on, newName, g.NumRows())
	return nil
}

// CheckStale compares source file modification times against load times and
// updates the stale flags. It returns the names that are now stale.
func (s *Session) CheckStale() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stale []string
	for _, d := range s.datasets {
		if d.SourcePath == "" {
			continue
		}
		info, err := os.Stat(d.SourcePath)
		if err != nil {
			d.Stale = true
		} else {
			d.Stale = info.ModTime().After(d.LoadedAt)
		}
		if d.Stale {
			stale = append(stale, d.Name)
		}
	}
	sort.Strings(stale)
	return stale
}

// markStale flips the stale flag for datasets backed by path.
func (s *Session) markStale(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.datasets {
		if d.SourcePath == path {
			d.Stale = true
			logging.WatchDebug("marked %s stale", d.Name)
		}
	}
}

// sourcePaths returns the distinct source files backing loaded datasets.
func (s *Session) sourcePaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var paths []string
	for _, d := range s.datasets {
		if d.SourcePath != "" && !seen[d.SourcePath] {
			seen[d.SourcePath] = true
			paths = append(paths, d.SourcePath)
		}
	}
	return paths
}

// Save persists the session through the store, assigning an id on first save.
func (s *Session) Save(ctx context.Context, st *store.Store) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &store.SessionRecord{ID: s.id, Name: s.name}
	for _, d := range s.datasets {
		rec.Datasets = append(rec.Datasets, store.DatasetRecord{
			Name:       d.Name,
			SourcePath: d.SourcePath,
			LoadedAt:   d.LoadedAt,
			Frame:      d.Frame,
			Settings: store.Settings{
				DroppedColumns: d.DroppedColumns,
				DroppedRows:    d.DroppedRows,
				IndexColumn:    d.Frame.IndexColumn(),
			},
		})
	}
	id, err := st.SaveSession(ctx, rec)
	if err != nil {
		return "", err
	}
	s.id = id
	return id, nil
}

// Restore rebuilds a session from a stored record.
func Restore(rec *store.SessionRecord, cfg config.IngestConfig) *Session {
	s := New(rec.Name, cfg)
	s.id = rec.ID
	for _, dr := range rec.Datasets {
		s.datasets = append(s.datasets, &Dataset{
			Name:           dr.Name,
			SourcePath:     dr.SourcePath,
			LoadedAt:       dr.LoadedAt,
			Frame:          dr.Frame,
			DroppedColumns: dr.Settings.DroppedColumns,
			DroppedRows:    dr.Settings.DroppedRows,
		})
	}
	return s
}
