// Package store persists workbench sessions to an embedded SQLite database.
// A session is a named collection of datasets; each dataset row carries the
// frame snapshot, its source path, and the per-dataset settings (stash and
// index column) as JSON blobs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tabwork/internal/frame"
	"tabwork/internal/logging"
)

// ErrSessionNotFound is returned when a session id or name does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Settings is the restorable per-dataset state that is not part of the frame
// snapshot itself.
type Settings struct {
	DroppedColumns []frame.DroppedColumn
	DroppedRows    []frame.DroppedRow
	IndexColumn    string
}

// SessionMeta summarizes a stored session without loading its datasets.
type SessionMeta struct {
	ID        string
	Name      string
	Datasets  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DatasetRecord is one dataset inside a stored session.
type DatasetRecord struct {
	Name       string
	SourcePath string
	LoadedAt   time.Time
	Frame      *frame.Frame
	Settings   Settings
}

// SessionRecord is a fully loaded session.
type SessionRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Datasets  []DatasetRecord
}

// Store wraps the SQLite database holding saved sessions.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS datasets (
	session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	name        TEXT NOT NULL,
	source_path TEXT NOT NULL,
	loaded_at   TEXT NOT NULL,
	frame       BLOB NOT NULL,
	settings    BLOB NOT NULL,
	PRIMARY KEY (session_id, position)
);
`

// Open opens (creating if necessary) the session database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// modernc's driver serializes writes itself; one connection avoids
	// SQLITE_BUSY churn under the workbench's light write load.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logging.StoreDebug("opened session db at %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// SaveSession writes the session and all its datasets in one transaction.
// An empty ID means a new session; saving an existing ID replaces its
// datasets wholesale.
func (s *Store) SaveSession(ctx context.Context, rec *SessionRecord) (string, error) {
	timer := logging.StartTimer(logging.CategoryStore, "SaveSession")
	defer timer.StopWithThreshold(500 * time.Millisecond)

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	created := now
	if rec.ID != "" {
		var createdStr string
		err := tx.QueryRowContext(ctx, `SELECT created_at FROM sessions WHERE id = ?`, id).Scan(&createdStr)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// saving under a fresh id, keep now
		case err != nil:
			return "", fmt.Errorf("look up session: %w", err)
		default:
			if t, perr := time.Parse(time.RFC3339Nano, createdStr); perr == nil {
				created = t
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		id, rec.Name, created.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("upsert session %s: %w", rec.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE session_id = ?`, id); err != nil {
		return "", fmt.Errorf("clear datasets: %w", err)
	}

	for pos, ds := range rec.Datasets {
		frameBlob, err := EncodeFrame(ds.Frame)
		if err != nil {
			return "", fmt.Errorf("encode dataset %s: %w", ds.Name, err)
		}
		settingsBlob, err := EncodeSettings(ds.Settings)
		if err != nil {
			return "", fmt.Errorf("encode settings for %s: %w", ds.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO datasets (session_id, position, name, source_path, loaded_at, frame, settings)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, pos, ds.Name, ds.SourcePath, ds.LoadedAt.UTC().Format(time.RFC3339Nano),
			frameBlob, settingsBlob)
		if err != nil {
			return "", fmt.Errorf("insert dataset %s: %w", ds.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}

	logging.Store("saved session %s (%s) with %d datasets", rec.Name, id, len(rec.Datasets))
	return id, nil
}

// LoadSession loads a session and all its datasets by id.
func (s *Store) LoadSession(ctx context.Context, id string) (*SessionRecord, error) {
	timer := logging.StartTimer(logging.CategoryStore, "LoadSession")
	defer timer.StopWithThreshold(500 * time.Millisecond)

	rec := &SessionRecord{ID: id}
	var createdStr, updatedStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, created_at, updated_at FROM sessions WHERE id = ?`, id).
		Scan(&rec.Name, &createdStr, &updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, source_path, loaded_at, frame, settings
		FROM datasets WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ds DatasetRecord
		var loadedStr string
		var frameBlob, settingsBlob []byte
		if err := rows.Scan(&ds.Name, &ds.SourcePath, &loadedStr, &frameBlob, &settingsBlob); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		ds.LoadedAt, _ = time.Parse(time.RFC3339Nano, loadedStr)
		if ds.Frame, err = DecodeFrame(frameBlob); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		if ds.Settings, err = DecodeSettings(settingsBlob); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		rec.Datasets = append(rec.Datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}

	logging.Store("loaded session %s (%s) with %d datasets", rec.Name, id, len(rec.Datasets))
	return rec, nil
}

// FindSessionByName resolves a session name to its id.
func (s *Store) FindSessionByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM sessions WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("find session %s: %w", name, err)
	}
	return id, nil
}

// ListSessions returns metadata for all stored sessions, most recently
// updated first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at, s.updated_at, COUNT(d.session_id)
		FROM sessions s LEFT JOIN datasets d ON d.session_id = s.id
		GROUP BY s.id ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var metas []SessionMeta
	for rows.Next() {
		var m SessionMeta
		var createdStr, updatedStr string
		if err := rows.Scan(&m.ID, &m.Name, &createdStr, &updatedStr, &m.Datasets); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		m.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// DeleteSession removes a session and its datasets.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	// Cascade handles dataset rows, but older databases may predate the
	// foreign key pragma.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete datasets for %s: %w", id, err)
	}
	logging.Store("deleted session %s", id)
	return nil
}
