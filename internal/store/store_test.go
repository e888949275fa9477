package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabwork/internal/frame"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mixedFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.MustNew([]frame.Column{
		{Name: "id", Kind: frame.KindInt},
		{Name: "score", Kind: frame.KindFloat},
		{Name: "name", Kind: frame.KindString},
		{Name: "active", Kind: frame.KindBool},
		{Name: "seen", Kind: frame.KindTime},
	})
	when := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)
	require.NoError(t, f.AppendRow(int64(1), 9.5, "ana", true, when))
	require.NoError(t, f.AppendRow(int64(2), nil, "bo", false, nil))
	return f
}

func TestFrameCodec_RoundTrip(t *testing.T) {
	orig := mixedFrame(t)
	indexed, err := orig.SetIndex("name")
	require.NoError(t, err)

	blob, err := EncodeFrame(indexed)
	require.NoError(t, err)

	got, err := DecodeFrame(blob)
	require.NoError(t, err)

	assert.Equal(t, indexed.Columns(), got.Columns())
	assert.Equal(t, indexed.Labels(), got.Labels())
	assert.Equal(t, "name", got.IndexColumn())

	// int cells must come back as int64, not float64
	assert.Equal(t, int64(1), got.Cell(0, 0))
	assert.Equal(t, 9.5, got.Cell(0, 1))
	assert.Nil(t, got.Cell(1, 1))
	assert.Nil(t, got.Cell(1, 4))

	seen, ok := got.Cell(0, 4).(time.Time)
	require.True(t, ok)
	assert.True(t, seen.Equal(time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)), "nanosecond precision preserved")
}

func TestSettingsCodec_RoundTrip(t *testing.T) {
	orig := Settings{
		DroppedColumns: []frame.DroppedColumn{{
			Col:   frame.Column{Name: "score", Kind: frame.KindFloat},
			Pos:   1,
			Cells: map[string]any{"0": 9.5, "1": nil},
		}},
		DroppedRows: []frame.DroppedRow{{
			Label: "2",
			Names: []string{"id", "name"},
			Cells: []any{int64(3), "cy"},
		}},
		IndexColumn: "id",
	}

	blob, err := EncodeSettings(orig)
	require.NoError(t, err)

	got, err := DecodeSettings(blob)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestSaveLoadSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &SessionRecord{
		Name: "march-cleanup",
		Datasets: []DatasetRecord{{
			Name:       "sales",
			SourcePath: "/data/sales.csv",
			LoadedAt:   time.Now(),
			Frame:      mixedFrame(t),
			Settings:   Settings{IndexColumn: "id"},
		}},
	}

	id, err := s.SaveSession(ctx, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "march-cleanup", got.Name)
	require.Len(t, got.Datasets, 1)

	ds := got.Datasets[0]
	assert.Equal(t, "sales", ds.Name)
	assert.Equal(t, "/data/sales.csv", ds.SourcePath)
	assert.Equal(t, 2, ds.Frame.NumRows())
	assert.Equal(t, "id", ds.Settings.IndexColumn)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveSession_ReplaceDatasets(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &SessionRecord{
		Name: "work",
		Datasets: []DatasetRecord{
			{Name: "a", SourcePath: "a.csv", LoadedAt: time.Now(), Frame: mixedFrame(t)},
			{Name: "b", SourcePath: "b.csv", LoadedAt: time.Now(), Frame: mixedFrame(t)},
		},
	}
	id, err := s.SaveSession(ctx, rec)
	require.NoError(t, err)

	rec.ID = id
	rec.Datasets = rec.Datasets[:1]
	id2, err := s.SaveSession(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, id, id2, "resave keeps the id")

	got, err := s.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Datasets, 1, "old datasets replaced")
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestFindSessionByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveSession(ctx, &SessionRecord{Name: "findme"})
	require.NoError(t, err)

	got, err := s.FindSessionByName(ctx, "findme")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.FindSessionByName(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSession(ctx, &SessionRecord{Name: "one"})
	require.NoError(t, err)
	_, err = s.SaveSession(ctx, &SessionRecord{Name: "two", Datasets: []DatasetRecord{
		{Name: "a", SourcePath: "a.csv", LoadedAt: time.Now(), Frame: mixedFrame(t)},
	}})
	require.NoError(t, err)

	metas, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	byName := map[string]SessionMeta{}
	for _, m := range metas {
		byName[m.Name] = m
	}
	assert.Equal(t, 0, byName["one"].Datasets)
	assert.Equal(t, 1, byName["two"].Datasets)
}

func TestDeleteSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveSession(ctx, &SessionRecord{Name: "gone"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSession(ctx, id))

	_, err = s.LoadSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = s.DeleteSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
