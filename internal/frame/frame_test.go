package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New([]Column{
		{Name: "city", Kind: KindString},
		{Name: "pop", Kind: KindInt},
		{Name: "area", Kind: KindFloat},
	})
	require.NoError(t, err)
	require.NoError(t, f.AppendRow("lyon", int64(513), 47.9))
	require.NoError(t, f.AppendRow("porto", int64(237), 41.4))
	require.NoError(t, f.AppendRow("graz", int64(289), 127.6))
	return f
}

func TestNew_RejectsDuplicateColumns(t *testing.T) {
	_, err := New([]Column{{Name: "a"}, {Name: "a"}})
	assert.ErrorIs(t, err, ErrColumnExists)
}

func TestAppendRow_Validation(t *testing.T) {
	f := MustNew([]Column{{Name: "n", Kind: KindInt}})

	t.Run("ragged row", func(t *testing.T) {
		err := f.AppendRow(int64(1), int64(2))
		assert.ErrorIs(t, err, ErrRaggedRow)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		err := f.AppendRow("not an int")
		assert.ErrorIs(t, err, ErrKindMismatch)
	})

	t.Run("null is allowed", func(t *testing.T) {
		require.NoError(t, f.AppendRow(nil))
		assert.Nil(t, f.Cell(0, 0))
	})
}

func TestHead(t *testing.T) {
	f := sampleFrame(t)
	h := f.Head(2)
	assert.Equal(t, 2, h.NumRows())
	assert.Equal(t, 3, f.NumRows(), "head must not mutate the receiver")
	assert.Equal(t, "lyon", h.Cell(0, 0))

	assert.Equal(t, 3, f.Head(10).NumRows())
	assert.Equal(t, 0, f.Head(-1).NumRows())
}

func TestRenameColumn(t *testing.T) {
	f := sampleFrame(t)

	g, err := f.RenameColumn("pop", "population")
	require.NoError(t, err)
	assert.True(t, g.HasColumn("population"))
	assert.False(t, g.HasColumn("pop"))
	assert.True(t, f.HasColumn("pop"), "receiver unchanged")

	_, err = f.RenameColumn("missing", "x")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = f.RenameColumn("pop", "city")
	assert.ErrorIs(t, err, ErrColumnExists)
}

func TestSetIndex(t *testing.T) {
	f := sampleFrame(t)
	g, err := f.SetIndex("city")
	require.NoError(t, err)
	assert.Equal(t, "city", g.IndexColumn())
	assert.Equal(t, []string{"lyon", "porto", "graz"}, g.Labels())

	reset := g.ResetIndex()
	assert.Equal(t, []string{"0", "1", "2"}, reset.Labels())
	assert.Equal(t, "", reset.IndexColumn())
}

func TestAddColumn(t *testing.T) {
	f := sampleFrame(t)

	g, err := f.AddColumn(Column{Name: "density", Kind: KindFloat}, []any{10.7, 5.7, 2.3})
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumCols())
	assert.Equal(t, 3, f.NumCols())

	_, err = f.AddColumn(Column{Name: "pop", Kind: KindFloat}, []any{1.0, 2.0, 3.0})
	assert.ErrorIs(t, err, ErrColumnExists)

	_, err = f.AddColumn(Column{Name: "short", Kind: KindFloat}, []any{1.0})
	assert.ErrorIs(t, err, ErrRaggedRow)
}

func TestNumericColumn(t *testing.T) {
	f := sampleFrame(t)

	vals, ok, err := f.NumericColumn("pop")
	require.NoError(t, err)
	assert.Equal(t, []float64{513, 237, 289}, vals)
	assert.Equal(t, []bool{true, true, true}, ok)

	_, _, err = f.NumericColumn("city")
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"int":      KindInt,
		"Integer":  KindInt,
		"float":    KindFloat,
		"string":   KindString,
		"datetime": KindTime,
		"bool":     KindBool,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("complex")
	assert.Error(t, err)
}

func TestFormatCell(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "", FormatCell(nil))
	assert.Equal(t, "42", FormatCell(int64(42)))
	assert.Equal(t, "1.5", FormatCell(1.5))
	assert.Equal(t, "true", FormatCell(true))
	assert.Equal(t, "2024-05-01T12:00:00Z", FormatCell(ts))
}
