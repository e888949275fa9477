package frame

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropDuplicates(t *testing.T) {
	f := MustNew([]Column{{Name: "a", Kind: KindString}, {Name: "n", Kind: KindInt}})
	require.NoError(t, f.AppendRow("x", int64(1)))
	require.NoError(t, f.AppendRow("y", int64(2)))
	require.NoError(t, f.AppendRow("x", int64(1)))
	require.NoError(t, f.AppendRow("x", int64(3)))

	g := f.DropDuplicates()
	assert.Equal(t, 3, g.NumRows())
	assert.Equal(t, []string{"0", "1", "3"}, g.Labels(), "first occurrence keeps its label")
	assert.Equal(t, 4, f.NumRows())
}

func TestDropDuplicates_SeparatorSafety(t *testing.T) {
	f := MustNew([]Column{{Name: "a", Kind: KindString}, {Name: "b", Kind: KindString}})
	require.NoError(t, f.AppendRow("ab", "c"))
	require.NoError(t, f.AppendRow("a", "bc"))
	assert.Equal(t, 2, f.DropDuplicates().NumRows())
}

func TestConvert(t *testing.T) {
	f := MustNew([]Column{{Name: "v", Kind: KindString}})
	require.NoError(t, f.AppendRow("10"))
	require.NoError(t, f.AppendRow("20"))

	t.Run("string to int", func(t *testing.T) {
		g, err := f.Convert("v", KindInt)
		require.NoError(t, err)
		k, _ := g.ColumnKind("v")
		assert.Equal(t, KindInt, k)
		assert.Equal(t, int64(10), g.Cell(0, 0))
	})

	t.Run("all or nothing", func(t *testing.T) {
		bad := MustNew([]Column{{Name: "v", Kind: KindString}})
		require.NoError(t, bad.AppendRow("10"))
		require.NoError(t, bad.AppendRow("oops"))
		_, err := bad.Convert("v", KindInt)
		assert.ErrorIs(t, err, ErrConvertFailed)
		assert.Contains(t, err.Error(), "row 1")
	})

	t.Run("float to int truncates", func(t *testing.T) {
		g := MustNew([]Column{{Name: "v", Kind: KindFloat}})
		require.NoError(t, g.AppendRow(3.9))
		h, err := g.Convert("v", KindInt)
		require.NoError(t, err)
		assert.Equal(t, int64(3), h.Cell(0, 0))
	})

	t.Run("string to time", func(t *testing.T) {
		g := MustNew([]Column{{Name: "v", Kind: KindString}})
		require.NoError(t, g.AppendRow("2024-05-01"))
		h, err := g.Convert("v", KindTime)
		require.NoError(t, err)
		k, _ := h.ColumnKind("v")
		assert.Equal(t, KindTime, k)
	})

	t.Run("null blocks int cast", func(t *testing.T) {
		g := MustNew([]Column{{Name: "v", Kind: KindString}})
		require.NoError(t, g.AppendRow(nil))
		_, err := g.Convert("v", KindInt)
		assert.ErrorIs(t, err, ErrConvertFailed)
	})
}

func TestSortBy(t *testing.T) {
	f := MustNew([]Column{{Name: "n", Kind: KindInt}})
	require.NoError(t, f.AppendRow(int64(3)))
	require.NoError(t, f.AppendRow(nil))
	require.NoError(t, f.AppendRow(int64(1)))
	require.NoError(t, f.AppendRow(int64(2)))

	asc, err := f.SortBy("n", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "0", "1"}, asc.Labels(), "ascending, null last")

	desc, err := f.SortBy("n", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "3", "2", "1"}, desc.Labels(), "descending, null still last")

	_, err = f.SortBy("missing", true)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestGroupBy(t *testing.T) {
	f := MustNew([]Column{
		{Name: "team", Kind: KindString},
		{Name: "score", Kind: KindInt},
		{Name: "note", Kind: KindString},
	})
	require.NoError(t, f.AppendRow("b", int64(4), "x"))
	require.NoError(t, f.AppendRow("a", int64(1), "y"))
	require.NoError(t, f.AppendRow("a", int64(3), nil))

	t.Run("sum drops non-numeric and sorts keys", func(t *testing.T) {
		g, err := f.GroupBy("team", AggSum)
		require.NoError(t, err)
		assert.Equal(t, []string{"team", "score"}, g.ColumnNames())
		assert.Equal(t, "a", g.Cell(0, 0))
		assert.Equal(t, int64(4), g.Cell(0, 1))
		assert.Equal(t, int64(4), g.Cell(1, 1))
	})

	t.Run("mean widens to float", func(t *testing.T) {
		g, err := f.GroupBy("team", AggMean)
		require.NoError(t, err)
		k, _ := g.ColumnKind("score")
		assert.Equal(t, KindFloat, k)
		assert.Equal(t, 2.0, g.Cell(0, 1))
	})

	t.Run("count includes non-numeric, skips nulls", func(t *testing.T) {
		g, err := f.GroupBy("team", AggCount)
		require.NoError(t, err)
		assert.Equal(t, []string{"team", "score", "note"}, g.ColumnNames())
		assert.Equal(t, int64(1), g.Cell(0, 2), "one non-null note in group a")
	})

	t.Run("min works on strings", func(t *testing.T) {
		g, err := f.GroupBy("team", AggMin)
		require.NoError(t, err)
		assert.Equal(t, "y", g.Cell(0, 2))
	})

	_, err := ParseAggFunc("median")
	assert.ErrorIs(t, err, ErrUnknownAggregate)
}

func TestDropAndFillNulls(t *testing.T) {
	f := MustNew([]Column{{Name: "a", Kind: KindString}, {Name: "n", Kind: KindFloat}})
	require.NoError(t, f.AppendRow("x", 1.0))
	require.NoError(t, f.AppendRow(nil, 2.0))
	require.NoError(t, f.AppendRow("z", nil))

	t.Run("dropna", func(t *testing.T) {
		g := f.DropNulls()
		assert.Equal(t, 1, g.NumRows())
		assert.Equal(t, "x", g.Cell(0, 0))
	})

	t.Run("fillna coerces per column", func(t *testing.T) {
		g := f.FillNulls("0")
		assert.Equal(t, "0", g.Cell(1, 0))
		assert.Equal(t, 0.0, g.Cell(2, 1))
	})

	t.Run("fillna leaves incompatible columns alone", func(t *testing.T) {
		g := f.FillNulls("not-a-number")
		assert.Equal(t, "not-a-number", g.Cell(1, 0))
		assert.Nil(t, g.Cell(2, 1))
	})
}

func TestFilterContains(t *testing.T) {
	f := sampleFrame(t)
	g, err := f.FilterContains("city", "o")
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumRows())

	n, err := f.FilterContains("pop", "3")
	require.NoError(t, err)
	assert.Equal(t, 2, n.NumRows(), "numeric cells filter on their string form")
}

func TestConcat(t *testing.T) {
	a := MustNew([]Column{{Name: "x", Kind: KindInt}, {Name: "y", Kind: KindString}})
	require.NoError(t, a.AppendRow(int64(1), "p"))
	b := MustNew([]Column{{Name: "y", Kind: KindString}, {Name: "z", Kind: KindFloat}})
	require.NoError(t, b.AppendRow("q", 2.5))

	g, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, g.ColumnNames())
	assert.Equal(t, 2, g.NumRows())
	assert.Nil(t, g.Cell(0, 2), "missing cells become nulls")
	assert.Nil(t, g.Cell(1, 0))
	assert.Equal(t, []string{"0", "1"}, g.Labels(), "labels reset")
}

func TestConcat_KindConflictWidensToString(t *testing.T) {
	a := MustNew([]Column{{Name: "v", Kind: KindInt}})
	require.NoError(t, a.AppendRow(int64(7)))
	b := MustNew([]Column{{Name: "v", Kind: KindString}})
	require.NoError(t, b.AppendRow("seven"))

	g, err := Concat(a, b)
	require.NoError(t, err)
	k, _ := g.ColumnKind("v")
	assert.Equal(t, KindString, k)
	assert.Equal(t, "7", g.Cell(0, 0))
}

func TestMerge(t *testing.T) {
	left := MustNew([]Column{{Name: "id", Kind: KindInt}, {Name: "name", Kind: KindString}})
	require.NoError(t, left.AppendRow(int64(1), "ana"))
	require.NoError(t, left.AppendRow(int64(2), "bo"))
	require.NoError(t, left.AppendRow(int64(3), "cy"))

	right := MustNew([]Column{{Name: "id", Kind: KindInt}, {Name: "name", Kind: KindString}, {Name: "score", Kind: KindFloat}})
	require.NoError(t, right.AppendRow(int64(2), "BO", 9.5))
	require.NoError(t, right.AppendRow(int64(1), "ANA", 7.0))
	require.NoError(t, right.AppendRow(int64(4), "dee", 1.0))

	g, err := left.Merge(right, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name_x", "name_y", "score"}, g.ColumnNames())
	assert.Equal(t, 2, g.NumRows(), "inner join drops unmatched keys")
	assert.Equal(t, int64(1), g.Cell(0, 0), "left order preserved")
	assert.Equal(t, "ana", g.Cell(0, 1))
	assert.Equal(t, "ANA", g.Cell(0, 2))

	_, err = left.Merge(right, "absent")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestClone_IsDeep(t *testing.T) {
	f := sampleFrame(t)
	g := f.Clone()
	g2, err := g.RenameColumn("city", "town")
	require.NoError(t, err)
	if diff := cmp.Diff(f.ColumnNames(), []string{"city", "pop", "area"}); diff != "" {
		t.Errorf("original columns changed (-want +got):\n%s", diff)
	}
	assert.True(t, g2.HasColumn("town"))
}
