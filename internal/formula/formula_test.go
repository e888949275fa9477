package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabwork/internal/frame"
)

func numFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.MustNew([]frame.Column{
		{Name: "a", Kind: frame.KindFloat},
		{Name: "b", Kind: frame.KindInt},
		{Name: "label", Kind: frame.KindString},
	})
	require.NoError(t, f.AppendRow(1.5, int64(2), "x"))
	require.NoError(t, f.AppendRow(3.0, int64(4), "y"))
	require.NoError(t, f.AppendRow(nil, int64(6), "z"))
	return f
}

func TestParse_TargetAndColumns(t *testing.T) {
	f, err := Parse("total = a + b * 2")
	require.NoError(t, err)
	assert.Equal(t, "total", f.Target)
	assert.ElementsMatch(t, []string{"a", "b"}, f.Columns())
}

func TestParse_Errors(t *testing.T) {
	cases := []string{
		"no equals sign",
		"= a + b",
		"x = a +",
		"x = (a + b",
		"x = a ? b",
		"x = `unterminated",
		"x = a * / b",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestApply_Precedence(t *testing.T) {
	fr := numFrame(t)
	f, err := Parse("total = a + b * 2")
	require.NoError(t, err)

	out, err := f.Apply(fr)
	require.NoError(t, err)
	assert.Equal(t, 5.5, out.Cell(0, 3), "1.5 + 2*2")
	assert.Equal(t, 11.0, out.Cell(1, 3))
	assert.Nil(t, out.Cell(2, 3), "null operand yields null")
}

func TestApply_ParensAndUnary(t *testing.T) {
	fr := numFrame(t)
	f, err := Parse("v = -(a + b) / 2")
	require.NoError(t, err)

	out, err := f.Apply(fr)
	require.NoError(t, err)
	assert.Equal(t, -1.75, out.Cell(0, 3))
}

func TestApply_DivisionByZero(t *testing.T) {
	fr := numFrame(t)
	f, err := Parse("v = a / (b - b)")
	require.NoError(t, err)

	out, err := f.Apply(fr)
	require.NoError(t, err)
	assert.Nil(t, out.Cell(0, 3))
}

func TestApply_BackquotedColumn(t *testing.T) {
	fr := frame.MustNew([]frame.Column{{Name: "unit price", Kind: frame.KindFloat}})
	require.NoError(t, fr.AppendRow(10.0))

	f, err := Parse("doubled = `unit price` * 2")
	require.NoError(t, err)
	out, err := f.Apply(fr)
	require.NoError(t, err)
	assert.Equal(t, 20.0, out.Cell(0, 1))
}

func TestApply_NonNumericColumn(t *testing.T) {
	fr := numFrame(t)
	f, err := Parse("v = label * 2")
	require.NoError(t, err)
	_, err = f.Apply(fr)
	assert.ErrorIs(t, err, frame.ErrNotNumeric)
}

func TestApply_TargetCollision(t *testing.T) {
	fr := numFrame(t)
	f, err := Parse("a = b * 2")
	require.NoError(t, err)
	_, err = f.Apply(fr)
	assert.ErrorIs(t, err, frame.ErrColumnExists)
}

func TestParse_NumberLiteralOnly(t *testing.T) {
	fr := numFrame(t)
	f, err := Parse("c = 1.5e1")
	require.NoError(t, err)
	out, err := f.Apply(fr)
	require.NoError(t, err)
	assert.Equal(t, 15.0, out.Cell(0, 3))
}
