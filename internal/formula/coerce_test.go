package formula

import (
	"testing"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/stretchr/testify/require"
)

func TestAsBoolCoercions(t *testing.T) {
	b, err := AsBool(grid.NewLogical(true))
	require.NoError(t, err)
	require.True(t, b)

	b, err = AsBool(grid.NewText("TRUE"))
	require.NoError(t, err)
	require.True(t, b)

	b, err = AsBool(num(0))
	require.NoError(t, err)
	require.False(t, b)

	_, err = AsBool(grid.NewText("not a bool"))
	require.Error(t, err)
	var ce CoerceError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "logical", ce.Expected)
	require.Equal(t, "text", ce.Got)
}

func TestAsBoolPropagatesError(t *testing.T) {
	errVal := grid.NewError(grid.ErrValue, "boom", nil)
	_, err := AsBool(errVal)
	require.Error(t, err)
}

func TestAsNumberCoercions(t *testing.T) {
	d, err := AsNumber(grid.NewText("3.5"))
	require.NoError(t, err)
	f, _ := d.Float64()
	require.Equal(t, 3.5, f)

	d, err = AsNumber(grid.NewLogical(true))
	require.NoError(t, err)
	require.True(t, d.Equal(d.Truncate(0)))

	_, err = AsNumber(grid.NewText("not a number"))
	require.Error(t, err)
}

func TestAsIntRejectsFractional(t *testing.T) {
	_, err := AsInt(grid.NewText("3.5"))
	require.Error(t, err)

	n, err := AsInt(grid.NewText("4"))
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
}

func TestAsTextCoercions(t *testing.T) {
	s, err := AsText(grid.NewLogical(true))
	require.NoError(t, err)
	require.Equal(t, "TRUE", s)

	s, err = AsText(grid.CellValue{Kind: grid.Blank})
	require.NoError(t, err)
	require.Equal(t, "", s)
}
