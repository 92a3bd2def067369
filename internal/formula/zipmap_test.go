package formula

import (
	"testing"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/stretchr/testify/require"
)

func TestResolveZipMapShapeBroadcastsScalars(t *testing.T) {
	scalar := Single(num(1))
	arr := NewArray(2, 3, make([]grid.CellValue, 6))
	shape, err := ResolveZipMapShape([]Array{scalar, arr})
	require.NoError(t, err)
	require.Equal(t, ZipMapShape{Width: 2, Height: 3}, shape)
}

func TestResolveZipMapShapeRejectsMismatch(t *testing.T) {
	a := NewArray(2, 3, make([]grid.CellValue, 6))
	b := NewArray(3, 2, make([]grid.CellValue, 6))
	_, err := ResolveZipMapShape([]Array{a, b})
	require.Error(t, err)
}

func TestZipMapBroadcastsScalarAcrossArray(t *testing.T) {
	scalar := Single(num(10))
	arr := NewArray(1, 3, []grid.CellValue{num(1), num(2), num(3)})
	out, err := ZipMap([]Array{scalar, arr}, func(cells []grid.CellValue) grid.CellValue {
		a, _ := AsNumber(cells[0])
		b, _ := AsNumber(cells[1])
		return grid.NewNumber(a.Add(b))
	})
	require.NoError(t, err)
	require.True(t, out.Get(0, 0).Equal(num(11)))
	require.True(t, out.Get(0, 1).Equal(num(12)))
	require.True(t, out.Get(0, 2).Equal(num(13)))
}
