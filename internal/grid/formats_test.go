package grid

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/require"
)

func TestSheetFormattingCombinesLayers(t *testing.T) {
	f := NewSheetFormatting()
	p := pos.Pos{X: 1, Y: 1}
	x2 := int64(1)

	f.SetBold(1, 1, &x2, &x2, true)
	f.SetFillColor(1, 1, &x2, &x2, "#FF0000")

	got := f.At(p)
	require.True(t, got.Bold)
	require.Equal(t, "#FF0000", got.FillColor)
	require.False(t, got.Italic)
	require.Equal(t, "", got.NumericFormat)
}

func TestMergedCellsAnchorAndBounds(t *testing.T) {
	m := NewMergedCells()
	rect := pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 2, Y: 2}}
	m.Merge(rect)

	anchor, ok := m.AnchorAt(pos.Pos{X: 2, Y: 2})
	require.True(t, ok)
	require.Equal(t, rect.Min, anchor)

	bounds, ok := m.BoundsContaining(pos.Pos{X: 2, Y: 1})
	require.True(t, ok)
	require.Equal(t, rect, bounds)

	_, ok = m.AnchorAt(pos.Pos{X: 3, Y: 3})
	require.False(t, ok)
}

func TestMergedCellsUnmerge(t *testing.T) {
	m := NewMergedCells()
	rect := pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 3, Y: 1}}
	m.Merge(rect)

	m.Unmerge(rect.Min)
	_, ok := m.AnchorAt(pos.Pos{X: 2, Y: 1})
	require.False(t, ok)
}
