package grid

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/require"
)

func TestMoveCellsBatchSameSheet(t *testing.T) {
	s := NewSheet("Sheet1")
	s.SetCellValue(pos.Pos{X: 1, Y: 1}, NewText("a"))
	s.SetCellValue(pos.Pos{X: 2, Y: 1}, NewText("b"))

	sheets := map[string]*Sheet{s.ID: s}
	moves := []CellMove{{
		SourceSheetID: s.ID,
		Source:        pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 2, Y: 1}},
		DestSheetID:   s.ID,
		DestAnchor:    pos.Pos{X: 10, Y: 10},
	}}

	undo := MoveCellsBatch(sheets, moves)

	require.True(t, s.GetCellValue(pos.Pos{X: 1, Y: 1}).IsBlank())
	require.True(t, s.GetCellValue(pos.Pos{X: 2, Y: 1}).IsBlank())
	require.Equal(t, "a", s.GetCellValue(pos.Pos{X: 10, Y: 10}).TextValue)
	require.Equal(t, "b", s.GetCellValue(pos.Pos{X: 11, Y: 10}).TextValue)

	require.Len(t, undo.Moves, 1)
	MoveCellsBatch(sheets, undo.Moves)
	require.Equal(t, "a", s.GetCellValue(pos.Pos{X: 1, Y: 1}).TextValue)
	require.Equal(t, "b", s.GetCellValue(pos.Pos{X: 2, Y: 1}).TextValue)
	require.True(t, s.GetCellValue(pos.Pos{X: 10, Y: 10}).IsBlank())
}

func TestMoveCellsBatchSwapDoesNotLeakBetweenMoves(t *testing.T) {
	s := NewSheet("Sheet1")
	a := pos.Pos{X: 1, Y: 1}
	b := pos.Pos{X: 2, Y: 1}
	s.SetCellValue(a, NewText("at-a"))
	s.SetCellValue(b, NewText("at-b"))

	sheets := map[string]*Sheet{s.ID: s}
	// Swap a and b in one batch: each destination must see the
	// pre-batch snapshot, not the other move's already-applied cut.
	moves := []CellMove{
		{SourceSheetID: s.ID, Source: pos.Rect{Min: a, Max: a}, DestSheetID: s.ID, DestAnchor: b},
		{SourceSheetID: s.ID, Source: pos.Rect{Min: b, Max: b}, DestSheetID: s.ID, DestAnchor: a},
	}
	MoveCellsBatch(sheets, moves)

	require.Equal(t, "at-b", s.GetCellValue(a).TextValue)
	require.Equal(t, "at-a", s.GetCellValue(b).TextValue)
}

func TestMoveCellsBatchAcrossSheets(t *testing.T) {
	src := NewSheet("Src")
	dst := NewSheet("Dst")
	src.SetCellValue(pos.Pos{X: 1, Y: 1}, NewText("v"))

	sheets := map[string]*Sheet{src.ID: src, dst.ID: dst}
	moves := []CellMove{{
		SourceSheetID: src.ID,
		Source:        pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 1, Y: 1}},
		DestSheetID:   dst.ID,
		DestAnchor:    pos.Pos{X: 5, Y: 5},
	}}
	undo := MoveCellsBatch(sheets, moves)

	require.True(t, src.GetCellValue(pos.Pos{X: 1, Y: 1}).IsBlank())
	require.Equal(t, "v", dst.GetCellValue(pos.Pos{X: 5, Y: 5}).TextValue)
	require.Equal(t, dst.ID, undo.Moves[0].SourceSheetID)
	require.Equal(t, src.ID, undo.Moves[0].DestSheetID)
}
