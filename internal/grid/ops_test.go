package grid

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/require"
)

func newTestGrid() (*Grid, *Sheet) {
	g := NewGrid()
	s := g.AddSheet("Sheet1")
	return g, s
}

func TestApplySetCellValuesAndUndo(t *testing.T) {
	g, s := newTestGrid()
	p := pos.Pos{X: 1, Y: 1}

	op := Operation{Kind: OpSetCellValues, SheetID: s.ID, SetCellValues: []CellWrite{{Pos: p, Value: NewText("x")}}}
	undo, dirty, err := Apply(g, op)
	require.NoError(t, err)
	require.Equal(t, "x", s.GetCellValue(p).TextValue)
	require.Equal(t, []pos.Pos{p}, dirty.Cells)

	redo, err := ApplyUndo(g, undo)
	require.NoError(t, err)
	require.True(t, s.GetCellValue(p).IsBlank())

	_, err = ApplyUndo(g, redo)
	require.NoError(t, err)
	require.Equal(t, "x", s.GetCellValue(p).TextValue)
}

func TestApplySetCellValuesRejectsEmpty(t *testing.T) {
	g, s := newTestGrid()
	_, _, err := Apply(g, Operation{Kind: OpSetCellValues, SheetID: s.ID})
	require.Error(t, err)
}

func TestApplySetFormatsUndo(t *testing.T) {
	g, s := newTestGrid()
	bold := true
	x2 := int64(2)
	op := Operation{Kind: OpSetFormats, SheetID: s.ID, SetFormats: FormatWrite{X1: 1, Y1: 1, X2: &x2, Y2: &x2, Bold: &bold}}

	undo, _, err := Apply(g, op)
	require.NoError(t, err)
	require.True(t, s.Formats.At(pos.Pos{X: 1, Y: 1}).Bold)
	require.True(t, s.Formats.At(pos.Pos{X: 2, Y: 2}).Bold)

	_, err = ApplyUndo(g, undo)
	require.NoError(t, err)
	require.False(t, s.Formats.At(pos.Pos{X: 1, Y: 1}).Bold)
}

func TestApplyInsertAndDeleteColumnRoundTrip(t *testing.T) {
	g, s := newTestGrid()
	s.SetCellValue(pos.Pos{X: 1, Y: 1}, NewText("keep-left"))
	s.SetCellValue(pos.Pos{X: 2, Y: 1}, NewText("shift-right"))

	insUndo, _, err := Apply(g, Operation{Kind: OpInsertColumn, SheetID: s.ID, InsertAt: 2})
	require.NoError(t, err)
	require.Equal(t, "keep-left", s.GetCellValue(pos.Pos{X: 1, Y: 1}).TextValue)
	require.True(t, s.GetCellValue(pos.Pos{X: 2, Y: 1}).IsBlank())
	require.Equal(t, "shift-right", s.GetCellValue(pos.Pos{X: 3, Y: 1}).TextValue)

	_, err = ApplyUndo(g, insUndo)
	require.NoError(t, err)
	require.Equal(t, "shift-right", s.GetCellValue(pos.Pos{X: 2, Y: 1}).TextValue)

	delUndo, _, err := Apply(g, Operation{Kind: OpDeleteColumn, SheetID: s.ID, DeleteAt: 2})
	require.NoError(t, err)
	require.True(t, s.GetCellValue(pos.Pos{X: 2, Y: 1}).IsBlank())

	_, err = ApplyUndo(g, delUndo)
	require.NoError(t, err)
	require.Equal(t, "shift-right", s.GetCellValue(pos.Pos{X: 2, Y: 1}).TextValue, "deleted column's values must be restored on undo")
}

func TestApplyInsertAndDeleteRowRoundTrip(t *testing.T) {
	g, s := newTestGrid()
	s.SetCellValue(pos.Pos{X: 1, Y: 2}, NewText("row2"))

	delUndo, _, err := Apply(g, Operation{Kind: OpDeleteRow, SheetID: s.ID, DeleteAt: 2})
	require.NoError(t, err)
	require.True(t, s.GetCellValue(pos.Pos{X: 1, Y: 2}).IsBlank())

	_, err = ApplyUndo(g, delUndo)
	require.NoError(t, err)
	require.Equal(t, "row2", s.GetCellValue(pos.Pos{X: 1, Y: 2}).TextValue)
}

func TestApplyRejectsUnknownSheet(t *testing.T) {
	g := NewGrid()
	_, _, err := Apply(g, Operation{Kind: OpSetCellValues, SheetID: "missing"})
	require.Error(t, err)
}

func TestApplyMoveCellsBatchViaGrid(t *testing.T) {
	g, s := newTestGrid()
	s.SetCellValue(pos.Pos{X: 1, Y: 1}, NewText("m"))

	op := Operation{
		Kind:    OpMoveCellsBatch,
		SheetID: s.ID,
		Moves: []CellMove{{
			SourceSheetID: s.ID,
			Source:        pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 1, Y: 1}},
			DestSheetID:   s.ID,
			DestAnchor:    pos.Pos{X: 4, Y: 4},
		}},
	}
	undo, _, err := Apply(g, op)
	require.NoError(t, err)
	require.Equal(t, "m", s.GetCellValue(pos.Pos{X: 4, Y: 4}).TextValue)

	_, err = ApplyUndo(g, undo)
	require.NoError(t, err)
	require.Equal(t, "m", s.GetCellValue(pos.Pos{X: 1, Y: 1}).TextValue)
}

func TestApplySetCodeRunDegeneratesAndUndoes(t *testing.T) {
	g, s := newTestGrid()
	anchor := pos.Pos{X: 1, Y: 1}
	tbl := NewDataTable("T", anchor, [][]CellValue{{NewNumber(decimalFortyTwo())}})
	tbl.ShowName, tbl.ShowColumns = false, false

	undo, _, err := Apply(g, Operation{Kind: OpSetCodeRun, SheetID: s.ID, CodeAnchor: anchor, CodeTable: tbl})
	require.NoError(t, err)
	_, stillTable := s.Table(anchor)
	require.False(t, stillTable, "1x1 chrome-free result degenerates into a plain cell")
	require.True(t, s.GetCellValue(anchor).Equal(NewNumber(decimalFortyTwo())))

	_, err = ApplyUndo(g, undo)
	require.NoError(t, err)
	require.True(t, s.GetCellValue(anchor).IsBlank())
	_, hadTable := s.Table(anchor)
	require.False(t, hadTable)
}
