package grid

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decimalFortyTwo() decimal.Decimal { return decimal.NewFromInt(42) }
func decimalFromInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func vals(rows ...[]string) [][]CellValue {
	out := make([][]CellValue, len(rows))
	for i, row := range rows {
		out[i] = make([]CellValue, len(row))
		for j, v := range row {
			out[i][j] = NewText(v)
		}
	}
	return out
}

func TestDataTableWidthHeight(t *testing.T) {
	tbl := NewDataTable("T", pos.Pos{X: 1, Y: 1}, vals([]string{"a", "b"}, []string{"c", "d"}))
	require.Equal(t, int64(2), tbl.Width())
	require.Equal(t, int64(2), tbl.Height())
}

func TestReserveTableNoObstruction(t *testing.T) {
	s := NewSheet("Sheet1")
	tbl := NewDataTable("T", pos.Pos{X: 1, Y: 1}, vals([]string{"a"}, []string{"b"}))
	ReserveTable(s, tbl)

	require.False(t, tbl.IsSpilled())
	got, ok := s.Table(pos.Pos{X: 1, Y: 1})
	require.True(t, ok)
	require.Same(t, tbl, got)
}

func TestReserveTableValueObstruction(t *testing.T) {
	s := NewSheet("Sheet1")
	// Occupy a non-anchor cell of the table's output rectangle (the
	// column-header row below the name row).
	s.SetCellValue(pos.Pos{X: 1, Y: 2}, NewText("blocker"))

	tbl := NewDataTable("T", pos.Pos{X: 1, Y: 1}, vals([]string{"a"}))
	ReserveTable(s, tbl)

	require.True(t, tbl.SpillValue)
	require.True(t, tbl.IsSpilled())
	// A spilled table reserves only its anchor cell.
	require.Equal(t, pos.Rect{Min: tbl.Anchor, Max: tbl.Anchor}, tbl.OutputRect())
}

func TestDegenerateCollapsesOneByOneTable(t *testing.T) {
	s := NewSheet("Sheet1")
	tbl := NewDataTable("T", pos.Pos{X: 3, Y: 3}, [][]CellValue{{NewNumber(decimalFortyTwo())}})
	tbl.ShowName = false
	tbl.ShowColumns = false
	ReserveTable(s, tbl)

	_, stillTable := s.Table(pos.Pos{X: 3, Y: 3})
	require.False(t, stillTable, "1x1 chrome-free table should degenerate into a plain cell")
	require.True(t, s.GetCellValue(pos.Pos{X: 3, Y: 3}).Equal(NewNumber(decimalFortyTwo())))
}

func TestExpandDegenerateRestoresTable(t *testing.T) {
	s := NewSheet("Sheet1")
	anchor := pos.Pos{X: 1, Y: 1}
	s.SetCellValue(anchor, NewNumber(decimalFortyTwo()))

	tbl := ExpandDegenerate(s, anchor, "T")
	require.Equal(t, int64(1), tbl.Width())
	require.True(t, s.GetCellValue(anchor).IsBlank())
	got, ok := s.Table(anchor)
	require.True(t, ok)
	require.Same(t, tbl, got)
}

func TestRebuildDisplayBufferSortsAscending(t *testing.T) {
	tbl := NewDataTable("T", pos.Pos{X: 1, Y: 1}, [][]CellValue{
		{NewNumber(decimalFromInt(3))},
		{NewNumber(decimalFromInt(1))},
		{NewNumber(decimalFromInt(2))},
	})
	tbl.Sort = []SortSpec{{ColumnIndex: 0, Ascending: true}}
	tbl.MarkArrayMutated()
	require.True(t, tbl.SortDirty)

	tbl.RebuildDisplayBuffer()
	require.False(t, tbl.SortDirty)
	require.Equal(t, []int64{1, 2, 0}, tbl.DisplayBuffer)

	require.True(t, tbl.ValueAt(0, 0).Equal(NewNumber(decimalFromInt(1))))
	require.True(t, tbl.ValueAt(0, 1).Equal(NewNumber(decimalFromInt(2))))
	require.True(t, tbl.ValueAt(0, 2).Equal(NewNumber(decimalFromInt(3))))
}

func TestDetectSpillMergedCellObstruction(t *testing.T) {
	s := NewSheet("Sheet1")
	s.Merges.Merge(pos.Rect{Min: pos.Pos{X: 1, Y: 2}, Max: pos.Pos{X: 2, Y: 2}})

	got := DetectSpill(s, pos.Pos{X: 1, Y: 1}, pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 2, Y: 2}})
	require.Equal(t, obstructionMergedCell, got)
}
