package a1

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTables struct {
	bounds  pos.Rect
	columns []string
	headers bool
}

func (f fakeTables) TableBounds(name string) (pos.Rect, []string, bool, bool) {
	if name != "Orders" {
		return pos.Rect{}, nil, false, false
	}
	return f.bounds, f.columns, f.headers, true
}

type fakeMerges struct {
	regions []pos.Rect
}

func (f fakeMerges) MergedCellBounds(sheetID string, p pos.Pos) (pos.Rect, bool) {
	for _, r := range f.regions {
		if r.Contains(p) {
			return r, true
		}
	}
	return pos.Rect{}, false
}

func TestParseAndFormatRoundTrip(t *testing.T) {
	cases := []string{"A1", "A1:B2", "A:C", "1:3", "*"}
	for _, s := range cases {
		r, err := ParseRange(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, FormatRange(r), "round-trip for %q", s)
	}
}

func TestParseUnboundedBottomRight(t *testing.T) {
	r, err := ParseRange("A1:")
	require.NoError(t, err)
	require.Equal(t, KindSheet, r.Kind)
	rect := r.Sheet.ToRect()
	assert.Equal(t, pos.New(1, 1), rect.Min)
	assert.True(t, rect.IsUnbounded())
	assert.Equal(t, "A1:", FormatRange(r))
}

func TestParseTableReferences(t *testing.T) {
	cases := map[string]TableColumnKind{
		"Orders":               TableColumnAll,
		"Orders[Total]":        TableColumnSingle,
		"Orders[[A]:[B]]":      TableColumnRange,
		"Orders[#Headers]":     TableColumnAll,
		"Orders[#Data]":        TableColumnAll,
		"Orders[#All]":         TableColumnAll,
	}
	for s, wantKind := range cases {
		r, err := ParseRange(s)
		require.NoError(t, err, s)
		require.Equal(t, KindTable, r.Kind, s)
		assert.Equal(t, wantKind, r.Table.Columns.Kind, s)
	}
}

func TestTableRefToRectDataExcludesHeader(t *testing.T) {
	ctx := fakeTables{
		bounds:  pos.Rect{Min: pos.New(2, 2), Max: pos.New(4, 10)},
		columns: []string{"A", "B", "C"},
		headers: true,
	}
	r, err := ParseRange("Orders")
	require.NoError(t, err)
	rect, ok := r.ToRect(ctx)
	require.True(t, ok)
	assert.Equal(t, pos.New(2, 3), rect.Min) // header row skipped
	assert.Equal(t, pos.New(4, 10), rect.Max)

	all, err := ParseRange("Orders[#All]")
	require.NoError(t, err)
	rectAll, ok := all.ToRect(ctx)
	require.True(t, ok)
	assert.Equal(t, pos.New(2, 2), rectAll.Min)
}

func TestTableRefColumnRestriction(t *testing.T) {
	ctx := fakeTables{
		bounds:  pos.Rect{Min: pos.New(2, 2), Max: pos.New(4, 10)},
		columns: []string{"A", "B", "C"},
		headers: true,
	}
	r, err := ParseRange("Orders[B]")
	require.NoError(t, err)
	rect, ok := r.ToRect(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), rect.Min.X)
	assert.Equal(t, int64(3), rect.Max.X)
}

// TestAddOrRemoveColumnShape exercises spec example S4: selection `*`,
// remove column D, expect `A:C, E:` (two ranges).
func TestAddOrRemoveColumnShape(t *testing.T) {
	sel := A1Selection{SheetID: "s1", Ranges: []CellRefRange{SheetRange(All())}}
	out := sel.AddOrRemoveColumn(pos.ColumnIndex("D"), 1, nil)
	require.Len(t, out.Ranges, 2)
	r0 := out.Ranges[0].Sheet.ToRect()
	assert.Equal(t, int64(1), r0.Min.X)
	assert.Equal(t, int64(3), r0.Max.X)
	r1 := out.Ranges[1].Sheet.ToRect()
	assert.Equal(t, int64(5), r1.Min.X)
	assert.True(t, r1.IsUnbounded())
}

// TestSelectToMergedCellExpansion exercises spec example S5: a merged
// cell at A1:B2; select_to(C,3) should leave the rectangle unchanged at
// A1:C3, and a subsequent select_to(A,1) should snap back to A1:B2.
func TestSelectToMergedCellExpansion(t *testing.T) {
	merge := fakeMerges{regions: []pos.Rect{{Min: pos.New(1, 1), Max: pos.New(2, 2)}}}
	sel := A1Selection{
		SheetID: "s1",
		Cursor:  pos.New(1, 1),
		Ranges:  []CellRefRange{SheetRange(SingleCell(1, 1))},
	}
	sel = sel.SelectTo(3, 3, false, nil, merge)
	rect := sel.Ranges[0].Sheet.ToRect()
	assert.Equal(t, pos.New(1, 1), rect.Min)
	assert.Equal(t, pos.New(3, 3), rect.Max)

	sel = sel.SelectTo(1, 1, false, nil, merge)
	rect = sel.Ranges[0].Sheet.ToRect()
	assert.Equal(t, pos.New(1, 1), rect.Min)
	assert.Equal(t, pos.New(2, 2), rect.Max, "must not shrink below the anchor's merged cell")
}

// TestSelectToMergedCellShrinksAwayFromAnchor exercises the shrink branch
// of alignToMergedCells: anchor A1, a prior drag out to E5, and a merge
// cell at C3:D4 that does not touch the anchor. Dragging back to C3 must
// shrink the rectangle to exclude the partially-overlapped merge cell
// (clipping to just before it), not union with it and grow.
func TestSelectToMergedCellShrinksAwayFromAnchor(t *testing.T) {
	merge := fakeMerges{regions: []pos.Rect{{Min: pos.New(3, 3), Max: pos.New(4, 4)}}}
	sel := A1Selection{
		SheetID: "s1",
		Cursor:  pos.New(1, 1),
		Ranges:  []CellRefRange{SheetRange(SingleCell(1, 1))},
	}
	sel = sel.SelectTo(5, 5, false, nil, merge)
	rect := sel.Ranges[0].Sheet.ToRect()
	require.Equal(t, pos.New(1, 1), rect.Min)
	require.Equal(t, pos.New(5, 5), rect.Max)

	sel = sel.SelectTo(3, 3, false, nil, merge)
	rect = sel.Ranges[0].Sheet.ToRect()
	assert.Equal(t, pos.New(1, 1), rect.Min)
	assert.Equal(t, pos.New(2, 2), rect.Max, "must shrink to exclude the partially overlapped merge, not grow to include it")
}

// TestRectsSubsetOfRectsUnbounded is the property from spec §8.4.
func TestRectsSubsetOfRectsUnbounded(t *testing.T) {
	sel := A1Selection{
		SheetID: "s1",
		Ranges: []CellRefRange{
			SheetRange(NewRangeBounds(1, 1, 3, 3)),
			SheetRange(ColumnRange(5, 6)),
		},
	}
	finite := sel.Rects(nil)
	all := sel.RectsUnbounded(nil)
	require.Len(t, finite, 1)
	require.Len(t, all, 2)
	assert.Contains(t, all, finite[0])
}

func TestSelectAllAppend(t *testing.T) {
	sel := A1Selection{SheetID: "s1", Ranges: []CellRefRange{SheetRange(SingleCell(2, 2))}}
	sel = sel.SelectAll(true)
	rect := sel.Ranges[0].Sheet.ToRect()
	assert.Equal(t, pos.New(2, 2), rect.Min)
	assert.True(t, rect.IsUnbounded())
}

func TestContainsPos(t *testing.T) {
	sel := A1Selection{Ranges: []CellRefRange{SheetRange(NewRangeBounds(1, 1, 5, 5))}}
	assert.True(t, sel.ContainsPos(pos.New(3, 3), nil))
	assert.False(t, sel.ContainsPos(pos.New(6, 6), nil))
}
