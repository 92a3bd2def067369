package grid

import (
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// SortSpec orders a DataTable's rows by one or more columns.
type SortSpec struct {
	ColumnIndex int64
	Ascending   bool
}

// ChartOutput describes an HTML/image output's reserved footprint in
// cells (spec §3 "optional chart_output (width, height in cells)").
type ChartOutput struct {
	WidthCells  int64
	HeightCells int64
}

// DataTable is an array produced by a code run or import (spec §3, §4.3).
type DataTable struct {
	Name   string
	Anchor pos.Pos

	// Values is the 2D output array, row-major, including the header row
	// when HeaderIsFirstRow is true. A 1x1 table stores its single value
	// here too, prior to the degenerate-collapse check in Normalize.
	Values [][]CellValue

	HeaderIsFirstRow bool
	ColumnHeaders    []ColumnHeader

	Sort          []SortSpec
	DisplayBuffer []int64 // permutation of the data-row indices (header row excluded); nil if not sorted

	ShowName    bool
	ShowColumns bool

	SpillValue      bool
	SpillDataTable  bool
	SpillMergedCell bool

	Formats *SheetFormatting
	Borders *BordersLayer

	ChartOutput *ChartOutput

	SortDirty bool
}

// NewDataTable builds a table anchored at anchor from a 2D value array.
func NewDataTable(name string, anchor pos.Pos, values [][]CellValue) *DataTable {
	return &DataTable{
		Name:        name,
		Anchor:      anchor,
		Values:      values,
		ShowName:    true,
		ShowColumns: true,
	}
}

// Width returns the number of columns in the table's array.
func (t *DataTable) Width() int64 {
	if len(t.Values) == 0 {
		return 0
	}
	return int64(len(t.Values[0]))
}

// Height returns the number of rows in the table's array, including the
// header row when present.
func (t *DataTable) Height() int64 { return int64(len(t.Values)) }

// IsSpilled reports whether any spill flag is set.
func (t *DataTable) IsSpilled() bool {
	return t.SpillValue || t.SpillDataTable || t.SpillMergedCell
}

// OutputRect returns the table's full reserved rectangle, including UI
// rows (name row and column-header row) when they're shown and the table
// is not spilled — a spilled table renders (and therefore reserves) only
// its anchor cell (spec §4.3 point 3).
func (t *DataTable) OutputRect() pos.Rect {
	if t.IsSpilled() {
		return pos.Rect{Min: t.Anchor, Max: t.Anchor}
	}
	uiRows := int64(0)
	if t.ShowName {
		uiRows++
	}
	if t.ShowColumns && !t.HeaderIsFirstRow {
		uiRows++
	}
	w, h := t.Width(), t.Height()
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return pos.Rect{
		Min: t.Anchor,
		Max: pos.Pos{X: t.Anchor.X + w - 1, Y: t.Anchor.Y + uiRows + h - 1},
	}
}

// dataRowOffset returns how many leading rows of Values are header rows.
func (t *DataTable) dataRowOffset() int64 {
	if t.HeaderIsFirstRow {
		return 1
	}
	return 0
}

// ValueAt returns the cell at the table-local (col,row), honoring the
// display buffer's sort projection when present.
func (t *DataTable) ValueAt(col, row int64) CellValue {
	srcRow := row
	if t.DisplayBuffer != nil && row >= 0 && int(row) < len(t.DisplayBuffer) {
		srcRow = t.DisplayBuffer[row]
	}
	r := srcRow + t.dataRowOffset()
	if r < 0 || int(r) >= len(t.Values) || col < 0 || int(col) >= len(t.Values[r]) {
		return CellValue{Kind: Blank}
	}
	return t.Values[r][col]
}

// MarkArrayMutated sets SortDirty, per spec §4.3 point 4: "sort_dirty is
// set to true whenever its underlying array mutates."
func (t *DataTable) MarkArrayMutated() {
	t.SortDirty = true
}

// RebuildDisplayBuffer recomputes DisplayBuffer from Sort and clears
// SortDirty. Stable multi-key sort by column index, ascending/descending
// per spec, applied lazily "rebuilt lazily on next display" (spec §3).
func (t *DataTable) RebuildDisplayBuffer() {
	if len(t.Sort) == 0 {
		t.DisplayBuffer = nil
		t.SortDirty = false
		return
	}
	// Compare source rows, not rows projected through the previous buffer.
	t.DisplayBuffer = nil
	h := t.Height() - t.dataRowOffset()
	if h < 0 {
		h = 0
	}
	buf := make([]int64, h)
	for i := range buf {
		buf[i] = int64(i)
	}
	less := func(a, b int64) bool {
		for _, spec := range t.Sort {
			va := t.ValueAt(spec.ColumnIndex, a)
			vb := t.ValueAt(spec.ColumnIndex, b)
			c := compareCellValues(va, vb)
			if c == 0 {
				continue
			}
			if spec.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	}
	insertionSortInt64(buf, less)
	t.DisplayBuffer = buf
	t.SortDirty = false
}

func insertionSortInt64(buf []int64, less func(a, b int64) bool) {
	for i := 1; i < len(buf); i++ {
		for j := i; j > 0 && less(buf[j], buf[j-1]); j-- {
			buf[j], buf[j-1] = buf[j-1], buf[j]
		}
	}
}

func compareCellValues(a, b CellValue) int {
	if a.Kind == Number && b.Kind == Number {
		return a.NumberValue.Cmp(b.NumberValue)
	}
	if a.Kind == Text && b.Kind == Text {
		switch {
		case a.TextValue < b.TextValue:
			return -1
		case a.TextValue > b.TextValue:
			return 1
		default:
			return 0
		}
	}
	// Mixed-kind comparison: Blank sorts first, then by kind ordinal.
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	return 0
}

// spillObstruction classifies what, if anything, blocks a candidate
// output rectangle from rendering in full.
type spillObstruction int

const (
	noObstruction spillObstruction = iota
	obstructionValue
	obstructionDataTable
	obstructionMergedCell
)

// DetectSpill checks every non-anchor cell of candidateRect against the
// sheet for an obstruction and returns the classification (spec §4.3
// point 2-3). anchorException excludes the table's own anchor cell.
func DetectSpill(s *Sheet, anchorException pos.Pos, candidateRect pos.Rect) spillObstruction {
	for y := candidateRect.Min.Y; y <= candidateRect.Max.Y; y++ {
		for x := candidateRect.Min.X; x <= candidateRect.Max.X; x++ {
			p := pos.Pos{X: x, Y: y}
			if p == anchorException {
				continue
			}
			if !s.GetCellValue(p).IsBlank() {
				return obstructionValue
			}
			if _, ok := s.Table(p); ok {
				return obstructionDataTable
			}
			if _, ok := s.Merges.AnchorAt(p); ok {
				return obstructionMergedCell
			}
		}
	}
	return noObstruction
}

// ReserveTable establishes t's output rectangle on s, computing spill
// flags by probing the candidate (unspilled) rectangle for obstructions,
// then registers it in the sheet's table map at its anchor (spec §4.3
// points 1-3).
func ReserveTable(s *Sheet, t *DataTable) {
	t.SpillValue, t.SpillDataTable, t.SpillMergedCell = false, false, false

	candidate := t.unspilledOutputRect()
	switch DetectSpill(s, t.Anchor, candidate) {
	case obstructionValue:
		t.SpillValue = true
	case obstructionDataTable:
		t.SpillDataTable = true
	case obstructionMergedCell:
		t.SpillMergedCell = true
	}
	s.tables[t.Anchor] = t
	Degenerate(s, t)
}

func (t *DataTable) unspilledOutputRect() pos.Rect {
	uiRows := int64(0)
	if t.ShowName {
		uiRows++
	}
	if t.ShowColumns && !t.HeaderIsFirstRow {
		uiRows++
	}
	w, h := t.Width(), t.Height()
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return pos.Rect{
		Min: t.Anchor,
		Max: pos.Pos{X: t.Anchor.X + w - 1, Y: t.Anchor.Y + uiRows + h - 1},
	}
}

// Degenerate collapses a 1x1, error-free, chrome-free, non-spilled,
// non-HTML/image code table into a plain code-cell value, removing it
// from the table map (spec §4.3 point 5, §3 "degenerates into a plain
// code-cell value"). ExpandDegenerate performs the inverse on demand.
func Degenerate(s *Sheet, t *DataTable) {
	if t.Width() != 1 || t.Height() != 1 {
		return
	}
	if t.IsSpilled() || t.ShowName || t.ShowColumns || t.ChartOutput != nil {
		return
	}
	v := t.Values[0][0]
	if v.Kind == ErrorValue || v.Kind == Html || v.Kind == Image {
		return
	}
	delete(s.tables, t.Anchor)
	s.cells[t.Anchor] = v
}

// ExpandDegenerate is Degenerate's inverse: given a plain cell value that
// should now be backed by a 1x1 table (e.g. because a code run under it
// changed), re-creates the table entry.
func ExpandDegenerate(s *Sheet, anchor pos.Pos, name string) *DataTable {
	v := s.GetCellValue(anchor)
	t := NewDataTable(name, anchor, [][]CellValue{{v}})
	t.ShowName = false
	t.ShowColumns = false
	s.tables[anchor] = t
	delete(s.cells, anchor)
	return t
}
