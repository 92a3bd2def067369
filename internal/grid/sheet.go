// Package grid is the spreadsheet's data model: sheets, cell values, data
// tables, the formats/borders/merged-cells layers built on
// pkg/contiguous2d, and the Operations API that mutates them (spec §3,
// §4.3, §6).
package grid

import (
	"sort"

	"github.com/google/uuid"
	"github.com/quadratic-labs/gridcore/pkg/a1"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// ColumnHeader describes one column of a DataTable (spec §3
// "column_headers: name, visibility, virtual index").
type ColumnHeader struct {
	Name      string
	Display   bool
	ValueIdx  int64
}

// Sheet owns one sheet's cells, tables, and presentation layers (spec §3
// "Sheet: owns an ordered mapping from Pos to cell value...").
type Sheet struct {
	ID   string
	Name string

	cells  map[pos.Pos]CellValue
	tables map[pos.Pos]*DataTable

	Formats *SheetFormatting
	Borders *BordersLayer
	Merges  *MergedCells

	ColumnOffsets *offsetTable
	RowOffsets    *offsetTable

	// cellsAccessed maps a source cell to the set of code-cell anchors
	// whose last evaluation read it, so a write can decide which code
	// runs need re-execution (spec §9 "Ownership and cycles"; grounded
	// on original_source/grid/data_table/mod.rs's dependents tracking).
	cellsAccessed map[pos.Pos]map[pos.Pos]struct{}
}

// NewSheet constructs an empty sheet with a fresh UUID-derived id,
// using google/uuid-based handle allocation.
func NewSheet(name string) *Sheet {
	return &Sheet{
		ID:            uuid.NewString(),
		Name:          name,
		cells:         make(map[pos.Pos]CellValue),
		tables:        make(map[pos.Pos]*DataTable),
		Formats:       NewSheetFormatting(),
		Borders:       NewBordersLayer(),
		Merges:        NewMergedCells(),
		ColumnOffsets: newOffsetTable(defaultColumnWidth),
		RowOffsets:    newOffsetTable(defaultRowHeight),
		cellsAccessed: make(map[pos.Pos]map[pos.Pos]struct{}),
	}
}

const (
	defaultColumnWidth = 100.0
	defaultRowHeight   = 21.0
)

// GetCellValue returns the cell at p, or a Blank value if unset.
func (s *Sheet) GetCellValue(p pos.Pos) CellValue {
	if v, ok := s.cells[p]; ok {
		return v
	}
	return CellValue{Kind: Blank}
}

// SetCellValue stores v at p and returns the previous value (for undo).
// Storing a Blank value deletes the entry, keeping the map's size
// proportional to non-blank cells only.
func (s *Sheet) SetCellValue(p pos.Pos, v CellValue) CellValue {
	old := s.GetCellValue(p)
	if v.Kind == Blank {
		delete(s.cells, p)
	} else {
		s.cells[p] = v
	}
	return old
}

// NonBlankCellCount returns the number of cells with a stored (non-blank)
// value, used by bounds/extent queries.
func (s *Sheet) NonBlankCellCount() int { return len(s.cells) }

// CellPositions returns every non-blank cell position, sorted in
// row-major order for deterministic iteration (rendering, tests).
func (s *Sheet) CellPositions() []pos.Pos {
	out := make([]pos.Pos, 0, len(s.cells))
	for p := range s.cells {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Table returns the DataTable anchored at p, if any.
func (s *Sheet) Table(anchor pos.Pos) (*DataTable, bool) {
	t, ok := s.tables[anchor]
	return t, ok
}

// TableByName finds a table by name (case-insensitive, per spec §4.3
// uniqueness rule).
func (s *Sheet) TableByName(name string) (*DataTable, bool) {
	for _, t := range s.tables {
		if equalFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Tables returns every table on the sheet, keyed by anchor.
func (s *Sheet) Tables() map[pos.Pos]*DataTable { return s.tables }

// TableBounds implements a1.TableContext, letting the a1 package resolve
// `TableName[...]` references without importing internal/grid.
func (s *Sheet) TableBounds(name string) (pos.Rect, []string, bool, bool) {
	t, ok := s.TableByName(name)
	if !ok {
		return pos.Rect{}, nil, false, false
	}
	cols := make([]string, len(t.ColumnHeaders))
	for i, c := range t.ColumnHeaders {
		cols[i] = c.Name
	}
	return t.OutputRect(), cols, t.HeaderIsFirstRow, true
}

// MergedCellBounds implements a1.MergedCellsContext.
func (s *Sheet) MergedCellBounds(sheetID string, p pos.Pos) (pos.Rect, bool) {
	return s.Merges.BoundsContaining(p)
}

var _ a1.TableContext = (*Sheet)(nil)
var _ a1.MergedCellsContext = (*Sheet)(nil)

// RecordCellsAccessed registers that the code cell at anchor read every
// position in accessed during its last evaluation, replacing whatever it
// recorded previously.
func (s *Sheet) RecordCellsAccessed(anchor pos.Pos, accessed []pos.Pos) {
	s.ClearCellsAccessed(anchor)
	for _, p := range accessed {
		set, ok := s.cellsAccessed[p]
		if !ok {
			set = make(map[pos.Pos]struct{})
			s.cellsAccessed[p] = set
		}
		set[anchor] = struct{}{}
	}
}

// ClearCellsAccessed removes anchor from every source cell's dependent set.
func (s *Sheet) ClearCellsAccessed(anchor pos.Pos) {
	for src, set := range s.cellsAccessed {
		if _, ok := set[anchor]; ok {
			delete(set, anchor)
			if len(set) == 0 {
				delete(s.cellsAccessed, src)
			}
		}
	}
}

// DependentsOf returns the anchors of code cells that last read p, i.e.
// the set that must be re-evaluated after p changes.
func (s *Sheet) DependentsOf(p pos.Pos) []pos.Pos {
	set, ok := s.cellsAccessed[p]
	if !ok {
		return nil
	}
	out := make([]pos.Pos, 0, len(set))
	for anchor := range set {
		out = append(out, anchor)
	}
	return out
}

// Grid owns every sheet in the workbook and resolves sheet ids/names.
type Grid struct {
	sheets     map[string]*Sheet
	sheetOrder []string
}

// NewGrid constructs an empty grid.
func NewGrid() *Grid {
	return &Grid{sheets: make(map[string]*Sheet)}
}

// AddSheet creates and registers a new sheet, returning it.
func (g *Grid) AddSheet(name string) *Sheet {
	s := NewSheet(name)
	g.sheets[s.ID] = s
	g.sheetOrder = append(g.sheetOrder, s.ID)
	return s
}

// Sheet looks up a sheet by id.
func (g *Grid) Sheet(id string) (*Sheet, bool) {
	s, ok := g.sheets[id]
	return s, ok
}

// SheetByName looks up a sheet by name.
func (g *Grid) SheetByName(name string) (*Sheet, bool) {
	for _, id := range g.sheetOrder {
		if s := g.sheets[id]; s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// SheetIDs returns every sheet id in creation order.
func (g *Grid) SheetIDs() []string {
	out := make([]string, len(g.sheetOrder))
	copy(out, g.sheetOrder)
	return out
}

// RemoveSheet deletes a sheet by id.
func (g *Grid) RemoveSheet(id string) {
	delete(g.sheets, id)
	for i, sid := range g.sheetOrder {
		if sid == id {
			g.sheetOrder = append(g.sheetOrder[:i], g.sheetOrder[i+1:]...)
			break
		}
	}
}

// offsetTable stores non-default pixel sizes sparsely; unset indices use
// the default size (spec §4.3 "a columns/rows offset table for pixel
// geometry").
type offsetTable struct {
	defaultSize float64
	sizes       map[int64]float64
}

func newOffsetTable(defaultSize float64) *offsetTable {
	return &offsetTable{defaultSize: defaultSize, sizes: make(map[int64]float64)}
}

// Size returns the pixel size of index i (1-indexed column or row).
func (t *offsetTable) Size(i int64) float64 {
	if v, ok := t.sizes[i]; ok {
		return v
	}
	return t.defaultSize
}

// SetSize overrides the pixel size of index i.
func (t *offsetTable) SetSize(i int64, size float64) {
	if size == t.defaultSize {
		delete(t.sizes, i)
		return
	}
	t.sizes[i] = size
}

// Offset returns the pixel offset of the start of index i, i.e. the sum
// of sizes of every index before it (1-indexed).
func (t *offsetTable) Offset(i int64) float64 {
	if i <= 1 {
		return 0
	}
	// Indices with overridden sizes are sparse; walk only those below i
	// plus the uniform default contribution for everything else.
	total := float64(i-1) * t.defaultSize
	for idx, size := range t.sizes {
		if idx < i {
			total += size - t.defaultSize
		}
	}
	return total
}

// IndexAt returns the 1-indexed column/row whose span contains pixel
// offset px (linear walk from index 1, summing each index's size).
func (t *offsetTable) IndexAt(px float64) int64 {
	if px <= 0 {
		return 1
	}
	i := int64(1)
	offset := 0.0
	for {
		size := t.Size(i)
		if offset+size > px {
			return i
		}
		offset += size
		i++
		if i > pos.Unbounded/2 {
			return i
		}
	}
}
