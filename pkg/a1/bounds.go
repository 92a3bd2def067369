// Package a1 implements the A1 reference and selection algebra: parsing and
// formatting of spreadsheet addresses, range containment and enumeration,
// merged-cell-aware rectangle expansion, and the selection mutation
// operators used by a UI layer (select-to, add-or-remove-column, and
// friends). See spec §4.2.
package a1

import "github.com/quadratic-labs/gridcore/pkg/pos"

// ColRef is one column endpoint of a range: either a concrete 1-indexed
// column (optionally $-absolute for formula-reference adjustment) or the
// unbounded sentinel ("extends to infinity" in whichever direction this
// endpoint sits).
type ColRef struct {
	Col       int64
	Abs       bool
	Unbounded bool
}

// RowRef is the row analogue of ColRef.
type RowRef struct {
	Row       int64
	Abs       bool
	Unbounded bool
}

// CellRef is one endpoint (start or end) of a RefRangeBounds.
type CellRef struct {
	Col ColRef
	Row RowRef
}

// RefRangeBounds is a single sheet-local range: a single cell iff Start ==
// End and neither component is unbounded; a column range iff both rows are
// unbounded; a row range iff both columns are unbounded; otherwise a
// rectangle.
type RefRangeBounds struct {
	Start CellRef
	End   CellRef
}

// SingleCell builds a RefRangeBounds covering exactly one cell.
func SingleCell(col, row int64) RefRangeBounds {
	ref := CellRef{Col: ColRef{Col: col}, Row: RowRef{Row: row}}
	return RefRangeBounds{Start: ref, End: ref}
}

// NewRangeBounds builds a rectangular, fully-bounded range from two corners
// (order-insensitive; ToRect normalizes).
func NewRangeBounds(x1, y1, x2, y2 int64) RefRangeBounds {
	return RefRangeBounds{
		Start: CellRef{Col: ColRef{Col: x1}, Row: RowRef{Row: y1}},
		End:   CellRef{Col: ColRef{Col: x2}, Row: RowRef{Row: y2}},
	}
}

// ColumnRange builds a range spanning columns [x1,x2] and all rows.
func ColumnRange(x1, x2 int64) RefRangeBounds {
	return RefRangeBounds{
		Start: CellRef{Col: ColRef{Col: x1}, Row: RowRef{Unbounded: true}},
		End:   CellRef{Col: ColRef{Col: x2}, Row: RowRef{Unbounded: true}},
	}
}

// RowRangeBounds builds a range spanning rows [y1,y2] and all columns.
func RowRangeBounds(y1, y2 int64) RefRangeBounds {
	return RefRangeBounds{
		Start: CellRef{Col: ColRef{Unbounded: true}, Row: RowRef{Row: y1}},
		End:   CellRef{Col: ColRef{Unbounded: true}, Row: RowRef{Row: y2}},
	}
}

// All is the `*` range: every cell on the sheet.
func All() RefRangeBounds {
	return RefRangeBounds{
		Start: CellRef{Col: ColRef{Col: 1}, Row: RowRef{Row: 1}},
		End:   CellRef{Col: ColRef{Unbounded: true}, Row: RowRef{Unbounded: true}},
	}
}

// IsSingleCell reports whether the range denotes exactly one cell.
func (b RefRangeBounds) IsSingleCell() bool {
	return !b.Start.Col.Unbounded && !b.Start.Row.Unbounded &&
		!b.End.Col.Unbounded && !b.End.Row.Unbounded &&
		b.Start.Col.Col == b.End.Col.Col && b.Start.Row.Row == b.End.Row.Row
}

// IsColumnRange reports whether both endpoints' rows are unbounded (the
// range selects whole columns).
func (b RefRangeBounds) IsColumnRange() bool {
	return b.Start.Row.Unbounded && b.End.Row.Unbounded
}

// IsRowRange reports whether both endpoints' columns are unbounded (the
// range selects whole rows).
func (b RefRangeBounds) IsRowRange() bool {
	return b.Start.Col.Unbounded && b.End.Col.Unbounded
}

// IsUnbounded reports whether any endpoint extends to infinity.
func (b RefRangeBounds) IsUnbounded() bool {
	return b.Start.Col.Unbounded || b.Start.Row.Unbounded || b.End.Col.Unbounded || b.End.Row.Unbounded
}

func colValueAt(c ColRef, isStart bool) int64 {
	if !c.Unbounded {
		return c.Col
	}
	if isStart {
		return 1
	}
	return pos.Unbounded
}

func rowValueAt(r RowRef, isStart bool) int64 {
	if !r.Unbounded {
		return r.Row
	}
	if isStart {
		return 1
	}
	return pos.Unbounded
}

// ToRect resolves the range to a normalized pos.Rect, unbounded endpoints
// mapping to pos.Unbounded.
func (b RefRangeBounds) ToRect() pos.Rect {
	x1 := colValueAt(b.Start.Col, true)
	y1 := rowValueAt(b.Start.Row, true)
	x2 := colValueAt(b.End.Col, false)
	y2 := rowValueAt(b.End.Row, false)
	return pos.NewRect(pos.New(x1, y1), pos.New(x2, y2))
}

// Contains reports whether p falls within the range.
func (b RefRangeBounds) Contains(p pos.Pos) bool {
	return b.ToRect().Contains(p)
}

// Translate shifts every bounded endpoint by (dx, dy); unbounded endpoints
// are left untouched since "extends to infinity" has no position to shift.
func (b RefRangeBounds) Translate(dx, dy int64) RefRangeBounds {
	out := b
	if !out.Start.Col.Unbounded {
		out.Start.Col.Col += dx
	}
	if !out.Start.Row.Unbounded {
		out.Start.Row.Row += dy
	}
	if !out.End.Col.Unbounded {
		out.End.Col.Col += dx
	}
	if !out.End.Row.Unbounded {
		out.End.Row.Row += dy
	}
	return out
}

// WithEnd returns a copy of b with its End endpoint replaced.
func (b RefRangeBounds) WithEnd(end CellRef) RefRangeBounds {
	out := b
	out.End = end
	return out
}

// Reversed swaps Start and End.
func (b RefRangeBounds) Reversed() RefRangeBounds {
	return RefRangeBounds{Start: b.End, End: b.Start}
}
