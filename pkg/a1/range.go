package a1

import "github.com/quadratic-labs/gridcore/pkg/pos"

// TableColumnKind selects which columns of a table a TableRef restricts to.
type TableColumnKind int

const (
	TableColumnAll TableColumnKind = iota
	TableColumnSingle
	TableColumnRange
	TableColumnToEnd
)

// TableColumns is the column-restriction portion of a table reference:
// `Tbl[All]`, `Tbl[Col]`, `Tbl[[ColA]:[ColB]]`, `Tbl[[ColA]:]`.
type TableColumns struct {
	Kind TableColumnKind
	ColA string
	ColB string
}

// TableRef references a named Data Table, optionally restricted to a
// column or column span and to a section (headers/data/totals). A
// reference with no section flag set (a bare `TableName`) selects the
// table's data body, the same as Data.
type TableRef struct {
	TableName string
	Columns   TableColumns
	Headers   bool
	Data      bool
	Totals    bool
	All       bool
}

// TableContext maps a table name to its resolved layout so a TableRef can
// be converted to sheet-local bounds. Implemented by the grid package;
// a1 depends only on this interface to avoid an import cycle.
type TableContext interface {
	// TableBounds returns the table's anchor rectangle (including any
	// header/totals rows), its column names in order, and whether it has
	// a header row. ok is false if the table does not exist.
	TableBounds(name string) (anchor pos.Rect, columnNames []string, hasHeaders bool, ok bool)
}

// MergedCellsContext exposes merged-cell lookups for the current sheet.
// Implemented by the grid package's merged-cells layer.
type MergedCellsContext interface {
	// MergedCellBounds returns the full rectangle of the merged region
	// containing p, if any.
	MergedCellBounds(sheetID string, p pos.Pos) (pos.Rect, bool)
}

// ToRect resolves a table reference to a sheet-local rectangle using ctx.
// ok is false if the table is unknown or the column restriction names a
// column the table does not have.
func (t TableRef) ToRect(ctx TableContext) (pos.Rect, bool) {
	anchor, cols, hasHeaders, ok := ctx.TableBounds(t.TableName)
	if !ok {
		return pos.Rect{}, false
	}

	rect := anchor
	headerRows := int64(0)
	if hasHeaders {
		headerRows = 1
	}

	anyFlag := t.Headers || t.Data || t.Totals
	switch {
	case t.All:
		// The whole reserved rectangle including header/totals rows.
	case t.Headers && !t.Data && !t.Totals:
		if !hasHeaders {
			return pos.Rect{}, false
		}
		rect.Max.Y = rect.Min.Y
	case t.Totals && !t.Headers && !t.Data:
		rect.Min.Y = rect.Max.Y
	case !anyFlag || (t.Data && !t.Headers && !t.Totals):
		// Bare `TableName` (no section flags) selects the data body,
		// same as an explicit `[#Data]`.
		rect.Min.Y += headerRows
	default:
		rect.Min.Y += headerRows
	}

	if t.Columns.Kind == TableColumnAll {
		return rect, true
	}

	idxA, okA := columnIndex(cols, t.Columns.ColA)
	if !okA {
		return pos.Rect{}, false
	}
	idxB := idxA
	switch t.Columns.Kind {
	case TableColumnRange:
		b, okB := columnIndex(cols, t.Columns.ColB)
		if !okB {
			return pos.Rect{}, false
		}
		idxB = b
	case TableColumnToEnd:
		idxB = int64(len(cols)) - 1
	}
	if idxB < idxA {
		idxA, idxB = idxB, idxA
	}
	rect.Min.X = anchor.Min.X + idxA
	rect.Max.X = anchor.Min.X + idxB
	return rect, true
}

func columnIndex(cols []string, name string) (int64, bool) {
	for i, c := range cols {
		if c == name {
			return int64(i), true
		}
	}
	return 0, false
}

// RangeKind tags the CellRefRange union.
type RangeKind int

const (
	KindSheet RangeKind = iota
	KindTable
)

// CellRefRange is a single selection range: either sheet-local bounds or a
// table reference (spec §3, "Selection range (CellRefRange)").
type CellRefRange struct {
	Kind  RangeKind
	Sheet RefRangeBounds
	Table TableRef
}

// SheetRange wraps bounds as a sheet-kind CellRefRange.
func SheetRange(b RefRangeBounds) CellRefRange {
	return CellRefRange{Kind: KindSheet, Sheet: b}
}

// TableRangeOf wraps a table reference as a table-kind CellRefRange.
func TableRangeOf(t TableRef) CellRefRange {
	return CellRefRange{Kind: KindTable, Table: t}
}

// ToSheetBounds resolves r to sheet-local RefRangeBounds, converting a
// table reference via ctx. ok is false only for an unresolvable table
// reference; sheet ranges always resolve.
func (r CellRefRange) ToSheetBounds(ctx TableContext) (RefRangeBounds, bool) {
	if r.Kind == KindSheet {
		return r.Sheet, true
	}
	rect, ok := r.Table.ToRect(ctx)
	if !ok {
		return RefRangeBounds{}, false
	}
	return NewRangeBounds(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y), true
}

// ToRect resolves r directly to a pos.Rect, skipping tables that cannot be
// resolved (ok is false in that case).
func (r CellRefRange) ToRect(ctx TableContext) (pos.Rect, bool) {
	b, ok := r.ToSheetBounds(ctx)
	if !ok {
		return pos.Rect{}, false
	}
	return b.ToRect(), true
}

// IsUnbounded reports whether the range (once resolved to sheet bounds)
// extends to infinity on any axis. Table ranges are always finite.
func (r CellRefRange) IsUnbounded() bool {
	return r.Kind == KindSheet && r.Sheet.IsUnbounded()
}
