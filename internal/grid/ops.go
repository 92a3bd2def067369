package grid

import (
	"github.com/quadratic-labs/gridcore/pkg/contiguous2d"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// OpKind tags the Operation union (spec §6 "Operations API").
type OpKind int

const (
	OpSetCellValues OpKind = iota
	OpSetFormats
	OpInsertColumn
	OpInsertRow
	OpDeleteColumn
	OpDeleteRow
	OpMoveCellsBatch
	OpSetCodeRun
)

// CellWrite is one (position, value) pair within an OpSetCellValues.
type CellWrite struct {
	Pos   pos.Pos
	Value CellValue
}

// FormatWrite is one rectangular formats write within an OpSetFormats.
type FormatWrite struct {
	X1, Y1 int64
	X2, Y2 *int64
	Bold, Italic, Wrap *bool
	FillColor          *string
	NumericFormat      *string
}

// Operation is a tagged variant carrying one mutating request against a
// sheet (spec §6). Operations are applied synchronously and atomically:
// a malformed operation produces no mutation and no undo entry (spec §7).
type Operation struct {
	Kind OpKind

	SheetID string

	SetCellValues []CellWrite
	SetFormats    FormatWrite
	InsertAt      int64
	CopyFormats   contiguous2d.CopyFormats
	DeleteAt      int64
	Moves         []CellMove
	CodeAnchor    pos.Pos
	CodeTable     *DataTable
}

// UndoOperation is the reverse of one applied Operation.
type UndoOperation struct {
	Kind OpKind

	SheetID string

	PriorCellValues []CellWrite
	FormatUndo       FormatUndo
	RemovedAt        int64 // for undoing an insert: remove this column/row
	InsertedAt       int64 // for undoing a delete: re-insert at this column/row
	ColumnUndo       *contiguous2d.Contiguous2D[CellValue]
	Moves            []CellMove
	PriorCodeAnchor  pos.Pos
	PriorCodeTable   *DataTable
	HadCodeTable     bool
}

// DirtyHints tells the render layer what to reconsider after an
// operation (spec §4.5 "dirty flags" / §6 "a set of render-relevant
// dirty hints").
type DirtyHints struct {
	SheetID      string
	Cells        []pos.Pos
	GridLines    bool
	Headings     bool
	Cursor       bool
}

// Apply executes op against grid, returning its undo and dirty hints, or
// a griderr.Error with no mutation performed (spec §7: a rejected
// operation is fatal to the operation, not the grid).
func Apply(g *Grid, op Operation) (UndoOperation, DirtyHints, error) {
	sheet, ok := g.Sheet(op.SheetID)
	if !ok {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.InvalidSheet, "")
	}

	switch op.Kind {
	case OpSetCellValues:
		return applySetCellValues(sheet, op)
	case OpSetFormats:
		return applySetFormats(sheet, op)
	case OpInsertColumn:
		return applyInsertColumn(sheet, op)
	case OpDeleteColumn:
		return applyDeleteColumn(sheet, op)
	case OpInsertRow:
		return applyInsertRow(sheet, op)
	case OpDeleteRow:
		return applyDeleteRow(sheet, op)
	case OpMoveCellsBatch:
		return applyMoveCellsBatch(g, op)
	case OpSetCodeRun:
		return applySetCodeRun(sheet, op)
	default:
		return UndoOperation{}, DirtyHints{}, griderr.Newf(griderr.Validation, "unknown operation kind %d", op.Kind)
	}
}

func applySetCellValues(sheet *Sheet, op Operation) (UndoOperation, DirtyHints, error) {
	if len(op.SetCellValues) == 0 {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.Validation, "no cell writes supplied")
	}
	for _, w := range op.SetCellValues {
		if !w.Pos.Valid() {
			return UndoOperation{}, DirtyHints{}, griderr.Newf(griderr.OperationRejected, "invalid position %+v", w.Pos)
		}
	}
	prior := make([]CellWrite, 0, len(op.SetCellValues))
	dirty := make([]pos.Pos, 0, len(op.SetCellValues))
	for _, w := range op.SetCellValues {
		old := sheet.SetCellValue(w.Pos, w.Value)
		prior = append(prior, CellWrite{Pos: w.Pos, Value: old})
		dirty = append(dirty, w.Pos)
		for _, dep := range sheet.DependentsOf(w.Pos) {
			if t, ok := sheet.Table(dep); ok {
				t.MarkArrayMutated()
			}
		}
	}
	return UndoOperation{Kind: OpSetCellValues, SheetID: sheet.ID, PriorCellValues: prior},
		DirtyHints{SheetID: sheet.ID, Cells: dirty}, nil
}

func applySetFormats(sheet *Sheet, op Operation) (UndoOperation, DirtyHints, error) {
	w := op.SetFormats
	if w.X1 < 1 || w.Y1 < 1 {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.OperationRejected, "format rectangle must start at a valid position")
	}
	var undo FormatUndo
	if w.Bold != nil {
		undo.Bold = sheet.Formats.SetBold(w.X1, w.Y1, w.X2, w.Y2, *w.Bold)
	}
	if w.Italic != nil {
		undo.Italic = sheet.Formats.SetItalic(w.X1, w.Y1, w.X2, w.Y2, *w.Italic)
	}
	if w.Wrap != nil {
		undo.Wrap = sheet.Formats.Wrap.SetRect(w.X1, w.Y1, w.X2, w.Y2, *w.Wrap)
	}
	if w.FillColor != nil {
		undo.FillColor = sheet.Formats.SetFillColor(w.X1, w.Y1, w.X2, w.Y2, *w.FillColor)
	}
	if w.NumericFormat != nil {
		undo.NumericFormat = sheet.Formats.SetNumericFormat(w.X1, w.Y1, w.X2, w.Y2, *w.NumericFormat)
	}
	return UndoOperation{Kind: OpSetFormats, SheetID: sheet.ID, FormatUndo: undo},
		DirtyHints{SheetID: sheet.ID, GridLines: true}, nil
}

func applyInsertColumn(sheet *Sheet, op Operation) (UndoOperation, DirtyHints, error) {
	if op.InsertAt < 1 {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.OperationRejected, "column index must be >= 1")
	}
	shiftCellsForInsert(sheet, op.InsertAt, true)
	sheet.Formats.insertColumnAll(op.InsertAt, op.CopyFormats)
	sheet.Borders.insertColumnAll(op.InsertAt)
	sheet.Merges.anchors.InsertColumn(op.InsertAt, contiguous2d.CopyFormatsNone)
	return UndoOperation{Kind: OpDeleteColumn, SheetID: sheet.ID, RemovedAt: op.InsertAt},
		DirtyHints{SheetID: sheet.ID, GridLines: true, Headings: true}, nil
}

func applyDeleteColumn(sheet *Sheet, op Operation) (UndoOperation, DirtyHints, error) {
	if op.DeleteAt < 1 {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.OperationRejected, "column index must be >= 1")
	}
	colUndo := shiftCellsForRemove(sheet, op.DeleteAt, true)
	sheet.Formats.removeColumnAll(op.DeleteAt)
	sheet.Borders.removeColumnAll(op.DeleteAt)
	sheet.Merges.anchors.RemoveColumn(op.DeleteAt)
	return UndoOperation{Kind: OpInsertColumn, SheetID: sheet.ID, InsertedAt: op.DeleteAt, ColumnUndo: colUndo},
		DirtyHints{SheetID: sheet.ID, GridLines: true, Headings: true}, nil
}

func applyInsertRow(sheet *Sheet, op Operation) (UndoOperation, DirtyHints, error) {
	if op.InsertAt < 1 {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.OperationRejected, "row index must be >= 1")
	}
	shiftCellsForInsert(sheet, op.InsertAt, false)
	sheet.Formats.insertRowAll(op.InsertAt, op.CopyFormats)
	sheet.Borders.insertRowAll(op.InsertAt)
	sheet.Merges.anchors.InsertRow(op.InsertAt, contiguous2d.CopyFormatsNone)
	return UndoOperation{Kind: OpDeleteRow, SheetID: sheet.ID, RemovedAt: op.InsertAt},
		DirtyHints{SheetID: sheet.ID, GridLines: true, Headings: true}, nil
}

func applyDeleteRow(sheet *Sheet, op Operation) (UndoOperation, DirtyHints, error) {
	if op.DeleteAt < 1 {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.OperationRejected, "row index must be >= 1")
	}
	colUndo := shiftCellsForRemove(sheet, op.DeleteAt, false)
	sheet.Formats.removeRowAll(op.DeleteAt)
	sheet.Borders.removeRowAll(op.DeleteAt)
	sheet.Merges.anchors.RemoveRow(op.DeleteAt)
	return UndoOperation{Kind: OpInsertRow, SheetID: sheet.ID, InsertedAt: op.DeleteAt, ColumnUndo: colUndo},
		DirtyHints{SheetID: sheet.ID, GridLines: true, Headings: true}, nil
}

func applyMoveCellsBatch(g *Grid, op Operation) (UndoOperation, DirtyHints, error) {
	if len(op.Moves) == 0 {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.Validation, "no moves supplied")
	}
	sheets := make(map[string]*Sheet)
	for _, id := range g.SheetIDs() {
		s, _ := g.Sheet(id)
		sheets[id] = s
	}
	undo := MoveCellsBatch(sheets, op.Moves)
	return UndoOperation{Kind: OpMoveCellsBatch, Moves: undo.Moves},
		DirtyHints{SheetID: op.SheetID, GridLines: true}, nil
}

func applySetCodeRun(sheet *Sheet, op Operation) (UndoOperation, DirtyHints, error) {
	if !op.CodeAnchor.Valid() {
		return UndoOperation{}, DirtyHints{}, griderr.New(griderr.OperationRejected, "invalid code anchor")
	}
	priorTable, hadTable := sheet.Table(op.CodeAnchor)
	priorCellValue := sheet.GetCellValue(op.CodeAnchor)

	delete(sheet.tables, op.CodeAnchor)
	sheet.SetCellValue(op.CodeAnchor, CellValue{Kind: Blank})
	if op.CodeTable != nil {
		op.CodeTable.Anchor = op.CodeAnchor
		ReserveTable(sheet, op.CodeTable)
	}

	u := UndoOperation{Kind: OpSetCodeRun, SheetID: sheet.ID, PriorCodeAnchor: op.CodeAnchor, HadCodeTable: hadTable}
	if hadTable {
		u.PriorCodeTable = priorTable
	} else {
		u.PriorCellValues = []CellWrite{{Pos: op.CodeAnchor, Value: priorCellValue}}
	}
	return u, DirtyHints{SheetID: sheet.ID, Cells: []pos.Pos{op.CodeAnchor}}, nil
}

// shiftCellsForInsert moves every cell value at index >= at up by one
// along the given axis, leaving a blank gap at at.
func shiftCellsForInsert(sheet *Sheet, at int64, column bool) {
	moved := make(map[pos.Pos]CellValue)
	for _, p := range sheet.CellPositions() {
		idx := p.X
		if !column {
			idx = p.Y
		}
		if idx < at {
			continue
		}
		v := sheet.GetCellValue(p)
		sheet.SetCellValue(p, CellValue{Kind: Blank})
		np := p
		if column {
			np.X++
		} else {
			np.Y++
		}
		moved[np] = v
	}
	for p, v := range moved {
		sheet.SetCellValue(p, v)
	}
}

// shiftCellsForRemove removes every cell at index == at and shifts every
// cell at index > at down by one, returning the removed column/row's
// prior cell values as a plain position-keyed Contiguous2D snapshot
// (restored directly on undo, rather than via the diff-based SetFrom
// contract, since re-inserting a column has no "prior state" to diff
// against).
func shiftCellsForRemove(sheet *Sheet, at int64, column bool) *contiguous2d.Contiguous2D[CellValue] {
	removed := contiguous2d.New[CellValue]()
	moved := make(map[pos.Pos]CellValue)
	var toClear []pos.Pos
	for _, p := range sheet.CellPositions() {
		idx := p.X
		if !column {
			idx = p.Y
		}
		switch {
		case idx == at:
			v := sheet.GetCellValue(p)
			x2, y2 := p.X, p.Y
			removed.SetRect(p.X, p.Y, &x2, &y2, v)
			toClear = append(toClear, p)
		case idx > at:
			v := sheet.GetCellValue(p)
			toClear = append(toClear, p)
			np := p
			if column {
				np.X--
			} else {
				np.Y--
			}
			moved[np] = v
		}
	}
	for _, p := range toClear {
		sheet.SetCellValue(p, CellValue{Kind: Blank})
	}
	for p, v := range moved {
		sheet.SetCellValue(p, v)
	}
	return removed
}

// ApplyUndo reverses a previously applied operation, mutating g and
// returning a redo UndoOperation that reverses the reversal (spec §7
// "operations carry their own undo; undo/redo forms a stack of
// Operation/UndoOperation pairs").
func ApplyUndo(g *Grid, u UndoOperation) (UndoOperation, error) {
	var sheet *Sheet
	if u.Kind != OpMoveCellsBatch {
		s, ok := g.Sheet(u.SheetID)
		if !ok {
			return UndoOperation{}, griderr.New(griderr.InvalidSheet, "")
		}
		sheet = s
	}

	switch u.Kind {
	case OpSetCellValues:
		redo := make([]CellWrite, 0, len(u.PriorCellValues))
		for _, w := range u.PriorCellValues {
			old := sheet.SetCellValue(w.Pos, w.Value)
			redo = append(redo, CellWrite{Pos: w.Pos, Value: old})
		}
		return UndoOperation{Kind: OpSetCellValues, SheetID: sheet.ID, PriorCellValues: redo}, nil

	case OpSetFormats:
		var redo FormatUndo
		fu := u.FormatUndo
		if fu.Bold != nil {
			redo.Bold = sheet.Formats.Bold.SetFrom(fu.Bold)
		}
		if fu.Italic != nil {
			redo.Italic = sheet.Formats.Italic.SetFrom(fu.Italic)
		}
		if fu.Wrap != nil {
			redo.Wrap = sheet.Formats.Wrap.SetFrom(fu.Wrap)
		}
		if fu.FillColor != nil {
			redo.FillColor = sheet.Formats.FillColor.SetFrom(fu.FillColor)
		}
		if fu.NumericFormat != nil {
			redo.NumericFormat = sheet.Formats.NumericFormat.SetFrom(fu.NumericFormat)
		}
		return UndoOperation{Kind: OpSetFormats, SheetID: sheet.ID, FormatUndo: redo}, nil

	case OpDeleteColumn:
		// Reverses an insert: delete the column that was inserted.
		colUndo := shiftCellsForRemove(sheet, u.RemovedAt, true)
		sheet.Formats.removeColumnAll(u.RemovedAt)
		sheet.Borders.removeColumnAll(u.RemovedAt)
		sheet.Merges.anchors.RemoveColumn(u.RemovedAt)
		return UndoOperation{Kind: OpInsertColumn, SheetID: sheet.ID, InsertedAt: u.RemovedAt, ColumnUndo: colUndo}, nil

	case OpInsertColumn:
		// Reverses a delete: re-insert the column and restore its values.
		shiftCellsForInsert(sheet, u.InsertedAt, true)
		sheet.Formats.insertColumnAll(u.InsertedAt, contiguous2d.CopyFormatsNone)
		sheet.Borders.insertColumnAll(u.InsertedAt)
		sheet.Merges.anchors.InsertColumn(u.InsertedAt, contiguous2d.CopyFormatsNone)
		if u.ColumnUndo != nil {
			restoreCells(sheet, u.ColumnUndo)
		}
		return UndoOperation{Kind: OpDeleteColumn, SheetID: sheet.ID, RemovedAt: u.InsertedAt}, nil

	case OpDeleteRow:
		colUndo := shiftCellsForRemove(sheet, u.RemovedAt, false)
		sheet.Formats.removeRowAll(u.RemovedAt)
		sheet.Borders.removeRowAll(u.RemovedAt)
		sheet.Merges.anchors.RemoveRow(u.RemovedAt)
		return UndoOperation{Kind: OpInsertRow, SheetID: sheet.ID, InsertedAt: u.RemovedAt, ColumnUndo: colUndo}, nil

	case OpInsertRow:
		shiftCellsForInsert(sheet, u.InsertedAt, false)
		sheet.Formats.insertRowAll(u.InsertedAt, contiguous2d.CopyFormatsNone)
		sheet.Borders.insertRowAll(u.InsertedAt)
		sheet.Merges.anchors.InsertRow(u.InsertedAt, contiguous2d.CopyFormatsNone)
		if u.ColumnUndo != nil {
			restoreCells(sheet, u.ColumnUndo)
		}
		return UndoOperation{Kind: OpDeleteRow, SheetID: sheet.ID, RemovedAt: u.InsertedAt}, nil

	case OpMoveCellsBatch:
		sheets := make(map[string]*Sheet)
		for _, id := range g.SheetIDs() {
			s, _ := g.Sheet(id)
			sheets[id] = s
		}
		redo := MoveCellsBatch(sheets, u.Moves)
		return UndoOperation{Kind: OpMoveCellsBatch, Moves: redo.Moves}, nil

	case OpSetCodeRun:
		curTable, hadCur := sheet.Table(u.PriorCodeAnchor)
		curValue := sheet.GetCellValue(u.PriorCodeAnchor)
		delete(sheet.tables, u.PriorCodeAnchor)
		sheet.SetCellValue(u.PriorCodeAnchor, CellValue{Kind: Blank})
		redo := UndoOperation{Kind: OpSetCodeRun, SheetID: sheet.ID, PriorCodeAnchor: u.PriorCodeAnchor, HadCodeTable: hadCur}
		if hadCur {
			redo.PriorCodeTable = curTable
		} else {
			redo.PriorCellValues = []CellWrite{{Pos: u.PriorCodeAnchor, Value: curValue}}
		}
		if u.HadCodeTable {
			ReserveTable(sheet, u.PriorCodeTable)
		} else {
			var v CellValue
			if len(u.PriorCellValues) > 0 {
				v = u.PriorCellValues[0].Value
			}
			sheet.SetCellValue(u.PriorCodeAnchor, v)
		}
		return redo, nil

	default:
		return UndoOperation{}, griderr.Newf(griderr.Validation, "unknown undo kind %d", u.Kind)
	}
}

// restoreCells writes every non-default cell recorded in snapshot back
// onto sheet, used to restore a deleted column/row's prior contents
// after it has been re-inserted.
func restoreCells(sheet *Sheet, snapshot *contiguous2d.Contiguous2D[CellValue]) {
	full := pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: pos.Unbounded, Y: pos.Unbounded}}
	for _, r := range snapshot.NondefaultRectsInRect(full) {
		for y := r.Rect.Min.Y; y <= r.Rect.Max.Y; y++ {
			for x := r.Rect.Min.X; x <= r.Rect.Max.X; x++ {
				sheet.SetCellValue(pos.Pos{X: x, Y: y}, r.Value)
			}
		}
	}
}

func (f *SheetFormatting) insertColumnAll(x int64, copyFormats contiguous2d.CopyFormats) {
	f.Bold.InsertColumn(x, copyFormats)
	f.Italic.InsertColumn(x, copyFormats)
	f.Underline.InsertColumn(x, copyFormats)
	f.StrikeThrough.InsertColumn(x, copyFormats)
	f.TextColor.InsertColumn(x, copyFormats)
	f.FillColor.InsertColumn(x, copyFormats)
	f.NumericFormat.InsertColumn(x, copyFormats)
	f.Wrap.InsertColumn(x, copyFormats)
	f.Align.InsertColumn(x, copyFormats)
	f.VerticalAlign.InsertColumn(x, copyFormats)
}

func (f *SheetFormatting) removeColumnAll(x int64) {
	f.Bold.RemoveColumn(x)
	f.Italic.RemoveColumn(x)
	f.Underline.RemoveColumn(x)
	f.StrikeThrough.RemoveColumn(x)
	f.TextColor.RemoveColumn(x)
	f.FillColor.RemoveColumn(x)
	f.NumericFormat.RemoveColumn(x)
	f.Wrap.RemoveColumn(x)
	f.Align.RemoveColumn(x)
	f.VerticalAlign.RemoveColumn(x)
}

func (f *SheetFormatting) insertRowAll(y int64, copyFormats contiguous2d.CopyFormats) {
	f.Bold.InsertRow(y, copyFormats)
	f.Italic.InsertRow(y, copyFormats)
	f.Underline.InsertRow(y, copyFormats)
	f.StrikeThrough.InsertRow(y, copyFormats)
	f.TextColor.InsertRow(y, copyFormats)
	f.FillColor.InsertRow(y, copyFormats)
	f.NumericFormat.InsertRow(y, copyFormats)
	f.Wrap.InsertRow(y, copyFormats)
	f.Align.InsertRow(y, copyFormats)
	f.VerticalAlign.InsertRow(y, copyFormats)
}

func (f *SheetFormatting) removeRowAll(y int64) {
	f.Bold.RemoveRow(y)
	f.Italic.RemoveRow(y)
	f.Underline.RemoveRow(y)
	f.StrikeThrough.RemoveRow(y)
	f.TextColor.RemoveRow(y)
	f.FillColor.RemoveRow(y)
	f.NumericFormat.RemoveRow(y)
	f.Wrap.RemoveRow(y)
	f.Align.RemoveRow(y)
	f.VerticalAlign.RemoveRow(y)
}

func (b *BordersLayer) insertColumnAll(x int64) {
	b.Top.InsertColumn(x, contiguous2d.CopyFormatsNone)
	b.Right.InsertColumn(x, contiguous2d.CopyFormatsNone)
	b.Bottom.InsertColumn(x, contiguous2d.CopyFormatsNone)
	b.Left.InsertColumn(x, contiguous2d.CopyFormatsNone)
}

func (b *BordersLayer) removeColumnAll(x int64) {
	b.Top.RemoveColumn(x)
	b.Right.RemoveColumn(x)
	b.Bottom.RemoveColumn(x)
	b.Left.RemoveColumn(x)
}

func (b *BordersLayer) insertRowAll(y int64) {
	b.Top.InsertRow(y, contiguous2d.CopyFormatsNone)
	b.Right.InsertRow(y, contiguous2d.CopyFormatsNone)
	b.Bottom.InsertRow(y, contiguous2d.CopyFormatsNone)
	b.Left.InsertRow(y, contiguous2d.CopyFormatsNone)
}

func (b *BordersLayer) removeRowAll(y int64) {
	b.Top.RemoveRow(y)
	b.Right.RemoveRow(y)
	b.Bottom.RemoveRow(y)
	b.Left.RemoveRow(y)
}
