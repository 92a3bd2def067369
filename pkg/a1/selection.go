package a1

import "github.com/quadratic-labs/gridcore/pkg/pos"

// maxSelectToIterations bounds the select_to merged-cell fixed-point loop
// (spec §4.2: "bounded by a safety limit, e.g., 100 iterations").
const maxSelectToIterations = 100

// A1Selection is an ordered list of ranges plus a cursor; ordering matters
// because the *last* range is the one extend-style mutators operate on.
type A1Selection struct {
	SheetID string
	Cursor  pos.Pos
	Ranges  []CellRefRange
}

// NewSelection builds a selection with the cursor at p and a single
// single-cell range anchored there.
func NewSelection(sheetID string, p pos.Pos) A1Selection {
	return A1Selection{
		SheetID: sheetID,
		Cursor:  p,
		Ranges:  []CellRefRange{SheetRange(SingleCell(p.X, p.Y))},
	}
}

func (s A1Selection) lastIndex() int { return len(s.Ranges) - 1 }

// ContainsPos reports whether p is covered by any range in the selection.
func (s A1Selection) ContainsPos(p pos.Pos, ctx TableContext) bool {
	for _, r := range s.Ranges {
		if rect, ok := r.ToRect(ctx); ok && rect.Contains(p) {
			return true
		}
	}
	return false
}

// MightContainPos is ContainsPos's looser sibling for callers with no
// table context available: unresolvable table ranges are treated as a
// possible match rather than excluded.
func (s A1Selection) MightContainPos(p pos.Pos, ctx TableContext) bool {
	for _, r := range s.Ranges {
		rect, ok := r.ToRect(ctx)
		if !ok {
			return true
		}
		if rect.Contains(p) {
			return true
		}
	}
	return false
}

// IsMultiCursor reports whether the selection spans more than one cell,
// either via multiple ranges or a single range wider than 1x1.
func (s A1Selection) IsMultiCursor(ctx TableContext) bool {
	if len(s.Ranges) != 1 {
		return len(s.Ranges) > 1
	}
	rect, ok := s.Ranges[0].ToRect(ctx)
	if !ok {
		return false
	}
	return rect.Width() != 1 || rect.Height() != 1
}

// Rects returns the finite rectangles of the selection, skipping any range
// unbounded on either axis.
func (s A1Selection) Rects(ctx TableContext) []pos.Rect {
	var out []pos.Rect
	for _, r := range s.Ranges {
		rect, ok := r.ToRect(ctx)
		if !ok || r.IsUnbounded() {
			continue
		}
		out = append(out, rect)
	}
	return out
}

// RectsUnbounded returns every range's rectangle, including unbounded
// ones. Testable property (spec §8.4): Rects ⊆ RectsUnbounded.
func (s A1Selection) RectsUnbounded(ctx TableContext) []pos.Rect {
	var out []pos.Rect
	for _, r := range s.Ranges {
		if rect, ok := r.ToRect(ctx); ok {
			out = append(out, rect)
		}
	}
	return out
}

// SelectedColumns returns columns fully covered by some column-range.
func (s A1Selection) SelectedColumns(ctx TableContext) []int64 {
	seen := map[int64]struct{}{}
	var out []int64
	for _, r := range s.Ranges {
		if r.Kind != KindSheet || !r.Sheet.IsColumnRange() {
			continue
		}
		rect := r.Sheet.ToRect()
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			if _, dup := seen[x]; !dup {
				seen[x] = struct{}{}
				out = append(out, x)
			}
		}
	}
	return out
}

// ColumnsWithSelectedCells returns every column touched by any selected
// cell, bounded ranges only (an unbounded column range already appears via
// SelectedColumns; this enumerates finite spans).
func (s A1Selection) ColumnsWithSelectedCells(ctx TableContext) []int64 {
	seen := map[int64]struct{}{}
	var out []int64
	for _, rect := range s.Rects(ctx) {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			if _, dup := seen[x]; !dup {
				seen[x] = struct{}{}
				out = append(out, x)
			}
		}
	}
	return out
}

// SelectAll replaces the selection with `*`, or (append) extends the last
// range's end to the all-selection's bottom-right corner.
func (s A1Selection) SelectAll(append bool) A1Selection {
	out := s
	if !append || len(out.Ranges) == 0 {
		out.Ranges = []CellRefRange{SheetRange(All())}
		out.Cursor = pos.New(1, 1)
		return out
	}
	last := out.Ranges[out.lastIndex()]
	if last.Kind != KindSheet {
		out.Ranges[out.lastIndex()] = SheetRange(All())
		return out
	}
	end := CellRef{Col: ColRef{Unbounded: true}, Row: RowRef{Unbounded: true}}
	out.Ranges[out.lastIndex()] = SheetRange(last.Sheet.WithEnd(end))
	return out
}

// SelectColumn implements the click/ctrl-click/shift-click column-header
// mutator (spec §4.2).
func (s A1Selection) SelectColumn(col int64, ctrl, shift bool, top int64, ctx TableContext) A1Selection {
	switch {
	case shift && len(s.Ranges) > 0:
		out := s
		last := out.Ranges[out.lastIndex()]
		if last.Kind == KindSheet {
			end := CellRef{Col: ColRef{Col: col}, Row: RowRef{Unbounded: true}}
			out.Ranges[out.lastIndex()] = SheetRange(last.Sheet.WithEnd(end))
		}
		return out
	case ctrl:
		return s.AddOrRemoveColumn(col, top, ctx)
	default:
		return A1Selection{
			SheetID: s.SheetID,
			Cursor:  pos.New(col, top),
			Ranges:  []CellRefRange{SheetRange(ColumnRange(col, col))},
		}
	}
}

// AddOrRemoveColumn toggles whole-column membership: if col is already
// fully selected by some range, it is carved out (splitting, shrinking, or
// collapsing that range); otherwise it is appended as a new column range.
func (s A1Selection) AddOrRemoveColumn(col, fallbackRow int64, ctx TableContext) A1Selection {
	out := s
	var kept []CellRefRange
	removedAny := false
	colSpan := func(x1, x2 int64) CellRefRange {
		b := ColumnRange(x1, x2)
		if x2 == pos.Unbounded {
			b.End.Col = ColRef{Unbounded: true}
		}
		return SheetRange(b)
	}
	for _, r := range out.Ranges {
		if r.Kind != KindSheet {
			kept = append(kept, r)
			continue
		}
		rect := r.Sheet.ToRect()
		if rect.Min.Y != 1 || rect.Max.Y != pos.Unbounded || col < rect.Min.X || col > rect.Max.X {
			kept = append(kept, r)
			continue
		}
		removedAny = true
		switch {
		case rect.Min.X == rect.Max.X:
			// Collapses entirely; drop the range.
		case col == rect.Min.X:
			kept = append(kept, colSpan(rect.Min.X+1, rect.Max.X))
		case col == rect.Max.X:
			kept = append(kept, colSpan(rect.Min.X, rect.Max.X-1))
		default:
			kept = append(kept, colSpan(rect.Min.X, col-1))
			kept = append(kept, colSpan(col+1, rect.Max.X))
		}
	}
	if !removedAny {
		kept = append(kept, SheetRange(ColumnRange(col, col)))
		out.Ranges = kept
		out.Cursor = pos.New(col, fallbackRow)
		return out
	}
	out.Ranges = kept
	if len(kept) == 0 {
		out.Ranges = []CellRefRange{SheetRange(SingleCell(col, fallbackRow))}
		out.Cursor = pos.New(col, fallbackRow)
		return out
	}
	if !out.ContainsPos(out.Cursor, ctx) {
		if rect, ok := kept[len(kept)-1].ToRect(ctx); ok {
			out.Cursor = rect.Min
		}
	}
	return out
}

// SelectRow is the row-header analogue of SelectColumn.
func (s A1Selection) SelectRow(row int64, ctrl, shift bool, left int64, ctx TableContext) A1Selection {
	switch {
	case shift && len(s.Ranges) > 0:
		out := s
		last := out.Ranges[out.lastIndex()]
		if last.Kind == KindSheet {
			end := CellRef{Col: ColRef{Unbounded: true}, Row: RowRef{Row: row}}
			out.Ranges[out.lastIndex()] = SheetRange(last.Sheet.WithEnd(end))
		}
		return out
	case ctrl:
		return s.AddOrRemoveRow(row, left, ctx)
	default:
		return A1Selection{
			SheetID: s.SheetID,
			Cursor:  pos.New(left, row),
			Ranges:  []CellRefRange{SheetRange(RowRangeBounds(row, row))},
		}
	}
}

// AddOrRemoveRow is the row-header analogue of AddOrRemoveColumn.
func (s A1Selection) AddOrRemoveRow(row, fallbackCol int64, ctx TableContext) A1Selection {
	out := s
	var kept []CellRefRange
	removedAny := false
	for _, r := range out.Ranges {
		if r.Kind != KindSheet || !r.Sheet.IsRowRange() {
			kept = append(kept, r)
			continue
		}
		rect := r.Sheet.ToRect()
		if row < rect.Min.Y || row > rect.Max.Y {
			kept = append(kept, r)
			continue
		}
		removedAny = true
		switch {
		case rect.Min.Y == rect.Max.Y:
		case row == rect.Min.Y:
			kept = append(kept, SheetRange(RowRangeBounds(rect.Min.Y+1, rect.Max.Y)))
		case row == rect.Max.Y:
			kept = append(kept, SheetRange(RowRangeBounds(rect.Min.Y, rect.Max.Y-1)))
		default:
			kept = append(kept, SheetRange(RowRangeBounds(rect.Min.Y, row-1)))
			kept = append(kept, SheetRange(RowRangeBounds(row+1, rect.Max.Y)))
		}
	}
	if !removedAny {
		kept = append(kept, SheetRange(RowRangeBounds(row, row)))
		out.Ranges = kept
		out.Cursor = pos.New(fallbackCol, row)
		return out
	}
	out.Ranges = kept
	if len(kept) == 0 {
		out.Ranges = []CellRefRange{SheetRange(SingleCell(fallbackCol, row))}
		out.Cursor = pos.New(fallbackCol, row)
		return out
	}
	if !out.ContainsPos(out.Cursor, ctx) {
		if rect, ok := kept[len(kept)-1].ToRect(ctx); ok {
			out.Cursor = rect.Min
		}
	}
	return out
}

// SelectTo extends the last range's end to (col, row). A table range is
// converted to sheet bounds first (reversed if the cursor sat at the
// table's bottom-right, so the anchor stays the drag origin). When merge
// is non-nil the resulting rectangle is grown or shrunk to align with
// merged-cell boundaries, iterating to a fixed point.
func (s A1Selection) SelectTo(col, row int64, appendRange bool, ctx TableContext, merge MergedCellsContext) A1Selection {
	out := s
	if len(out.Ranges) == 0 || appendRange {
		out.Ranges = append(out.Ranges, SheetRange(SingleCell(out.Cursor.X, out.Cursor.Y)))
	}
	li := out.lastIndex()
	last := out.Ranges[li]

	var bounds RefRangeBounds
	if last.Kind == KindTable {
		b, ok := last.ToSheetBounds(ctx)
		if !ok {
			b = NewRangeBounds(out.Cursor.X, out.Cursor.Y, out.Cursor.X, out.Cursor.Y)
		}
		rect := b.ToRect()
		if out.Cursor == rect.Max {
			b = b.Reversed()
		}
		last = SheetRange(b)
		bounds = b
	} else {
		bounds = last.Sheet
	}

	anchor := bounds.Start
	prev := bounds
	next := bounds.WithEnd(CellRef{Col: ColRef{Col: col}, Row: RowRef{Row: row}})

	if merge != nil {
		next = alignToMergedCells(out.SheetID, anchor, prev, col, row, merge)
	}

	out.Ranges[li] = SheetRange(next)
	out.Cursor = pos.New(col, row)
	return out
}

// alignToMergedCells computes the drag-to-(newCol,newRow) rectangle for
// the range anchored at anchor whose previous drag extent was prev, then
// grows or shrinks it to merged-cell boundaries, iterating to a fixed
// point bounded by maxSelectToIterations. Growing and shrinking are
// distinct per spec §4.2: expanding drags grow to cover any merged cell
// they touch; shrinking drags clip back to exclude a partially overlapped
// merged cell, never retracting past the anchor
// (original_source/quadratic-core/src/a1/a1_selection/select.rs's
// create_initial_selection_rect/determine_shrink_behavior/
// shrink_for_merged_cells/expand_for_merged_cells).
func alignToMergedCells(sheetID string, anchor CellRef, prev RefRangeBounds, newCol, newRow int64, merge MergedCellsContext) RefRangeBounds {
	startX, startY := anchor.Col.Col, anchor.Row.Row
	prevRect := prev.ToRect()
	currEndX, currEndY := prev.End.Col.Col, prev.End.Row.Row

	deltaX, deltaY := newCol-startX, newRow-startY
	currDeltaX, currDeltaY := currEndX-startX, currEndY-startY

	shrinkX := deltaX != 0 && ((deltaX > 0 && currDeltaX > 0 && newCol < currEndX) ||
		(deltaX < 0 && currDeltaX < 0 && newCol > currEndX) ||
		(deltaX > 0 && currDeltaX < 0) ||
		(deltaX < 0 && currDeltaX > 0))
	shrinkY := deltaY != 0 && ((deltaY > 0 && currDeltaY > 0 && newRow < currEndY) ||
		(deltaY < 0 && currDeltaY < 0 && newRow > currEndY) ||
		(deltaY > 0 && currDeltaY < 0) ||
		(deltaY < 0 && currDeltaY > 0))

	movingLeftFromRight := deltaX < 0
	movingRightFromLeft := deltaX > 0
	movingUpFromBottom := deltaY < 0
	movingDownFromTop := deltaY > 0

	var minX, maxX int64
	if movingLeftFromRight || deltaX == 0 {
		minX = minI64(newCol, startX)
	} else {
		minX = minI64(prevRect.Min.X, newCol)
	}
	switch {
	case movingRightFromLeft:
		maxX = maxI64(newCol, startX)
	case movingLeftFromRight && newCol < startX, deltaX == 0:
		maxX = startX
	default:
		maxX = maxI64(prevRect.Max.X, newCol)
	}

	var minY, maxY int64
	if movingUpFromBottom || deltaY == 0 {
		minY = minI64(newRow, startY)
	} else {
		minY = minI64(prevRect.Min.Y, newRow)
	}
	switch {
	case movingDownFromTop:
		maxY = maxI64(newRow, startY)
	case movingUpFromBottom && newRow < startY, deltaY == 0:
		maxY = startY
	default:
		maxY = maxI64(prevRect.Max.Y, newRow)
	}

	rect := pos.Rect{Min: pos.New(minX, minY), Max: pos.New(maxX, maxY)}

	for i := 0; i < maxSelectToIterations; i++ {
		merges := mergedCellsTouching(sheetID, rect, merge)
		var changed bool
		if shrinkX || shrinkY {
			rect, changed = shrinkForMergedCells(rect, merges, startX, startY, shrinkX, shrinkY)
		} else {
			rect, changed = expandForMergedCells(rect, merges)
		}
		if !changed {
			break
		}
	}

	return RefRangeBounds{
		Start: CellRef{Col: ColRef{Col: rect.Min.X}, Row: RowRef{Row: rect.Min.Y}},
		End:   CellRef{Col: ColRef{Col: rect.Max.X}, Row: RowRef{Row: rect.Max.Y}},
	}
}

// mergedCellsTouching returns, deduplicated, every merged-cell rectangle
// that any cell of rect belongs to.
func mergedCellsTouching(sheetID string, rect pos.Rect, merge MergedCellsContext) []pos.Rect {
	seen := map[pos.Rect]bool{}
	var out []pos.Rect
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			if mr, ok := merge.MergedCellBounds(sheetID, pos.New(x, y)); ok && !seen[mr] {
				seen[mr] = true
				out = append(out, mr)
			}
		}
	}
	return out
}

// expandForMergedCells grows rect to fully contain every merge rectangle
// it overlaps. Returns the (possibly unchanged) rect and whether it grew.
func expandForMergedCells(rect pos.Rect, merges []pos.Rect) (pos.Rect, bool) {
	changed := false
	for _, mr := range merges {
		if !rectsOverlap(rect, mr) {
			continue
		}
		if mr.Min.X < rect.Min.X {
			rect.Min.X = mr.Min.X
			changed = true
		}
		if mr.Min.Y < rect.Min.Y {
			rect.Min.Y = mr.Min.Y
			changed = true
		}
		if mr.Max.X > rect.Max.X {
			rect.Max.X = mr.Max.X
			changed = true
		}
		if mr.Max.Y > rect.Max.Y {
			rect.Max.Y = mr.Max.Y
			changed = true
		}
	}
	return rect, changed
}

// shrinkForMergedCells clips rect's far edge back to exclude any merge
// rectangle that overlaps rect without being fully contained in it,
// never retracting past (startX, startY) — the anchor. Only the axes
// named by shrinkX/shrinkY are clipped, matching the drag direction.
func shrinkForMergedCells(rect pos.Rect, merges []pos.Rect, startX, startY int64, shrinkX, shrinkY bool) (pos.Rect, bool) {
	changed := false
	for _, mr := range merges {
		if !rectsOverlap(rect, mr) {
			continue
		}
		fullyIncluded := rect.Min.X <= mr.Min.X && rect.Min.Y <= mr.Min.Y &&
			rect.Max.X >= mr.Max.X && rect.Max.Y >= mr.Max.Y
		if fullyIncluded {
			continue
		}
		if shrinkX {
			maxSafeX := mr.Min.X - 1
			if maxSafeX >= startX {
				if newMaxX := minI64(rect.Max.X, maxSafeX); newMaxX != rect.Max.X {
					rect.Max.X = newMaxX
					changed = true
				}
			} else if rect.Max.X != startX {
				rect.Max.X, rect.Min.X = startX, startX
				changed = true
			}
		}
		if shrinkY {
			maxSafeY := mr.Min.Y - 1
			if maxSafeY >= startY {
				if newMaxY := minI64(rect.Max.Y, maxSafeY); newMaxY != rect.Max.Y {
					rect.Max.Y = newMaxY
					changed = true
				}
			} else if rect.Max.Y != startY {
				rect.Max.Y, rect.Min.Y = startY, startY
				changed = true
			}
		}
	}
	return rect, changed
}

func rectsOverlap(a, b pos.Rect) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X && a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// FiniteRefRangeBounds returns the selection's finite rectangles, each
// grown to contain every merged cell it touches (including edge-only
// overlaps), per spec §4.2 "Merged-cell expansion for range queries".
func (s A1Selection) FiniteRefRangeBounds(ctx TableContext, merge MergedCellsContext) []pos.Rect {
	rects := s.Rects(ctx)
	if merge == nil {
		return rects
	}
	out := make([]pos.Rect, len(rects))
	for i, rect := range rects {
		out[i] = growToMergedCells(s.SheetID, rect, merge)
	}
	return out
}

func growToMergedCells(sheetID string, rect pos.Rect, merge MergedCellsContext) pos.Rect {
	grown := rect
	for i := 0; i < maxSelectToIterations; i++ {
		next := grown
		for y := grown.Min.Y; y <= grown.Max.Y; y++ {
			for x := grown.Min.X; x <= grown.Max.X; x++ {
				if mr, ok := merge.MergedCellBounds(sheetID, pos.New(x, y)); ok {
					next = next.Union(mr)
				}
			}
		}
		if next == grown {
			break
		}
		grown = next
	}
	return grown
}
