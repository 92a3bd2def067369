// Package contiguous2d implements the run-length-compressed, infinite 2D
// key/value store described in spec §4.1: a column-major outer structure
// of maximal column-strips, each holding a run-length encoding of its
// rows. All (infinitely many) unset positions read as the zero value of
// T. It backs the grid's formatting, border, and merged-cell layers.
package contiguous2d

import (
	"sort"

	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// Option represents a recorded prior value in an undo layer: Ok is false
// for "unchanged", true with Value holding the prior contents otherwise.
// Option's zero value is "unchanged", so an Option[T] layer obeys the same
// "default is implicit, never stored" invariant as any other layer.
type Option[T any] struct {
	Ok    bool
	Value T
}

type colBlock[T comparable] struct {
	Start int64
	End   int64 // exclusive; pos.Unbounded for an open column range
	Rows  runList[T]
}

// Contiguous2D is the run-length 2D map from spec §4.1. The zero value is
// a valid, fully-default map.
type Contiguous2D[T comparable] struct {
	cols []colBlock[T]
}

// New constructs an empty map; every position reads as the zero value of T.
func New[T comparable]() *Contiguous2D[T] { return &Contiguous2D[T]{} }

// FromRect constructs a map holding value inside the (possibly unbounded)
// rectangle [x1,x2] x [y1,y2] and the zero value everywhere else.
func FromRect[T comparable](x1, y1 int64, x2, y2 *int64, value T) *Contiguous2D[T] {
	c := New[T]()
	c.SetRect(x1, y1, x2, y2, value)
	return c
}

func colSearch[T comparable](cols []colBlock[T], x int64) int {
	lo, hi := 0, len(cols)
	for lo < hi {
		mid := (lo + hi) / 2
		end := cols[mid].End
		if end != pos.Unbounded && end <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Get returns the value stored at p, or the zero value of T if p is
// invalid (x<1 or y<1) or unset.
func (c *Contiguous2D[T]) Get(p pos.Pos) T {
	var zero T
	if p.X < 1 || p.Y < 1 {
		return zero
	}
	i := colSearch(c.cols, p.X)
	if i < len(c.cols) {
		col := c.cols[i]
		if col.Start <= p.X && (col.End == pos.Unbounded || p.X < col.End) {
			return col.Rows.get(p.Y)
		}
	}
	return zero
}

// splitColsAt ensures a column-block boundary exists exactly at x (unless
// x is the coordinate immediately after the last block, or out of range),
// without changing any stored value.
func splitColsAt[T comparable](cols []colBlock[T], x int64) []colBlock[T] {
	if x == pos.Unbounded {
		return cols
	}
	i := colSearch(cols, x)
	if i >= len(cols) {
		return cols
	}
	col := cols[i]
	if col.Start >= x {
		return cols
	}
	// col straddles x: split into [Start,x) and [x,End).
	out := make([]colBlock[T], 0, len(cols)+1)
	out = append(out, cols[:i]...)
	out = append(out, colBlock[T]{Start: col.Start, End: x, Rows: col.Rows})
	out = append(out, colBlock[T]{Start: x, End: col.End, Rows: col.Rows})
	out = append(out, cols[i+1:]...)
	return out
}

func mergeCols[T comparable](cols []colBlock[T]) []colBlock[T] {
	var out []colBlock[T]
	for _, col := range cols {
		if len(col.Rows) == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == col.Start && equalRuns(out[n-1].Rows, col.Rows) {
			out[n-1].End = col.End
			continue
		}
		out = append(out, col)
	}
	return out
}

func clampRangeArg(v int64) int64 { return pos.ClampCoord(v) }

// SetRect writes value across the rectangle [x1,x2] x [y1,y2] (either
// upper bound may be nil for an unbounded edge) and returns a Contiguous2D
// of Option[T] describing the prior state: Ok+OldValue where the value
// changed, the zero Option elsewhere. Feeding the result back into
// SetFrom undoes the write (spec §8 property 1).
func (c *Contiguous2D[T]) SetRect(x1, y1 int64, x2, y2 *int64, value T) *Contiguous2D[Option[T]] {
	x1 = clampRangeArg(x1)
	y1 = clampRangeArg(y1)
	xEnd := pos.ExclusiveEnd(x2)
	yEnd := pos.ExclusiveEnd(y2)
	if xEnd != pos.Unbounded && xEnd <= x1 {
		return New[Option[T]]()
	}
	if yEnd != pos.Unbounded && yEnd <= y1 {
		return New[Option[T]]()
	}

	cols := splitColsAt(c.cols, x1)
	cols = splitColsAt(cols, xEnd)
	// The write may touch columns that currently hold no block at all
	// (pure default space); synthesize empty blocks so the loop below
	// sees every column in [x1,xEnd).
	cols = fillGaps(cols, x1, xEnd)

	undo := New[Option[T]]()
	next := make([]colBlock[T], 0, len(cols))
	for _, col := range cols {
		if col.Start < x1 || (xEnd != pos.Unbounded && col.Start >= xEnd) {
			next = append(next, col)
			continue
		}
		newRows, diffs := setRange(col.Rows, y1, yEnd, value)
		next = append(next, colBlock[T]{Start: col.Start, End: col.End, Rows: newRows})
		if len(diffs) > 0 {
			var xEndPtr *int64
			if col.End != pos.Unbounded {
				e := col.End - 1
				xEndPtr = &e
			}
			recordColumnDiffs(undo, col.Start, xEndPtr, diffs)
		}
	}
	c.cols = mergeCols(next)
	return undo
}

// fillGaps inserts empty (default) column blocks so that [x1,xEnd) is
// fully covered by consecutive blocks, without altering any existing
// block's data. cols must already have boundaries aligned at x1 and xEnd
// (via splitColsAt) and be sorted by Start with no overlaps.
func fillGaps[T comparable](cols []colBlock[T], x1, xEnd int64) []colBlock[T] {
	out := make([]colBlock[T], 0, len(cols)+4)
	i := 0
	for i < len(cols) && cols[i].End != pos.Unbounded && cols[i].End <= x1 {
		out = append(out, cols[i])
		i++
	}
	cursor := x1
	for i < len(cols) {
		col := cols[i]
		if xEnd != pos.Unbounded && col.Start >= xEnd {
			break
		}
		if col.Start > cursor {
			out = append(out, colBlock[T]{Start: cursor, End: col.Start})
		}
		out = append(out, col)
		cursor = col.End
		i++
		if cursor == pos.Unbounded {
			break
		}
	}
	if cursor != pos.Unbounded && (xEnd == pos.Unbounded || cursor < xEnd) {
		out = append(out, colBlock[T]{Start: cursor, End: xEnd})
	}
	for i < len(cols) {
		out = append(out, cols[i])
		i++
	}
	return out
}

// recordColumnDiffs folds one column-block's changed sub-ranges into an
// undo accumulator keyed by column [x1,x2] (x2 nil for unbounded).
func recordColumnDiffs[T comparable](undo *Contiguous2D[Option[T]], x1 int64, x2 *int64, diffs []changed[T]) {
	for _, d := range diffs {
		var end *int64
		if d.End != pos.Unbounded {
			e := d.End - 1
			end = &e
		}
		opt := Option[T]{Ok: true, Value: d.OldValue}
		undo.SetRect(x1, d.Start, x2, end, opt)
	}
}

// mergeInto overlays src onto a separately-constructed undo accumulator
// dst. SetFrom and UpdateFrom use it to collect the undo layers of their
// per-run SetRect calls (whose cells never overlap, so a plain overwrite
// suffices).
func mergeInto[T comparable](dst *Contiguous2D[T], src *Contiguous2D[T]) {
	for _, col := range src.cols {
		for _, r := range col.Rows {
			var x2 *int64
			if col.End != pos.Unbounded {
				e := col.End - 1
				x2 = &e
			}
			var y2 *int64
			if r.End != pos.Unbounded {
				e := r.End - 1
				y2 = &e
			}
			dst.SetRect(col.Start, r.Start, x2, y2, r.Value)
		}
	}
}

// SetFrom applies a sparse update layer (zero Option = leave unchanged)
// and returns the undo layer.
func (c *Contiguous2D[T]) SetFrom(update *Contiguous2D[Option[T]]) *Contiguous2D[Option[T]] {
	undo := New[Option[T]]()
	for _, col := range update.cols {
		var x2 *int64
		if col.End != pos.Unbounded {
			e := col.End - 1
			x2 = &e
		}
		for _, r := range col.Rows {
			if !r.Value.Ok {
				continue
			}
			var y2 *int64
			if r.End != pos.Unbounded {
				e := r.End - 1
				y2 = &e
			}
			u := c.SetRect(col.Start, r.Start, x2, y2, r.Value.Value)
			mergeInto(undo, u)
		}
	}
	return undo
}

// UpdateFrom applies fn to every cell touched by a non-default run in
// mask, returning the undo layer (the values prior to the update).
func UpdateFrom[T, M comparable](c *Contiguous2D[T], mask *Contiguous2D[M], fn func(T) T) *Contiguous2D[Option[T]] {
	undo := New[Option[T]]()
	for _, col := range mask.cols {
		var x2 *int64
		if col.End != pos.Unbounded {
			e := col.End - 1
			x2 = &e
		}
		for _, r := range col.Rows {
			var zero M
			if r.Value == zero {
				continue
			}
			var y2 *int64
			if r.End != pos.Unbounded {
				e := r.End - 1
				y2 = &e
			}
			rect := Rect{X1: col.Start, Y1: r.Start, X2: x2, Y2: y2}
			for _, cell := range c.nondefaultAndDefaultCellsInRect(rect) {
				u := c.SetRect(cell.X, cell.Y, ptr(cell.X), ptr(cell.Y), fn(cell.Value))
				mergeInto(undo, u)
			}
		}
	}
	return undo
}

func ptr(v int64) *int64 { return &v }

type cellVal[T any] struct {
	X, Y  int64
	Value T
}

// nondefaultAndDefaultCellsInRect is a correctness-first fallback enumerator used
// only by UpdateFrom, which must visit every cell (default or not) in the
// masked region since fn may map the zero value to something else.
func (c *Contiguous2D[T]) nondefaultAndDefaultCellsInRect(r Rect) []cellVal[T] {
	var out []cellVal[T]
	x2 := r.X2
	y2 := r.Y2
	if x2 == nil || y2 == nil {
		return out // unbounded masks are rejected by callers before reaching here
	}
	for x := r.X1; x <= *x2; x++ {
		for y := r.Y1; y <= *y2; y++ {
			out = append(out, cellVal[T]{X: x, Y: y, Value: c.Get(pos.Pos{X: x, Y: y})})
		}
	}
	return out
}

// Rect is the inclusive-with-optional-unbounded-edges rectangle used by
// the range query API (distinct from pos.Rect, which cannot represent an
// unbounded edge on only one axis as cleanly for this package's call sites).
type Rect struct {
	X1, Y1 int64
	X2, Y2 *int64
}

// IsAllDefaultInRange reports whether every cell in r holds the zero value.
func (c *Contiguous2D[T]) IsAllDefaultInRange(r Rect) bool {
	var zero T
	xEnd := pos.ExclusiveEnd(r.X2)
	yEnd := pos.ExclusiveEnd(r.Y2)
	for _, col := range c.cols {
		if col.End != pos.Unbounded && col.End <= r.X1 {
			continue
		}
		if xEnd != pos.Unbounded && col.Start >= xEnd {
			continue
		}
		for _, run := range col.Rows {
			if run.End != pos.Unbounded && run.End <= r.Y1 {
				continue
			}
			if yEnd != pos.Unbounded && run.Start >= yEnd {
				continue
			}
			if run.Value != zero {
				return false
			}
		}
	}
	return true
}

// UniqueValuesInRange collects the set of distinct non-default values
// touching r.
func (c *Contiguous2D[T]) UniqueValuesInRange(r Rect) map[T]struct{} {
	out := map[T]struct{}{}
	xEnd := pos.ExclusiveEnd(r.X2)
	yEnd := pos.ExclusiveEnd(r.Y2)
	for _, col := range c.cols {
		if col.End != pos.Unbounded && col.End <= r.X1 {
			continue
		}
		if xEnd != pos.Unbounded && col.Start >= xEnd {
			continue
		}
		for _, run := range col.Rows {
			if run.End != pos.Unbounded && run.End <= r.Y1 {
				continue
			}
			if yEnd != pos.Unbounded && run.Start >= yEnd {
				continue
			}
			out[run.Value] = struct{}{}
		}
	}
	return out
}

// Intersects reports whether any non-default value touches r.
func (c *Contiguous2D[T]) Intersects(r Rect) bool {
	return !c.IsAllDefaultInRange(r)
}

// NondefaultRectsInRect iterates the maximal column-strip x row-run
// rectangles intersecting r whose value differs from default.
func (c *Contiguous2D[T]) NondefaultRectsInRect(r pos.Rect) []struct {
	Rect  pos.Rect
	Value T
} {
	var zero T
	var out []struct {
		Rect  pos.Rect
		Value T
	}
	for _, col := range c.cols {
		colStart := maxI(col.Start, r.Min.X)
		colEnd := minI64(col.End, pos.ExclusiveEnd(&r.Max.X))
		if r.Max.X == pos.Unbounded {
			colEnd = col.End
		}
		if colEnd != pos.Unbounded && colStart >= colEnd {
			continue
		}
		for _, run := range col.Rows {
			if run.Value == zero {
				continue
			}
			rowStart := maxI(run.Start, r.Min.Y)
			var rowEnd int64
			if r.Max.Y == pos.Unbounded {
				rowEnd = run.End
			} else {
				rowEnd = minI64(run.End, r.Max.Y+1)
			}
			if rowEnd != pos.Unbounded && rowStart >= rowEnd {
				continue
			}
			maxX := colEnd
			if maxX != pos.Unbounded {
				maxX--
			}
			maxY := rowEnd
			if maxY != pos.Unbounded {
				maxY--
			}
			out = append(out, struct {
				Rect  pos.Rect
				Value T
			}{
				Rect:  pos.Rect{Min: pos.Pos{X: colStart, Y: rowStart}, Max: pos.Pos{X: maxX, Y: maxY}},
				Value: run.Value,
			})
		}
	}
	return out
}

// NondefaultRectsInRectCombined behaves like NondefaultRectsInRect but
// merges adjacent rectangles (sharing a value and an edge) into their
// bounding box, the way merged-cell queries require (spec §9, "combine
// adjacent rects with equal value").
func (c *Contiguous2D[T]) NondefaultRectsInRectCombined(r pos.Rect) []struct {
	Rect  pos.Rect
	Value T
} {
	rects := c.NondefaultRectsInRect(r)
	changedOverall := true
	for changedOverall {
		changedOverall = false
		for i := 0; i < len(rects); i++ {
			for j := i + 1; j < len(rects); j++ {
				a, b := rects[i], rects[j]
				if a.Value != b.Value {
					continue
				}
				if combinable(a.Rect, b.Rect) {
					rects[i].Rect = a.Rect.Union(b.Rect)
					rects = append(rects[:j], rects[j+1:]...)
					changedOverall = true
					break
				}
			}
			if changedOverall {
				break
			}
		}
	}
	return rects
}

func combinable(a, b pos.Rect) bool {
	// Vertically adjacent, same column span.
	if a.Min.X == b.Min.X && a.Max.X == b.Max.X {
		if a.Max.Y+1 == b.Min.Y || b.Max.Y+1 == a.Min.Y {
			return true
		}
	}
	// Horizontally adjacent, same row span.
	if a.Min.Y == b.Min.Y && a.Max.Y == b.Max.Y {
		if a.Max.X+1 == b.Min.X || b.Max.X+1 == a.Min.X {
			return true
		}
	}
	return false
}

// ColMax returns the largest row holding a non-default value in column,
// or 0 if none.
func (c *Contiguous2D[T]) ColMax(column int64) int64 {
	var zero T
	var max int64
	i := colSearch(c.cols, column)
	if i >= len(c.cols) || c.cols[i].Start > column {
		return 0
	}
	for _, run := range c.cols[i].Rows {
		if run.Value == zero {
			continue
		}
		end := run.End
		if end == pos.Unbounded {
			return pos.Unbounded
		}
		if end-1 > max {
			max = end - 1
		}
	}
	return max
}

// ColMin returns the smallest row holding a non-default value in column,
// or 0 if none.
func (c *Contiguous2D[T]) ColMin(column int64) int64 {
	var zero T
	i := colSearch(c.cols, column)
	if i >= len(c.cols) || c.cols[i].Start > column {
		return 0
	}
	min := int64(0)
	for _, run := range c.cols[i].Rows {
		if run.Value == zero {
			continue
		}
		if min == 0 || run.Start < min {
			min = run.Start
		}
	}
	return min
}

// RowMax and RowMin are the row-axis analogues; since runs are indexed
// column-major, they scan every column block (cost linear in blocks).
func (c *Contiguous2D[T]) RowMax(row int64) int64 {
	var zero T
	var max int64
	for _, col := range c.cols {
		v := col.Rows.get(row)
		if v == zero {
			continue
		}
		end := col.End
		if end == pos.Unbounded {
			return pos.Unbounded
		}
		if end-1 > max {
			max = end - 1
		}
	}
	return max
}

func (c *Contiguous2D[T]) RowMin(row int64) int64 {
	var zero T
	min := int64(0)
	for _, col := range c.cols {
		v := col.Rows.get(row)
		if v == zero {
			continue
		}
		if min == 0 || col.Start < min {
			min = col.Start
		}
	}
	return min
}

// HasInfiniteNonDefault reports whether any run extends to infinity in
// either axis while holding a non-default value.
func (c *Contiguous2D[T]) HasInfiniteNonDefault() bool {
	var zero T
	for _, col := range c.cols {
		for _, run := range col.Rows {
			if run.Value == zero {
				continue
			}
			if col.End == pos.Unbounded || run.End == pos.Unbounded {
				return true
			}
		}
	}
	return false
}

// TranslateInPlace shifts every stored run by (dx, dy); runs that would
// cross into the invalid region (<1) are truncated, not wrapped.
func (c *Contiguous2D[T]) TranslateInPlace(dx, dy int64) {
	next := make([]colBlock[T], 0, len(c.cols))
	for _, col := range c.cols {
		start := col.Start + dx
		end := col.End
		if end != pos.Unbounded {
			end += dx
		}
		if start < 1 {
			start = 1
		}
		if end != pos.Unbounded && end <= start {
			continue
		}
		next = append(next, colBlock[T]{Start: start, End: end, Rows: translate(col.Rows, dy)})
	}
	sort.Slice(next, func(i, j int) bool { return next[i].Start < next[j].Start })
	c.cols = mergeCols(next)
}

// CopyFormats controls what insertColumn/insertRow populate the new
// column/row with.
type CopyFormats int

const (
	// CopyFormatsNone leaves the new column/row default.
	CopyFormatsNone CopyFormats = iota
	// CopyFormatsBefore copies the column/row immediately before the
	// insertion point.
	CopyFormatsBefore
	// CopyFormatsAfter copies the column/row immediately after the
	// insertion point (i.e. what is about to shift right/down).
	CopyFormatsAfter
)

// InsertColumn shifts every column >= x right by one, optionally seeding
// the new column from its neighbor.
func (c *Contiguous2D[T]) InsertColumn(x int64, copyFormats CopyFormats) {
	x = pos.ClampCoord(x)
	cols := splitColsAt(c.cols, x)
	var seedRows runList[T]
	switch copyFormats {
	case CopyFormatsBefore:
		if i := colSearch(cols, x - 1); i < len(cols) && cols[i].Start <= x-1 && x-1 >= 1 {
			seedRows = append(runList[T]{}, cols[i].Rows...)
		}
	case CopyFormatsAfter:
		if i := colSearch(cols, x); i < len(cols) {
			seedRows = append(runList[T]{}, cols[i].Rows...)
		}
	}
	next := make([]colBlock[T], 0, len(cols)+1)
	inserted := false
	for _, col := range cols {
		if col.Start >= x {
			if !inserted {
				if len(seedRows) > 0 {
					next = append(next, colBlock[T]{Start: x, End: x + 1, Rows: seedRows})
				}
				inserted = true
			}
			next = append(next, colBlock[T]{Start: col.Start + 1, End: shiftEnd(col.End), Rows: col.Rows})
			continue
		}
		next = append(next, col)
	}
	if !inserted && len(seedRows) > 0 {
		next = append(next, colBlock[T]{Start: x, End: x + 1, Rows: seedRows})
	}
	sort.Slice(next, func(i, j int) bool { return next[i].Start < next[j].Start })
	c.cols = mergeCols(next)
}

// RemoveColumn deletes column x, shifting everything after it left by
// one, and returns the removed strip as an undo layer.
func (c *Contiguous2D[T]) RemoveColumn(x int64) *Contiguous2D[Option[T]] {
	x = pos.ClampCoord(x)
	undo := New[Option[T]]()
	next := make([]colBlock[T], 0, len(c.cols))
	for _, col := range c.cols {
		switch {
		case col.End != pos.Unbounded && col.End <= x:
			next = append(next, col)
		case col.Start > x:
			next = append(next, colBlock[T]{Start: col.Start - 1, End: unshiftEnd(col.End), Rows: col.Rows})
		case col.Start == x && col.End != pos.Unbounded && col.End == x+1:
			for _, run := range col.Rows {
				var y2 *int64
				if run.End != pos.Unbounded {
					e := run.End - 1
					y2 = &e
				}
				undo.SetRect(x, run.Start, ptr(x), y2, Option[T]{Ok: true, Value: run.Value})
			}
		default:
			// col straddles x (x is interior to a wider block): record
			// the removed column's values, then shrink by one.
			for _, run := range col.Rows {
				var y2 *int64
				if run.End != pos.Unbounded {
					e := run.End - 1
					y2 = &e
				}
				undo.SetRect(x, run.Start, ptr(x), y2, Option[T]{Ok: true, Value: run.Value})
			}
			next = append(next, colBlock[T]{Start: col.Start, End: unshiftEnd(col.End), Rows: col.Rows})
		}
	}
	sort.Slice(next, func(i, j int) bool { return next[i].Start < next[j].Start })
	c.cols = mergeCols(next)
	return undo
}

// InsertRow and RemoveRow are the row-axis analogues of InsertColumn and
// RemoveColumn, applied independently within every column block.
func (c *Contiguous2D[T]) InsertRow(y int64, copyFormats CopyFormats) {
	y = pos.ClampCoord(y)
	next := make([]colBlock[T], 0, len(c.cols))
	for _, col := range c.cols {
		rows := insertAt(col.Rows, y)
		var zero T
		switch copyFormats {
		case CopyFormatsBefore:
			if y-1 >= 1 {
				if v := col.Rows.get(y - 1); v != zero {
					rows, _ = setRange(rows, y, y+1, v)
				}
			}
		case CopyFormatsAfter:
			if v := col.Rows.get(y); v != zero {
				rows, _ = setRange(rows, y, y+1, v)
			}
		}
		next = append(next, colBlock[T]{Start: col.Start, End: col.End, Rows: rows})
	}
	c.cols = mergeCols(next)
}

func (c *Contiguous2D[T]) RemoveRow(y int64) *Contiguous2D[Option[T]] {
	y = pos.ClampCoord(y)
	undo := New[Option[T]]()
	next := make([]colBlock[T], 0, len(c.cols))
	for _, col := range c.cols {
		if v := col.Rows.get(y); true {
			var zero T
			if v != zero {
				var x2 *int64
				if col.End != pos.Unbounded {
					e := col.End - 1
					x2 = &e
				}
				undo.SetRect(col.Start, y, x2, ptr(y), Option[T]{Ok: true, Value: v})
			}
		}
		rows := removeAt(col.Rows, y)
		next = append(next, colBlock[T]{Start: col.Start, End: col.End, Rows: rows})
	}
	c.cols = mergeCols(next)
	return undo
}

// IsAllDefault reports whether the whole map is default.
func (c *Contiguous2D[T]) IsAllDefault() bool { return len(c.cols) == 0 }
