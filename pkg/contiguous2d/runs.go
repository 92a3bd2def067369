package contiguous2d

import "github.com/quadratic-labs/gridcore/pkg/pos"

// run is a single half-open interval [Start, End) carrying a value. End ==
// pos.Unbounded means the run extends to infinity. A run is never stored
// for the zero value of T: the zero value is the implicit default (spec
// §4.1 invariant b).
type run[T comparable] struct {
	Start int64
	End   int64
	Value T
}

func (r run[T]) contains(y int64) bool {
	return y >= r.Start && (r.End == pos.Unbounded || y < r.End)
}

// runList is a sorted, non-overlapping slice of runs with no two adjacent
// runs sharing a value (spec §4.1 adjacency invariant) and no run holding
// the zero value.
type runList[T comparable] []run[T]

func (rs runList[T]) get(y int64) T {
	var zero T
	i := searchRuns(rs, y)
	if i < len(rs) && rs[i].contains(y) {
		return rs[i].Value
	}
	return zero
}

// searchRuns returns the index of the first run whose End is > y (i.e.
// the run that would contain y, or the insertion point).
func searchRuns[T comparable](rs runList[T], y int64) int {
	lo, hi := 0, len(rs)
	for lo < hi {
		mid := (lo + hi) / 2
		end := rs[mid].End
		if end != pos.Unbounded && end <= y {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// changed describes one maximal sub-range whose value differed from the
// newly-written value, used to build undo layers.
type changed[T comparable] struct {
	Start, End int64 // half-open
	OldValue   T
}

// setRange overwrites [y1, y2) with value, returning the updated run list
// and the list of sub-ranges whose prior value differed from value.
func setRange[T comparable](rs runList[T], y1, y2 int64, value T) (runList[T], []changed[T]) {
	var zero T
	var out runList[T]
	var diffs []changed[T]

	appendRun := func(r run[T]) {
		if r.Start >= r.End && r.End != pos.Unbounded {
			return
		}
		if r.Value == zero {
			return
		}
		if n := len(out); n > 0 && out[n-1].End == r.Start && out[n-1].Value == r.Value {
			out[n-1].End = r.End
			return
		}
		out = append(out, r)
	}

	inserted := false
	insertNewRun := func() {
		if inserted {
			return
		}
		inserted = true
		appendRun(run[T]{Start: y1, End: y2, Value: value})
	}

	// cursor tracks how much of [y1,y2) has been accounted for in diffs;
	// any gap between runs within the write range was implicitly the
	// zero value, which itself counts as "changed" when value != zero.
	cursor := y1
	recordGapTo := func(upTo int64) {
		if cursor < upTo && value != zero {
			diffs = append(diffs, changed[T]{Start: cursor, End: upTo, OldValue: zero})
		}
		cursor = upTo
	}

	for _, r := range rs {
		// Entirely before the write range: keep as-is.
		if r.End != pos.Unbounded && r.End <= y1 {
			appendRun(r)
			continue
		}
		// Entirely after the write range: insert the new run first (once),
		// then keep the remainder as-is.
		if r.Start >= y2 && y2 != pos.Unbounded {
			recordGapTo(y2)
			insertNewRun()
			appendRun(r)
			continue
		}
		// r overlaps [y1, y2): split off the parts outside the write range
		// and record the overlapping part as changed (if its value differs).
		if r.Start < y1 {
			appendRun(run[T]{Start: r.Start, End: y1, Value: r.Value})
		}
		overlapStart := maxI(r.Start, y1)
		overlapEnd := minI64(r.End, y2)
		recordGapTo(overlapStart)
		if r.Value != value {
			diffs = append(diffs, changed[T]{Start: overlapStart, End: overlapEnd, OldValue: r.Value})
		}
		cursor = overlapEnd
		if r.End == pos.Unbounded && y2 == pos.Unbounded {
			// Both unbounded: the tail after the write is empty.
		} else if r.End == pos.Unbounded {
			// r continues past y2 (to infinity); keep that tail for later,
			// but since r is the last run (nothing in rs extends past an
			// unbounded run), handle immediately.
			insertNewRun()
			appendRun(run[T]{Start: y2, End: pos.Unbounded, Value: r.Value})
			continue
		} else if r.End > y2 {
			insertNewRun()
			appendRun(run[T]{Start: y2, End: r.End, Value: r.Value})
			continue
		}
	}
	recordGapTo(y2)
	insertNewRun()

	return out, coalesceDiffs(diffs)
}

func coalesceDiffs[T comparable](diffs []changed[T]) []changed[T] {
	if len(diffs) < 2 {
		return diffs
	}
	out := diffs[:1]
	for _, d := range diffs[1:] {
		last := &out[len(out)-1]
		if last.End == d.Start && last.OldValue == d.OldValue {
			last.End = d.End
			continue
		}
		out = append(out, d)
	}
	return out
}

// translate shifts every run by dy, truncating (not wrapping) any run
// that would cross into the invalid region (y < 1).
func translate[T comparable](rs runList[T], dy int64) runList[T] {
	var out runList[T]
	for _, r := range rs {
		start := r.Start + dy
		end := r.End
		if end != pos.Unbounded {
			end += dy
		}
		if start < 1 {
			start = 1
		}
		if end != pos.Unbounded && end <= start {
			continue
		}
		out = append(out, run[T]{Start: start, End: end, Value: r.Value})
	}
	return out
}

// insertAt shifts every run starting at or after y up by one, splitting a
// run straddling y so the new gap is carved out of it.
func insertAt[T comparable](rs runList[T], y int64) runList[T] {
	var out runList[T]
	for _, r := range rs {
		switch {
		case r.End != pos.Unbounded && r.End <= y:
			out = append(out, r)
		case r.Start >= y:
			out = append(out, run[T]{Start: r.Start + 1, End: shiftEnd(r.End), Value: r.Value})
		default:
			// r straddles y: split into [Start,y) and [y+1, End+1).
			out = append(out, run[T]{Start: r.Start, End: y, Value: r.Value})
			out = append(out, run[T]{Start: y + 1, End: shiftEnd(r.End), Value: r.Value})
		}
	}
	return out
}

func shiftEnd(end int64) int64 {
	if end == pos.Unbounded {
		return pos.Unbounded
	}
	return end + 1
}

// removeAt removes position y, shifting everything after it down by one.
func removeAt[T comparable](rs runList[T], y int64) runList[T] {
	var zero T
	var out runList[T]
	appendRun := func(r run[T]) {
		if r.Start >= r.End && r.End != pos.Unbounded {
			return
		}
		if r.Value == zero {
			return
		}
		if n := len(out); n > 0 && out[n-1].End == r.Start && out[n-1].Value == r.Value {
			out[n-1].End = r.End
			return
		}
		out = append(out, r)
	}
	for _, r := range rs {
		switch {
		case r.End != pos.Unbounded && r.End <= y:
			appendRun(r)
		case r.Start > y:
			appendRun(run[T]{Start: r.Start - 1, End: unshiftEnd(r.End), Value: r.Value})
		case r.Start == y:
			if r.End != pos.Unbounded && r.End == y+1 {
				continue // the removed cell was this run's entire extent
			}
			appendRun(run[T]{Start: y, End: unshiftEnd(r.End), Value: r.Value})
		default: // r.Start < y < r.End (or unbounded)
			appendRun(run[T]{Start: r.Start, End: unshiftEnd(r.End), Value: r.Value})
		}
	}
	return out
}

func unshiftEnd(end int64) int64 {
	if end == pos.Unbounded {
		return pos.Unbounded
	}
	return end - 1
}

func equalRuns[T comparable](a, b runList[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func maxI(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a == pos.Unbounded {
		return b
	}
	if b == pos.Unbounded {
		return a
	}
	if a < b {
		return a
	}
	return b
}
