package formula

import (
	"strings"

	"github.com/quadratic-labs/gridcore/internal/grid"
)

// MatchMode selects how a needle is compared against haystack entries
// (spec §4.4, the lookup primitive's match_mode argument).
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchNextSmaller
	MatchNextLarger
	MatchWildcard
)

// SearchMode selects the traversal/algorithm used over haystack (spec
// §4.4, the lookup primitive's search_mode argument).
type SearchMode int

const (
	SearchLinearForward SearchMode = iota
	SearchLinearReverse
	SearchBinaryAscending
	SearchBinaryDescending
)

// isBinary reports whether mode performs a binary search, which requires
// haystack to already be sorted in the corresponding direction.
func (m SearchMode) isBinary() bool {
	return m == SearchBinaryAscending || m == SearchBinaryDescending
}

// Lookup is the core primitive spec.md §4.4 describes as
// `lookup(needle, haystack, match_mode, search_mode)`: it returns the
// 0-indexed position of the matching entry in haystack, or ok=false when
// nothing matches. Wildcard match is compatible only with linear search;
// combining Wildcard with a binary search_mode is a typed argument error,
// since a binary search has no way to test a pattern against an
// unordered-by-pattern haystack (grounded on the VLOOKUP/MATCH semantics
// described in spec §4.4/§7 and exercised by
// original_source/quadratic-core's lookup function test suite, since the
// Rust primitive's own source was not retained in this pack).
func Lookup(needle grid.CellValue, haystack []grid.CellValue, matchMode MatchMode, searchMode SearchMode) (int, bool, error) {
	if matchMode == MatchWildcard && searchMode.isBinary() {
		return 0, false, CoerceError{Expected: "linear search_mode with Wildcard match_mode", Got: "binary search_mode"}
	}

	switch searchMode {
	case SearchLinearForward:
		return lookupLinear(needle, haystack, matchMode, false)
	case SearchLinearReverse:
		return lookupLinear(needle, haystack, matchMode, true)
	case SearchBinaryAscending:
		return lookupBinary(needle, haystack, matchMode, true)
	case SearchBinaryDescending:
		return lookupBinary(needle, haystack, matchMode, false)
	default:
		return 0, false, CoerceError{Expected: "valid search_mode", Got: "unknown"}
	}
}

func lookupLinear(needle grid.CellValue, haystack []grid.CellValue, matchMode MatchMode, reverse bool) (int, bool, error) {
	n := len(haystack)
	bestIdx := -1
	var bestVal grid.CellValue

	visit := func(i int) (stop bool, err error) {
		hv := haystack[i]
		if hv.Kind == grid.ErrorValue {
			return false, nil // silently skipped, per VLOOKUP/HLOOKUP haystack semantics
		}
		switch matchMode {
		case MatchExact:
			if cellsEqualLoose(needle, hv) {
				bestIdx = i
				return true, nil
			}
		case MatchWildcard:
			ok, err := wildcardMatches(needle, hv)
			if err != nil {
				return false, err
			}
			if ok {
				bestIdx = i
				return true, nil
			}
		case MatchNextSmaller:
			cmp, ok := compareCells(hv, needle)
			if ok && cmp <= 0 && (bestIdx == -1 || betterCandidate(hv, bestVal, true)) {
				bestIdx, bestVal = i, hv
			}
		case MatchNextLarger:
			cmp, ok := compareCells(hv, needle)
			if ok && cmp >= 0 && (bestIdx == -1 || betterCandidate(hv, bestVal, false)) {
				bestIdx, bestVal = i, hv
			}
		}
		return false, nil
	}

	if reverse {
		for i := n - 1; i >= 0; i-- {
			stop, err := visit(i)
			if err != nil {
				return 0, false, err
			}
			if stop {
				break
			}
		}
	} else {
		for i := 0; i < n; i++ {
			stop, err := visit(i)
			if err != nil {
				return 0, false, err
			}
			if stop {
				break
			}
		}
	}
	return bestIdx, bestIdx >= 0, nil
}

// betterCandidate reports whether candidate improves on current for a
// next-smaller (preferSmaller) or next-larger search: the closest value
// to the needle on the allowed side wins.
func betterCandidate(candidate, current grid.CellValue, preferSmaller bool) bool {
	cmp, ok := compareCells(candidate, current)
	if !ok {
		return false
	}
	if preferSmaller {
		return cmp > 0 // candidate is larger (closer to needle from below) than current
	}
	return cmp < 0 // candidate is smaller (closer to needle from above) than current
}

// lookupBinary assumes haystack is sorted ascending (or descending, when
// ascending=false) and runs a binary search for the exact/next-smaller/
// next-larger match. Entries that are errors are treated as violating the
// sortedness precondition and skipped defensively rather than crashing
// the search.
func lookupBinary(needle grid.CellValue, haystack []grid.CellValue, matchMode MatchMode, ascending bool) (int, bool, error) {
	lo, hi := 0, len(haystack)-1
	bestIdx := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		hv := haystack[mid]
		if hv.Kind == grid.ErrorValue {
			// Can't order against an error; narrow conservatively toward lo.
			hi = mid - 1
			continue
		}
		cmp, ok := compareCells(hv, needle)
		if !ok {
			hi = mid - 1
			continue
		}
		// Candidate bookkeeping (which side of needle qualifies for
		// NextSmaller/NextLarger) is independent of sort direction; only
		// the half we narrow into depends on it.
		switch {
		case cmp == 0:
			return mid, true, nil
		case cmp < 0: // hv < needle
			if matchMode == MatchNextSmaller {
				bestIdx = mid
			}
			if ascending {
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		default: // hv > needle
			if matchMode == MatchNextLarger {
				bestIdx = mid
			}
			if ascending {
				hi = mid - 1
			} else {
				lo = mid + 1
			}
		}
	}
	return bestIdx, bestIdx >= 0, nil
}

// compareCells orders two cell values of matching kind, returning ok=false
// for kinds without a natural order (text-vs-number, errors).
func compareCells(a, b grid.CellValue) (int, bool) {
	if a.Kind != b.Kind {
		an, aerr := AsNumber(a)
		bn, berr := AsNumber(b)
		if aerr == nil && berr == nil {
			return an.Cmp(bn), true
		}
		return 0, false
	}
	switch a.Kind {
	case grid.Number:
		return a.NumberValue.Cmp(b.NumberValue), true
	case grid.Text:
		return strings.Compare(strings.ToLower(a.TextValue), strings.ToLower(b.TextValue)), true
	case grid.Logical:
		switch {
		case a.BoolValue == b.BoolValue:
			return 0, true
		case !a.BoolValue:
			return -1, true
		default:
			return 1, true
		}
	case grid.Date, grid.Time, grid.DateTime:
		switch {
		case a.TimeValue.Equal(b.TimeValue):
			return 0, true
		case a.TimeValue.Before(b.TimeValue):
			return -1, true
		default:
			return 1, true
		}
	default:
		return 0, false
	}
}

// cellsEqualLoose is exact-match equality for lookup, case-insensitive for
// text (VLOOKUP/MATCH exact match is case-insensitive per spec.md §4.4).
func cellsEqualLoose(a, b grid.CellValue) bool {
	if a.Kind == grid.Text && b.Kind == grid.Text {
		return strings.EqualFold(a.TextValue, b.TextValue)
	}
	cmp, ok := compareCells(a, b)
	return ok && cmp == 0
}

// wildcardMatches reports whether hay matches the `*`/`?` glob pattern in
// needle's text form, case-insensitively. `*` matches any run (including
// empty), `?` matches exactly one rune, `~*`/`~?` escape a literal
// wildcard character.
func wildcardMatches(needle, hay grid.CellValue) (bool, error) {
	pattern, err := AsText(needle)
	if err != nil {
		return false, err
	}
	text, err := AsText(hay)
	if err != nil {
		return false, err
	}
	return globMatch(strings.ToLower(pattern), strings.ToLower(text)), nil
}

// globToken is one parsed pattern unit: either a literal rune (wildcard
// metacharacters included, when escaped with `~`) or the `*`/`?`
// metacharacters themselves.
type globToken struct {
	star    bool
	anyOne  bool
	literal rune
}

func parseGlob(pattern string) []globToken {
	runes := []rune(pattern)
	tokens := make([]globToken, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		switch {
		case runes[i] == '~' && i+1 < len(runes):
			i++
			tokens = append(tokens, globToken{literal: runes[i]})
		case runes[i] == '*':
			tokens = append(tokens, globToken{star: true})
		case runes[i] == '?':
			tokens = append(tokens, globToken{anyOne: true})
		default:
			tokens = append(tokens, globToken{literal: runes[i]})
		}
	}
	return tokens
}

// globMatch implements the `*`/`?`/`~`-escape glob used by wildcard match
// mode, via the standard backtracking two-pointer scan.
func globMatch(pattern, text string) bool {
	p := parseGlob(pattern)
	s := []rune(text)
	var pi, si, starIdx, match int
	starIdx = -1
	for si < len(s) {
		switch {
		case pi < len(p) && p[pi].star:
			starIdx = pi
			match = si
			pi++
		case pi < len(p) && (p[pi].anyOne || p[pi].literal == s[si]):
			pi++
			si++
		case starIdx != -1:
			pi = starIdx + 1
			match++
			si = match
		default:
			return false
		}
	}
	for pi < len(p) && p[pi].star {
		pi++
	}
	return pi == len(p)
}
