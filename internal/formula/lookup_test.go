package formula

import (
	"testing"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func num(v int64) grid.CellValue { return grid.NewNumber(decimal.NewFromInt(v)) }

// TestVLookupSortedData is spec scenario S1.
func TestVLookupSortedData(t *testing.T) {
	table := NewArray(2, 4, []grid.CellValue{
		num(1), grid.NewText("one"),
		num(2), grid.NewText("two"),
		num(50), grid.NewText("fifty"),
		num(100), grid.NewText("hundred"),
	})
	got, err := VLookup(num(50), table, 2, false)
	require.NoError(t, err)
	require.Equal(t, "fifty", got.TextValue)
}

// TestXLookupFallbackAndNextSmaller is spec scenario S2.
func TestXLookupFallbackAndNextSmaller(t *testing.T) {
	haystack := NewArray(1, 4, []grid.CellValue{num(1), num(2), num(50), num(100)})
	results := NewArray(3, 4, []grid.CellValue{
		num(1), grid.NewText("one"), grid.NewText("wan"),
		num(2), grid.NewText("two"), grid.NewText("tu"),
		num(50), grid.NewText("fifty"), grid.NewText("mute"),
		num(100), grid.NewText("hundred"), grid.NewText("ale"),
	})
	fallback := grid.NewText("x")
	got, err := XLookup(num(75), haystack, results, &fallback, MatchNextSmaller, SearchLinearForward)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.Width)
	require.True(t, got.Get(0, 0).Equal(num(50)))
	require.Equal(t, "fifty", got.Get(1, 0).TextValue)
	require.Equal(t, "mute", got.Get(2, 0).TextValue)
}

func TestMatchDefaultModes(t *testing.T) {
	ascending := []grid.CellValue{num(1), num(2), num(50), num(100)}

	idx, ok, err := Match(num(40), ascending, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), idx, "next-smaller: 2 is the largest value <= 40")

	idx, ok, err = Match(num(50), ascending, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(3), idx)

	// match_type -1 requires haystack sorted descending, per Excel's MATCH contract.
	descending := []grid.CellValue{num(100), num(50), num(2), num(1)}
	idx, ok, err = Match(num(3), descending, -1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), idx, "next-larger: 50 is the smallest value >= 3 in a descending array")
}

// TestLookupExactLinearAgreement is spec property 6: Exact+LinearForward
// and Exact+LinearReverse must agree on a haystack with a unique match.
func TestLookupExactLinearAgreement(t *testing.T) {
	haystack := []grid.CellValue{num(5), num(7), num(9), num(11)}
	forward, okF, err := Lookup(num(9), haystack, MatchExact, SearchLinearForward)
	require.NoError(t, err)
	reverse, okR, err := Lookup(num(9), haystack, MatchExact, SearchLinearReverse)
	require.NoError(t, err)
	require.True(t, okF)
	require.True(t, okR)
	require.Equal(t, forward, reverse)
}

func TestLookupWildcardRejectsBinarySearch(t *testing.T) {
	_, _, err := Lookup(grid.NewText("a*"), []grid.CellValue{grid.NewText("abc")}, MatchWildcard, SearchBinaryAscending)
	require.Error(t, err)
}

func TestLookupWildcardMatchesGlob(t *testing.T) {
	haystack := []grid.CellValue{grid.NewText("apple"), grid.NewText("banana"), grid.NewText("grape")}
	idx, ok, err := Lookup(grid.NewText("*ap*"), haystack, MatchWildcard, SearchLinearForward)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, idx)
}

func TestMatchNoMatchReturnsNotOk(t *testing.T) {
	_, ok, err := Match(num(999), []grid.CellValue{num(1), num(2)}, 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLookupSkipsErrorsInHaystack(t *testing.T) {
	haystack := []grid.CellValue{
		grid.NewError(grid.ErrDivideByZero, "boom", nil),
		num(5),
	}
	idx, ok, err := Lookup(num(5), haystack, MatchExact, SearchLinearForward)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}
