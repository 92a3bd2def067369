package formula

import (
	"testing"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/stretchr/testify/require"
)

func TestBitwiseFunctions(t *testing.T) {
	require.True(t, callOrFail(t, "BITAND", Single(num(5)), Single(num(3))).Equal(num(1)))
	require.True(t, callOrFail(t, "BITOR", Single(num(5)), Single(num(3))).Equal(num(7)))
	require.True(t, callOrFail(t, "BITXOR", Single(num(5)), Single(num(3))).Equal(num(6)))
	require.True(t, callOrFail(t, "BITLSHIFT", Single(num(4)), Single(num(2))).Equal(num(16)))
	require.True(t, callOrFail(t, "BITRSHIFT", Single(num(16)), Single(num(2))).Equal(num(4)))
}

func TestBitwiseRejectsNegativeOperands(t *testing.T) {
	got := callOrFail(t, "BITAND", Single(num(-1)), Single(num(3)))
	require.Equal(t, grid.ErrorValue, got.Kind)
}

func TestBitShiftNegativeAmountShiftsOpposite(t *testing.T) {
	// BITLSHIFT with a negative shift behaves like a right shift
	// (engineering.rs: shift < 0 => n >> -shift).
	require.True(t, callOrFail(t, "BITLSHIFT", Single(num(16)), Single(num(-2))).Equal(num(4)))
}

func TestDecBinRoundTrip(t *testing.T) {
	bin := callOrFail(t, "DEC2BIN", Single(num(10)))
	require.Equal(t, "1010", bin.TextValue)
	dec := callOrFail(t, "BIN2DEC", Single(bin))
	require.True(t, dec.Equal(num(10)))
}

func TestDecHexRoundTrip(t *testing.T) {
	hex := callOrFail(t, "DEC2HEX", Single(num(255)))
	require.Equal(t, "ff", hex.TextValue)
	dec := callOrFail(t, "HEX2DEC", Single(hex))
	require.True(t, dec.Equal(num(255)))
}
