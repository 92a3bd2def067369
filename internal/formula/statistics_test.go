package formula

import (
	"testing"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/stretchr/testify/require"
)

func TestNormDistCumulativeAtMean(t *testing.T) {
	got := callOrFail(t, "NORM.DIST", Single(num(100)), Single(num(100)), Single(num(15)), Single(grid.NewLogical(true)))
	f, _ := got.NumberValue.Float64()
	require.InDelta(t, 0.5, f, 1e-9, "CDF at the mean of a normal distribution is exactly 0.5")
}

func TestNormDistRejectsNonPositiveStdDev(t *testing.T) {
	got := callOrFail(t, "NORM.DIST", Single(num(1)), Single(num(0)), Single(num(0)), Single(grid.NewLogical(true)))
	require.Equal(t, grid.ErrorValue, got.Kind)
	require.Equal(t, grid.ErrNum, got.ErrorVal.Kind)
}

func TestNormInvIsInverseOfNormDist(t *testing.T) {
	got := callOrFail(t, "NORM.INV", Single(grid.NewNumber(decimalFromFloat(0.5))), Single(num(100)), Single(num(15)))
	f, _ := got.NumberValue.Float64()
	require.InDelta(t, 100, f, 1e-9)
}

func TestBinomDistMatchesKnownValue(t *testing.T) {
	p := Single(grid.NewNumber(decimalFromFloat(0.5)))
	got := callOrFail(t, "BINOM.DIST", Single(num(3)), Single(num(10)), p, Single(grid.NewLogical(false)))
	f, _ := got.NumberValue.Float64()
	require.InDelta(t, 0.1171875, f, 1e-9)
}

func TestExponDistCumulative(t *testing.T) {
	got := callOrFail(t, "EXPON.DIST", Single(num(1)), Single(num(2)), Single(grid.NewLogical(true)))
	f, _ := got.NumberValue.Float64()
	require.InDelta(t, 1-0.1353352832, f, 1e-6)
}
