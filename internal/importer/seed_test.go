package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/quadratic-labs/gridcore/internal/grid"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestSniffCellValue(t *testing.T) {
	require.Equal(t, grid.Blank, sniffCellValue("").Kind)
	require.Equal(t, grid.Blank, sniffCellValue("   ").Kind)

	logicalTrue := sniffCellValue("TRUE")
	require.Equal(t, grid.Logical, logicalTrue.Kind)
	require.True(t, logicalTrue.BoolValue)

	logicalFalse := sniffCellValue("false")
	require.Equal(t, grid.Logical, logicalFalse.Kind)
	require.False(t, logicalFalse.BoolValue)

	num := sniffCellValue("3.5")
	require.Equal(t, grid.Number, num.Kind)
	require.True(t, num.NumberValue.Equal(mustDecimal(t, "3.5")))

	txt := sniffCellValue("hello world")
	require.Equal(t, grid.Text, txt.Kind)
	require.Equal(t, "hello world", txt.TextValue)
}
