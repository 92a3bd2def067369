package mcpserver

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

func mustDecimal2(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestResolveFormulaArgRangeReadsLiveCells(t *testing.T) {
	sheet := grid.NewSheet("Sheet1")
	sheet.SetCellValue(pos.Pos{X: 1, Y: 1}, grid.NewNumber(mustDecimal2(t, "1")))
	sheet.SetCellValue(pos.Pos{X: 1, Y: 2}, grid.NewNumber(mustDecimal2(t, "2")))

	arr := resolveFormulaArg(sheet, "A1:A2")
	require.Equal(t, int64(1), arr.Width)
	require.Equal(t, int64(2), arr.Height)
	require.True(t, arr.Get(0, 0).NumberValue.Equal(mustDecimal2(t, "1")))
	require.True(t, arr.Get(0, 1).NumberValue.Equal(mustDecimal2(t, "2")))
}

func TestResolveFormulaArgLiteralNumber(t *testing.T) {
	sheet := grid.NewSheet("Sheet1")
	arr := resolveFormulaArg(sheet, "42")
	require.Equal(t, int64(1), arr.Width)
	require.Equal(t, grid.Number, arr.Get(0, 0).Kind)
}

func TestResolveFormulaArgLiteralBool(t *testing.T) {
	sheet := grid.NewSheet("Sheet1")
	arr := resolveFormulaArg(sheet, "TRUE")
	require.Equal(t, grid.Logical, arr.Get(0, 0).Kind)
	require.True(t, arr.Get(0, 0).BoolValue)
}

func TestResolveFormulaArgLiteralText(t *testing.T) {
	sheet := grid.NewSheet("Sheet1")
	arr := resolveFormulaArg(sheet, "hello")
	require.Equal(t, grid.Text, arr.Get(0, 0).Kind)
	require.Equal(t, "hello", arr.Get(0, 0).TextValue)
}
