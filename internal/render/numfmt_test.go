package render

import (
	"testing"
	"time"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatCellValueGeneralNumber(t *testing.T) {
	v := grid.NewNumber(decimal.NewFromInt(42))
	require.Equal(t, "42", FormatCellValue(v, grid.CellFormat{}))
}

func TestFormatCellValuePercentFormat(t *testing.T) {
	v := grid.NewNumber(decimal.NewFromFloat(0.256))
	got := FormatCellValue(v, grid.CellFormat{NumericFormat: "0.0%"})
	require.Equal(t, "25.6%", got)
}

func TestFormatCellValueThousandsSeparator(t *testing.T) {
	v := grid.NewNumber(decimal.NewFromInt(1234567))
	got := FormatCellValue(v, grid.CellFormat{NumericFormat: "#,##0"})
	require.Equal(t, "1,234,567", got)
}

func TestFormatCellValueNegativeNumber(t *testing.T) {
	v := grid.NewNumber(decimal.NewFromInt(-50))
	got := FormatCellValue(v, grid.CellFormat{NumericFormat: "0.00"})
	require.Equal(t, "-50.00", got)
}

func TestFormatCellValueText(t *testing.T) {
	require.Equal(t, "hello", FormatCellValue(grid.NewText("hello"), grid.CellFormat{}))
}

func TestFormatCellValueLogical(t *testing.T) {
	require.Equal(t, "TRUE", FormatCellValue(grid.NewLogical(true), grid.CellFormat{}))
	require.Equal(t, "FALSE", FormatCellValue(grid.NewLogical(false), grid.CellFormat{}))
}

func TestFormatCellValueError(t *testing.T) {
	v := grid.NewError(grid.ErrDivideByZero, "boom", nil)
	require.Equal(t, "#DIV/0!", FormatCellValue(v, grid.CellFormat{}))
}

func TestFormatCellValueDate(t *testing.T) {
	v := grid.CellValue{Kind: grid.Date, TimeValue: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	require.Equal(t, "2024-03-15", FormatCellValue(v, grid.CellFormat{}))
}

func TestFormatCellValueBlank(t *testing.T) {
	require.Equal(t, "", FormatCellValue(grid.CellValue{Kind: grid.Blank}, grid.CellFormat{}))
}
