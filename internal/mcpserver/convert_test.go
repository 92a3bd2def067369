package mcpserver

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/quadratic-labs/gridcore/internal/grid"
)

func TestCellToJSONRoundTripsNumber(t *testing.T) {
	v := grid.NewNumber(decimal.NewFromFloat(12.5))
	j := cellToJSON(v)
	require.Equal(t, "number", j.Kind)
	require.Equal(t, "12.5", j.Number)

	back := jsonToCell(j)
	require.Equal(t, grid.Number, back.Kind)
	require.True(t, back.NumberValue.Equal(v.NumberValue))
}

func TestCellToJSONText(t *testing.T) {
	v := grid.NewText("hello")
	j := cellToJSON(v)
	require.Equal(t, "text", j.Kind)
	require.Equal(t, "hello", j.Text)
	require.Equal(t, v, jsonToCell(j))
}

func TestCellToJSONLogical(t *testing.T) {
	v := grid.NewLogical(true)
	j := cellToJSON(v)
	require.Equal(t, "logical", j.Kind)
	require.True(t, j.Bool)
	require.Equal(t, v, jsonToCell(j))
}

func TestCellToJSONDateTime(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := grid.CellValue{Kind: grid.DateTime, TimeValue: ts}
	j := cellToJSON(v)
	require.Equal(t, "datetime", j.Kind)
	back := jsonToCell(j)
	require.True(t, back.TimeValue.Equal(ts))
}

func TestCellToJSONError(t *testing.T) {
	v := grid.NewError(grid.ErrDivideByZero, "div0", nil)
	j := cellToJSON(v)
	require.Equal(t, "error", j.Kind)
	require.Equal(t, "DIV/0", j.Error)
}

func TestJSONToCellUnknownKindIsBlank(t *testing.T) {
	back := jsonToCell(CellJSON{Kind: "nonsense"})
	require.Equal(t, grid.Blank, back.Kind)
}

func TestFormatToJSON(t *testing.T) {
	f := grid.CellFormat{Bold: true, FillColor: "#FF0000", NumericFormat: "0.00%"}
	j := formatToJSON(f)
	require.True(t, j.Bold)
	require.Equal(t, "#FF0000", j.FillColor)
	require.Equal(t, "0.00%", j.NumericFormat)
}
