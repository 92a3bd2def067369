package mcpserver

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quadratic-labs/gridcore/internal/formula"
	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// resolveFormulaArg turns one run_formula argument string into a
// formula.Array: an A1 range reads live cells off sheet; anything else is
// parsed as a literal (TRUE/FALSE, number, else text). Unlike
// internal/importer's sniffCellValue, commas are not stripped before the
// number check and an empty string stays text rather than blank.
func resolveFormulaArg(sheet *grid.Sheet, raw string) formula.Array {
	if rect, ok := resolveRange(raw); ok {
		w := rect.Width()
		h := rect.Height()
		values := make([]grid.CellValue, 0, w*h)
		for y := rect.Min.Y; y <= rect.Max.Y; y++ {
			for x := rect.Min.X; x <= rect.Max.X; x++ {
				values = append(values, sheet.GetCellValue(pos.Pos{X: x, Y: y}))
			}
		}
		return formula.NewArray(w, h, values)
	}
	return formula.Single(literalCellValue(raw))
}

func literalCellValue(raw string) grid.CellValue {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToUpper(trimmed) {
	case "TRUE":
		return grid.NewLogical(true)
	case "FALSE":
		return grid.NewLogical(false)
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if d, err := decimal.NewFromString(trimmed); err == nil {
			return grid.NewNumber(d)
		}
	}
	return grid.NewText(raw)
}
