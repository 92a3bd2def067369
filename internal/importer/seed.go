package importer

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// SeedSheet reads sourceSheet's a1Range from src and writes it into sheet
// starting at anchor, one cell per source cell. Values are sniffed into
// Number/Logical/Text the same way internal/insights profiles a column
// from raw strings (strconv.ParseFloat on a comma-stripped value, then
// TRUE/FALSE, else Text) — this is a demo/test seeding aid, not a
// format-preserving import: excelize's own type information (formulas,
// styles, dates) is deliberately discarded.
func SeedSheet(sheet *grid.Sheet, src WorkbookSource, sourceSheet, a1Range string, anchor pos.Pos) error {
	rows, err := src.ReadRange(sourceSheet, a1Range)
	if err != nil {
		return err
	}
	if !anchor.Valid() {
		return griderr.New(griderr.Validation, "importer: anchor must be >= (1,1)")
	}
	for dy, row := range rows {
		for dx, raw := range row {
			p := anchor.Translate(int64(dx), int64(dy))
			sheet.SetCellValue(p, sniffCellValue(raw))
		}
	}
	return nil
}

// sniffCellValue infers a CellValue kind from raw text: blank, logical,
// numeric, else text.
func sniffCellValue(raw string) grid.CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return grid.CellValue{Kind: grid.Blank}
	}
	switch strings.ToUpper(trimmed) {
	case "TRUE":
		return grid.NewLogical(true)
	case "FALSE":
		return grid.NewLogical(false)
	}
	clean := strings.ReplaceAll(trimmed, ",", "")
	if _, err := strconv.ParseFloat(clean, 64); err == nil {
		if d, err := decimal.NewFromString(clean); err == nil {
			return grid.NewNumber(d)
		}
	}
	return grid.NewText(raw)
}
