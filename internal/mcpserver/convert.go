package mcpserver

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quadratic-labs/gridcore/internal/grid"
)

// CellJSON is the wire encoding of a grid.CellValue for MCP tool
// input/output: one discriminated-union struct with jsonschema hints,
// matching this server's typed-schema tool I/O pattern
// (internal/registry/tools_foundation.go's SheetInfo/PreviewSheetInput
// style) rather than excelize's plain string cells.
type CellJSON struct {
	Kind string `json:"kind" jsonschema_description:"blank|number|text|logical|date|time|datetime|duration|error|code"`

	Number   string `json:"number,omitempty" jsonschema_description:"Decimal string, present when kind=number"`
	Text     string `json:"text,omitempty" jsonschema_description:"Present when kind=text"`
	Bool     bool   `json:"bool,omitempty" jsonschema_description:"Present when kind=logical"`
	Time     string `json:"time,omitempty" jsonschema_description:"RFC3339, present when kind=date|time|datetime"`
	Duration float64 `json:"duration,omitempty" jsonschema_description:"Seconds, present when kind=duration"`
	Error    string `json:"error,omitempty" jsonschema_description:"Error taxonomy name, present when kind=error"`
	Code     string `json:"code,omitempty" jsonschema_description:"Code cell source text, present when kind=code"`
}

// cellToJSON converts a grid.CellValue to its wire form.
func cellToJSON(v grid.CellValue) CellJSON {
	out := CellJSON{Kind: v.Kind.String()}
	switch v.Kind {
	case grid.Number:
		out.Number = v.NumberValue.String()
	case grid.Text:
		out.Text = v.TextValue
	case grid.Logical:
		out.Bool = v.BoolValue
	case grid.Date, grid.Time, grid.DateTime:
		out.Time = v.TimeValue.Format(time.RFC3339)
	case grid.Duration:
		out.Duration = v.DurationValue
	case grid.ErrorValue:
		out.Error = errorKindName(v.ErrorVal.Kind)
	case grid.Code:
		out.Code = v.CodeText
	}
	return out
}

// jsonToCell converts a wire CellJSON back to a grid.CellValue. Unknown or
// malformed kinds become Blank; callers validate kind against the known
// set before calling this when they need a hard error instead.
func jsonToCell(in CellJSON) grid.CellValue {
	switch in.Kind {
	case "number":
		d, err := decimal.NewFromString(in.Number)
		if err != nil {
			return grid.CellValue{Kind: grid.Blank}
		}
		return grid.NewNumber(d)
	case "text":
		return grid.NewText(in.Text)
	case "logical":
		return grid.NewLogical(in.Bool)
	case "datetime", "date", "time":
		t, err := time.Parse(time.RFC3339, in.Time)
		if err != nil {
			return grid.CellValue{Kind: grid.Blank}
		}
		kind := grid.DateTime
		if in.Kind == "date" {
			kind = grid.Date
		} else if in.Kind == "time" {
			kind = grid.Time
		}
		return grid.CellValue{Kind: kind, TimeValue: t}
	case "duration":
		return grid.CellValue{Kind: grid.Duration, DurationValue: in.Duration}
	default:
		return grid.CellValue{Kind: grid.Blank}
	}
}

func errorKindName(k grid.ErrorKind) string {
	switch k {
	case grid.ErrNull:
		return "NULL"
	case grid.ErrDivideByZero:
		return "DIV/0"
	case grid.ErrValue:
		return "VALUE"
	case grid.ErrBadCellReference:
		return "REF"
	case grid.ErrName:
		return "NAME"
	case grid.ErrNum:
		return "NUM"
	case grid.ErrNoMatch:
		return "N/A"
	default:
		return "ERROR"
	}
}

// FormatJSON is the wire encoding of a grid.CellFormat.
type FormatJSON struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	StrikeThrough bool   `json:"strikeThrough,omitempty"`
	TextColor     string `json:"textColor,omitempty"`
	FillColor     string `json:"fillColor,omitempty"`
	NumericFormat string `json:"numericFormat,omitempty"`
	Wrap          bool   `json:"wrap,omitempty"`
	Align         string `json:"align,omitempty"`
	VerticalAlign string `json:"verticalAlign,omitempty"`
}

func formatToJSON(f grid.CellFormat) FormatJSON {
	return FormatJSON{
		Bold:          f.Bold,
		Italic:        f.Italic,
		Underline:     f.Underline,
		StrikeThrough: f.StrikeThrough,
		TextColor:     f.TextColor,
		FillColor:     f.FillColor,
		NumericFormat: f.NumericFormat,
		Wrap:          f.Wrap,
		Align:         f.Align,
		VerticalAlign: f.VerticalAlign,
	}
}
