package grid

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellValueKind tags the CellValue union (spec §3, "Cell value").
type CellValueKind int

const (
	Blank CellValueKind = iota
	Number
	Text
	Logical
	Date
	Time
	DateTime
	Duration
	ErrorValue
	Html
	Image
	Code
)

func (k CellValueKind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Number:
		return "number"
	case Text:
		return "text"
	case Logical:
		return "logical"
	case Date:
		return "date"
	case Time:
		return "time"
	case DateTime:
		return "datetime"
	case Duration:
		return "duration"
	case ErrorValue:
		return "error"
	case Html:
		return "html"
	case Image:
		return "image"
	case Code:
		return "code"
	default:
		return "unknown"
	}
}

// ErrorKind is the evaluation error taxonomy from spec §4.4, numbered to
// match the ERROR.TYPE surface.
type ErrorKind int

const (
	ErrNull ErrorKind = iota + 1
	ErrDivideByZero
	ErrValue
	ErrBadCellReference
	ErrName
	ErrNum
	ErrNoMatch
)

// CellError is the payload of an ErrorValue cell: a taxonomy kind plus an
// optional source span locating it in the originating formula string
// (spec §6, "an optional span locating it in the originating formula").
type CellError struct {
	Kind ErrorKind
	Msg  string
	Span *Span
}

func (e CellError) Error() string { return e.Msg }

// Span is a half-open byte range [Start, End) within a formula string.
type Span struct {
	Start int
	End   int
}

// CellValue is the closed tagged union stored per-cell (spec §3). Only
// the field matching Kind is meaningful; Go has no sum types, so this is
// a conventional "one struct, exclusive fields" encoding, matching how
// Excel-derived workbook models represent its cell-type union.
type CellValue struct {
	Kind CellValueKind

	NumberValue decimal.Decimal
	TextValue   string
	BoolValue   bool
	TimeValue   time.Time
	// DurationValue is stored as a number of seconds; spreadsheets treat
	// durations as numeric day-fractions in the same vein as dates.
	DurationValue float64
	ErrorVal      CellError
	CodeLanguage  string // for CellValueKind == Code: "Formula", "Python", "Javascript", ...
	CodeText      string
}

// IsBlank reports whether the cell holds no value.
func (c CellValue) IsBlank() bool { return c.Kind == Blank }

// NewNumber builds a Number cell value.
func NewNumber(d decimal.Decimal) CellValue { return CellValue{Kind: Number, NumberValue: d} }

// NewText builds a Text cell value.
func NewText(s string) CellValue { return CellValue{Kind: Text, TextValue: s} }

// NewLogical builds a Logical cell value.
func NewLogical(b bool) CellValue { return CellValue{Kind: Logical, BoolValue: b} }

// NewError builds an ErrorValue cell value.
func NewError(kind ErrorKind, msg string, span *Span) CellValue {
	return CellValue{Kind: ErrorValue, ErrorVal: CellError{Kind: kind, Msg: msg, Span: span}}
}

// NewCode builds an edit-only Code placeholder; the resolved value lives
// on the co-located DataTable, never on this CellValue (spec §4.3).
func NewCode(language, text string) CellValue {
	return CellValue{Kind: Code, CodeLanguage: language, CodeText: text}
}

// Equal reports deep equality, used by tests and by the contiguous-2D
// cells map's change detection.
func (c CellValue) Equal(o CellValue) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case Number:
		return c.NumberValue.Equal(o.NumberValue)
	case Text:
		return c.TextValue == o.TextValue
	case Logical:
		return c.BoolValue == o.BoolValue
	case Date, Time, DateTime:
		return c.TimeValue.Equal(o.TimeValue)
	case Duration:
		return c.DurationValue == o.DurationValue
	case ErrorValue:
		return c.ErrorVal.Kind == o.ErrorVal.Kind && c.ErrorVal.Msg == o.ErrorVal.Msg
	case Code:
		return c.CodeLanguage == o.CodeLanguage && c.CodeText == o.CodeText
	default:
		return true // Blank, Html, Image: presence of Kind match is enough here
	}
}
