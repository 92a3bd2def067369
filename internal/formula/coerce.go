package formula

import (
	"fmt"
	"strings"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/shopspring/decimal"
)

// CoerceError is the typed "Expected {kind}, got {kind}" coercion failure
// from spec §4.4.
type CoerceError struct {
	Expected string
	Got      string
}

func (e CoerceError) Error() string {
	return fmt.Sprintf("Expected %s, got %s", e.Expected, e.Got)
}

func expected(kind string, v grid.CellValue) error {
	return CoerceError{Expected: kind, Got: v.Kind.String()}
}

// AsBool coerces a cell value to bool: Logical values pass through,
// Number values are truthy when nonzero, Text "true"/"false"
// (case-insensitive) parse, Blank coerces to false, everything else is a
// typed coercion error. An ErrorValue propagates itself unchanged.
func AsBool(v grid.CellValue) (bool, error) {
	switch v.Kind {
	case grid.Logical:
		return v.BoolValue, nil
	case grid.Number:
		return !v.NumberValue.IsZero(), nil
	case grid.Blank:
		return false, nil
	case grid.Text:
		switch strings.ToLower(v.TextValue) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, expected("logical", v)
	case grid.ErrorValue:
		return false, v.ErrorVal
	default:
		return false, expected("logical", v)
	}
}

// AsNumber coerces a cell value to decimal.Decimal: Number passes
// through, Logical maps to 0/1, Text parses as a decimal literal, Blank
// coerces to zero.
func AsNumber(v grid.CellValue) (decimal.Decimal, error) {
	switch v.Kind {
	case grid.Number:
		return v.NumberValue, nil
	case grid.Logical:
		if v.BoolValue {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case grid.Blank:
		return decimal.Zero, nil
	case grid.Text:
		d, err := decimal.NewFromString(strings.TrimSpace(v.TextValue))
		if err != nil {
			return decimal.Zero, expected("number", v)
		}
		return d, nil
	case grid.ErrorValue:
		return decimal.Zero, v.ErrorVal
	default:
		return decimal.Zero, expected("number", v)
	}
}

// AsInt coerces to a plain int64, rejecting fractional values.
func AsInt(v grid.CellValue) (int64, error) {
	d, err := AsNumber(v)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, CoerceError{Expected: "integer", Got: "fractional number"}
	}
	return d.IntPart(), nil
}

// AsText coerces to a display string: Text passes through, Number/Logical
// render their canonical textual form, Blank coerces to "".
func AsText(v grid.CellValue) (string, error) {
	switch v.Kind {
	case grid.Text:
		return v.TextValue, nil
	case grid.Number:
		return v.NumberValue.String(), nil
	case grid.Logical:
		if v.BoolValue {
			return "TRUE", nil
		}
		return "FALSE", nil
	case grid.Blank:
		return "", nil
	case grid.ErrorValue:
		return "", v.ErrorVal
	default:
		return "", expected("text", v)
	}
}

// ArgError wraps a coercion or argument-shape failure with the offending
// argument's 0-indexed position, surfaced as a griderr.Validation.
func ArgError(pos int, err error) error {
	return griderr.Newf(griderr.Validation, "argument %d: %s", pos, err.Error())
}
