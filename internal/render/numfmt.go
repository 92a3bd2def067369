package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/nfp"

	"github.com/quadratic-labs/gridcore/internal/grid"
)

// FormatCellValue renders v as the text label the renderer draws for the
// cell's labels layer, applying format.NumericFormat when v is a Number
// (spec §4.3 "numeric_format" drives label rendering; spec §4.5 render
// data is "keyed by hash coordinates" but the per-cell rendering itself
// is this function). Parsing of the format string is delegated to
// github.com/xuri/nfp, an Excel number-format-code parser; only the
// section-selection and placeholder-rendering logic below is
// ours, adapted from float64/XF-record input to grid.CellValue input.
func FormatCellValue(v grid.CellValue, format grid.CellFormat) string {
	switch v.Kind {
	case grid.Blank:
		return ""
	case grid.Text:
		return v.TextValue
	case grid.Logical:
		if v.BoolValue {
			return "TRUE"
		}
		return "FALSE"
	case grid.ErrorValue:
		return errorLabel(v.ErrorVal.Kind)
	case grid.Date:
		return formatTimeValue(v, format, "2006-01-02")
	case grid.Time:
		return formatTimeValue(v, format, "15:04:05")
	case grid.DateTime:
		return formatTimeValue(v, format, "2006-01-02 15:04:05")
	case grid.Duration:
		return formatDuration(v.DurationValue)
	case grid.Code:
		return fmt.Sprintf("=%s(...)", v.CodeLanguage)
	case grid.Number:
		return formatNumber(v.NumberValue, format.NumericFormat)
	default:
		return ""
	}
}

func formatTimeValue(v grid.CellValue, format grid.CellFormat, defaultLayout string) string {
	if format.NumericFormat != "" && format.NumericFormat != "General" {
		if s, ok := renderWithNfpTime(v.TimeValue, format.NumericFormat); ok {
			return s
		}
	}
	return v.TimeValue.Format(defaultLayout)
}

func formatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	neg := total < 0
	if neg {
		total = -total
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}

func errorLabel(kind grid.ErrorKind) string {
	switch kind {
	case grid.ErrNull:
		return "#NULL!"
	case grid.ErrDivideByZero:
		return "#DIV/0!"
	case grid.ErrValue:
		return "#VALUE!"
	case grid.ErrBadCellReference:
		return "#REF!"
	case grid.ErrName:
		return "#NAME?"
	case grid.ErrNum:
		return "#NUM!"
	case grid.ErrNoMatch:
		return "#N/A"
	default:
		return "#ERROR!"
	}
}

// formatNumber renders d using an Excel-style numeric format string,
// falling back to "General" rendering when fmtStr is empty.
func formatNumber(d interface{ Float64() (float64, bool) }, fmtStr string) string {
	val, _ := d.Float64()
	if fmtStr == "" || fmtStr == "General" {
		return renderGeneral(val)
	}
	if s, ok := renderWithNfp(val, fmtStr); ok {
		return s
	}
	return renderGeneral(val)
}

// renderWithNfp renders val per fmtStr's sections. The time.Time overload
// exists for date/time cells carrying a custom numeric format; since
// grid's Date/Time/DateTime kinds already carry a time.Time (not an
// Excel serial), date tokens render straight from t rather than via
// nfp's serial-based date path used for legacy numeric-serial dates.
func renderWithNfp(val float64, fmtStr string) (string, bool) {
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(fmtStr)
	if len(sections) == 0 {
		return "", false
	}
	sec := selectSection(sections, val)
	return renderNumberSection(val, sec), true
}

func renderWithNfpTime(t interface{ Format(string) string }, fmtStr string) (string, bool) {
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(fmtStr)
	if len(sections) == 0 {
		return "", false
	}
	return t.Format(fmtStr), true
}

// selectSection picks the applicable section by sign, mirroring Excel's
// up-to-four-section convention (positive[;negative[;zero[;text]]]).
func selectSection(sections []nfp.Section, val float64) nfp.Section {
	switch {
	case len(sections) == 1:
		return sections[0]
	case len(sections) == 2:
		if val < 0 {
			return sections[1]
		}
		return sections[0]
	default:
		switch {
		case val > 0:
			return sections[0]
		case val < 0:
			return sections[1]
		default:
			return sections[2]
		}
	}
}

// renderNumberSection renders the absolute value of val per sec's
// placeholder tokens (0/#, decimal point, thousands separator, percent),
// reapplying the sign as a leading '-' for any negative val. Literal
// tokens in the section (signs, parentheses, currency text) are not
// rendered.
func renderNumberSection(val float64, sec nfp.Section) string {
	type meta struct {
		hasPercent   bool
		hasThousands bool
		decZeros     int
		decHashes    int
	}
	var m meta
	afterDecimal := false
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypePercent:
			m.hasPercent = true
		case nfp.TokenTypeThousandsSeparator:
			m.hasThousands = true
		case nfp.TokenTypeDecimalPoint:
			afterDecimal = true
		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				if tok.TType == nfp.TokenTypeZeroPlaceHolder {
					m.decZeros += len(tok.TValue)
				} else {
					m.decHashes += len(tok.TValue)
				}
			}
		}
	}
	places := m.decZeros + m.decHashes

	absVal := math.Abs(val)
	if m.hasPercent {
		absVal *= 100
	}

	formatted := strconv.FormatFloat(absVal, 'f', places, 64)
	intStr, fracStr := formatted, ""
	if dot := strings.IndexByte(formatted, '.'); dot >= 0 {
		intStr, fracStr = formatted[:dot], formatted[dot+1:]
	}
	if m.hasThousands {
		intStr = groupThousands(intStr)
	}

	var sb strings.Builder
	if val < 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(intStr)
	if places > 0 {
		sb.WriteByte('.')
		sb.WriteString(fracStr)
	}
	if m.hasPercent {
		sb.WriteByte('%')
	}
	return sb.String()
}

func groupThousands(intStr string) string {
	neg := strings.HasPrefix(intStr, "-")
	if neg {
		intStr = intStr[1:]
	}
	n := len(intStr)
	if n <= 3 {
		if neg {
			return "-" + intStr
		}
		return intStr
	}
	var parts []string
	for n > 3 {
		parts = append([]string{intStr[n-3:]}, parts...)
		intStr = intStr[:n-3]
		n = len(intStr)
	}
	parts = append([]string{intStr}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}

// renderGeneral formats val in Excel's "General" style: integers without
// a decimal point, fractional values with Go's shortest representation.
func renderGeneral(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'G', -1, 64)
	}
	if val == math.Trunc(val) && math.Abs(val) < 1e15 {
		return strconv.FormatInt(int64(val), 10)
	}
	return strconv.FormatFloat(val, 'G', -1, 64)
}
