package a1

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/quadratic-labs/gridcore/pkg/pos"
)

var (
	cellTokenPattern  = regexp.MustCompile(`^\$?[A-Za-z]+\$?[0-9]+$`)
	colTokenPattern   = regexp.MustCompile(`^\$?[A-Za-z]+$`)
	rowTokenPattern   = regexp.MustCompile(`^\$?[0-9]+$`)
	sheetPrefixQuoted = regexp.MustCompile(`^'([^']*)'!(.*)$`)
	sheetPrefixBare   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)!(.*)$`)
)

// ParseError reports a malformed selection string, carrying the offending
// token for diagnostics (spec §6: "an optional span locating it").
type ParseError struct {
	Token string
	Msg   string
}

func (e *ParseError) Error() string { return fmt.Sprintf("a1: %s: %q", e.Msg, e.Token) }

// ParseSelection parses a comma-separated selection string (spec §6) into
// an A1Selection rooted at defaultSheetID. A `'Sheet Name'!` or `Name!`
// prefix on an individual range is accepted and discarded: the sheet name
// is not returned, and the selection's SheetID is always defaultSheetID,
// matching the single-sheet-selection model in §3.
func ParseSelection(s string, defaultSheetID string, cursor pos.Pos) (A1Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return A1Selection{}, &ParseError{Token: s, Msg: "empty selection"}
	}
	tokens := splitTopLevel(s)
	sel := A1Selection{SheetID: defaultSheetID, Cursor: cursor}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		_, rest := stripSheetPrefix(tok)
		r, err := ParseRange(rest)
		if err != nil {
			return A1Selection{}, err
		}
		sel.Ranges = append(sel.Ranges, r)
	}
	if len(sel.Ranges) == 0 {
		return A1Selection{}, &ParseError{Token: s, Msg: "no ranges parsed"}
	}
	return sel, nil
}

// splitTopLevel splits on commas outside of single-quoted sheet names and
// bracketed table column specs.
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	inQuote := false
	start := 0
	for i, c := range s {
		switch c {
		case '\'':
			inQuote = !inQuote
		case '[':
			if !inQuote {
				depth++
			}
		case ']':
			if !inQuote && depth > 0 {
				depth--
			}
		case ',':
			if !inQuote && depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func stripSheetPrefix(tok string) (sheetName string, rest string) {
	if m := sheetPrefixQuoted.FindStringSubmatch(tok); m != nil {
		return m[1], m[2]
	}
	if m := sheetPrefixBare.FindStringSubmatch(tok); m != nil {
		return m[1], m[2]
	}
	return "", tok
}

// ParseRange parses a single range token (no sheet prefix, no surrounding
// whitespace) per the grammar in spec §6.
func ParseRange(s string) (CellRefRange, error) {
	if s == "" {
		return CellRefRange{}, &ParseError{Token: s, Msg: "empty range"}
	}
	if s == "*" {
		return SheetRange(All()), nil
	}
	if strings.ContainsRune(s, '[') || looksLikeBareTableName(s) {
		return parseTableRef(s)
	}

	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		return parseSpanRange(s[:idx], s[idx+1:])
	}
	return parseSingleToken(s)
}

// looksLikeBareTableName reports whether s is a bare identifier that is
// not a cell or row token, i.e. it is a table name with an implicit
// [#Data] restriction. A letters-only token such as "Orders" is a table
// name; a single column is written as a span ("A:A").
func looksLikeBareTableName(s string) bool {
	if cellTokenPattern.MatchString(s) || rowTokenPattern.MatchString(s) {
		return false
	}
	return isIdentifier(s)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '\\' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r > 127:
			continue
		case i > 0 && (r == '.' || (r >= '0' && r <= '9')):
			continue
		default:
			return false
		}
	}
	return true
}

func parseSingleToken(s string) (CellRefRange, error) {
	switch {
	case cellTokenPattern.MatchString(s):
		col, row, err := parseCellToken(s)
		if err != nil {
			return CellRefRange{}, err
		}
		return SheetRange(SingleCell(col, row)), nil
	case colTokenPattern.MatchString(s):
		col := pos.ColumnIndex(strings.TrimPrefix(s, "$"))
		if col == 0 {
			return CellRefRange{}, &ParseError{Token: s, Msg: "invalid column"}
		}
		return SheetRange(ColumnRange(col, col)), nil
	case rowTokenPattern.MatchString(s):
		row, err := strconv.ParseInt(strings.TrimPrefix(s, "$"), 10, 64)
		if err != nil {
			return CellRefRange{}, &ParseError{Token: s, Msg: "invalid row"}
		}
		return SheetRange(RowRangeBounds(row, row)), nil
	}
	return parseTableRef(s)
}

func parseSpanRange(left, right string) (CellRefRange, error) {
	if right == "" {
		// "A1:" — unbounded to the bottom-right (spec §6).
		col, row, err := parseCellToken(left)
		if err != nil {
			return CellRefRange{}, err
		}
		return SheetRange(RefRangeBounds{
			Start: CellRef{Col: ColRef{Col: col}, Row: RowRef{Row: row}},
			End:   CellRef{Col: ColRef{Unbounded: true}, Row: RowRef{Unbounded: true}},
		}), nil
	}

	switch {
	case colTokenPattern.MatchString(left) && colTokenPattern.MatchString(right):
		x1 := pos.ColumnIndex(strings.TrimPrefix(left, "$"))
		x2 := pos.ColumnIndex(strings.TrimPrefix(right, "$"))
		return SheetRange(ColumnRange(x1, x2)), nil
	case rowTokenPattern.MatchString(left) && rowTokenPattern.MatchString(right):
		y1, err1 := strconv.ParseInt(strings.TrimPrefix(left, "$"), 10, 64)
		y2, err2 := strconv.ParseInt(strings.TrimPrefix(right, "$"), 10, 64)
		if err1 != nil || err2 != nil {
			return CellRefRange{}, &ParseError{Token: left + ":" + right, Msg: "invalid row span"}
		}
		return SheetRange(RowRangeBounds(y1, y2)), nil
	case cellTokenPattern.MatchString(left) && cellTokenPattern.MatchString(right):
		x1, y1, err := parseCellToken(left)
		if err != nil {
			return CellRefRange{}, err
		}
		x2, y2, err := parseCellToken(right)
		if err != nil {
			return CellRefRange{}, err
		}
		return SheetRange(NewRangeBounds(x1, y1, x2, y2)), nil
	}
	return CellRefRange{}, &ParseError{Token: left + ":" + right, Msg: "mismatched range endpoints"}
}

func parseCellToken(s string) (col, row int64, err error) {
	m := cellTokenPattern.FindString(s)
	if m == "" {
		return 0, 0, &ParseError{Token: s, Msg: "invalid cell reference"}
	}
	body := strings.ReplaceAll(s, "$", "")
	i := 0
	for i < len(body) && ((body[i] >= 'A' && body[i] <= 'Z') || (body[i] >= 'a' && body[i] <= 'z')) {
		i++
	}
	col = pos.ColumnIndex(body[:i])
	row, err = strconv.ParseInt(body[i:], 10, 64)
	if err != nil || col == 0 {
		return 0, 0, &ParseError{Token: s, Msg: "invalid cell reference"}
	}
	return col, row, nil
}

// parseTableRef parses `TableName`, `TableName[Column]`,
// `TableName[[ColA]:[ColB]]`, `TableName[#Headers]`, `TableName[#Data]`,
// `TableName[#All]`, and `TableName[#Totals]`.
func parseTableRef(s string) (CellRefRange, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if !isIdentifier(s) {
			return CellRefRange{}, &ParseError{Token: s, Msg: "invalid table name"}
		}
		return TableRangeOf(TableRef{TableName: s, Columns: TableColumns{Kind: TableColumnAll}}), nil
	}
	if !strings.HasSuffix(s, "]") {
		return CellRefRange{}, &ParseError{Token: s, Msg: "unterminated table spec"}
	}
	name := s[:open]
	inner := s[open+1 : len(s)-1]
	ref := TableRef{TableName: name, Columns: TableColumns{Kind: TableColumnAll}}

	switch {
	case inner == "":
		// falls through to the default (data body) below.
	case strings.EqualFold(inner, "#all"):
		ref.All = true
	case strings.EqualFold(inner, "#data"):
		ref.Data = true
	case strings.EqualFold(inner, "#headers"):
		ref.Headers = true
	case strings.EqualFold(inner, "#totals"):
		ref.Totals = true
	case strings.HasPrefix(inner, "["):
		colA, colB, err := parseColumnSpan(inner)
		if err != nil {
			return CellRefRange{}, err
		}
		ref.Columns = TableColumns{Kind: TableColumnRange, ColA: colA, ColB: colB}
	default:
		ref.Columns = TableColumns{Kind: TableColumnSingle, ColA: inner}
	}
	return TableRangeOf(ref), nil
}

func parseColumnSpan(inner string) (colA, colB string, err error) {
	parts := strings.SplitN(inner, ":", 2)
	first := strings.TrimSuffix(strings.TrimPrefix(parts[0], "["), "]")
	if len(parts) == 1 {
		return first, "", nil
	}
	second := strings.TrimSpace(parts[1])
	if second == "" {
		return first, "", &ParseError{Token: inner, Msg: "column-to-end not representable here"}
	}
	second = strings.TrimSuffix(strings.TrimPrefix(second, "["), "]")
	return first, second, nil
}

// Format renders a selection back into A1 string form, the ranges joined
// by commas. No sheet-name prefix is written.
func (s A1Selection) Format() string {
	parts := make([]string, 0, len(s.Ranges))
	for _, r := range s.Ranges {
		parts = append(parts, FormatRange(r))
	}
	return strings.Join(parts, ",")
}

// FormatRange renders a single range back to its A1 string form.
func FormatRange(r CellRefRange) string {
	if r.Kind == KindTable {
		return formatTableRef(r.Table)
	}
	b := r.Sheet
	if b == SheetRange(All()).Sheet {
		return "*"
	}
	switch {
	case b.IsSingleCell():
		return formatCellRef(b.Start)
	case b.IsColumnRange():
		return pos.ColumnName(b.Start.Col.Col) + ":" + pos.ColumnName(b.End.Col.Col)
	case b.IsRowRange():
		return strconv.FormatInt(b.Start.Row.Row, 10) + ":" + strconv.FormatInt(b.End.Row.Row, 10)
	case b.End.Col.Unbounded && b.End.Row.Unbounded:
		return formatCellRef(b.Start) + ":"
	default:
		return formatCellRef(b.Start) + ":" + formatCellRef(b.End)
	}
}

func formatCellRef(c CellRef) string {
	col := ""
	if c.Col.Unbounded {
		col = ""
	} else {
		col = pos.ColumnName(c.Col.Col)
	}
	if c.Col.Abs {
		col = "$" + col
	}
	row := ""
	if !c.Row.Unbounded {
		row = strconv.FormatInt(c.Row.Row, 10)
	}
	if c.Row.Abs {
		row = "$" + row
	}
	return col + row
}

func formatTableRef(t TableRef) string {
	base := t.TableName
	switch {
	case t.All:
		return base + "[#All]"
	case t.Headers:
		return base + "[#Headers]"
	case t.Totals:
		return base + "[#Totals]"
	}
	switch t.Columns.Kind {
	case TableColumnSingle:
		return base + "[" + t.Columns.ColA + "]"
	case TableColumnRange:
		return base + "[[" + t.Columns.ColA + "]:[" + t.Columns.ColB + "]]"
	case TableColumnToEnd:
		return base + "[[" + t.Columns.ColA + "]:]"
	default:
		return base
	}
}
