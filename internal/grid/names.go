package grid

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/quadratic-labs/gridcore/pkg/a1"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

var (
	tableNameFirst  = regexp.MustCompile(`^[A-Za-z_\\\p{L}]`)
	tableNameRest   = regexp.MustCompile(`^[A-Za-z0-9_.\\\p{L}]*$`)
	columnNameValid = regexp.MustCompile(`^[^\[\]\n\r\t]{1,255}$`)
	a1CellPattern   = regexp.MustCompile(`^\$?[A-Za-z]{1,3}\$?[0-9]+$`)
	r1c1Pattern     = regexp.MustCompile(`(?i)^r[\-0-9\[\]]*c[\-0-9\[\]]*$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// nameValidator returns a singleton validator with the table/column name
// rules from spec §6 registered as custom tags, mirroring the
// validation.Validator() pattern of one process-wide *validator.Validate
// with registered custom funcs.
func nameValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("tablename", func(fl validator.FieldLevel) bool {
			return ValidTableName(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("columnname", func(fl validator.FieldLevel) bool {
			return ValidColumnName(fl.Field().String()) == nil
		})
	})
	return validate
}

type tableNameInput struct {
	Name string `validate:"required,tablename"`
}

type columnNameInput struct {
	Name string `validate:"required,columnname"`
}

// ValidTableName applies spec §6's table-name rules: 1-255 chars, first
// char in [A-Za-z_\\unicode-letter], remaining chars in
// [A-Za-z0-9_.\\unicode-letter], not a bare "R" or "C", and not matching an
// A1 or R1C1 cell-reference pattern (to avoid ambiguity with addressing).
func ValidTableName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > 255 {
		return fmt.Errorf("table name must be 1-255 characters")
	}
	if !tableNameFirst.MatchString(name) {
		return fmt.Errorf("table name must start with a letter, underscore, backslash, or unicode letter")
	}
	if !tableNameRest.MatchString(name) {
		return fmt.Errorf("table name contains an invalid character")
	}
	upper := strings.ToUpper(name)
	if upper == "R" || upper == "C" {
		return fmt.Errorf("table name cannot be a bare %q (collides with R1C1 addressing)", name)
	}
	if a1CellPattern.MatchString(name) {
		return fmt.Errorf("table name %q collides with an A1 cell reference", name)
	}
	if r1c1Pattern.MatchString(name) {
		return fmt.Errorf("table name %q collides with an R1C1 cell reference", name)
	}
	return nil
}

// ValidColumnName applies spec §6's column-name rules: 1-255 characters, a
// broader character class than table names (anything but brackets and
// control whitespace, since columns are addressed via `Tbl[Name]`
// bracket syntax and must not collide with its delimiters).
func ValidColumnName(name string) error {
	if !columnNameValid.MatchString(name) {
		return fmt.Errorf("column name must be 1-255 characters and must not contain '[', ']', or control whitespace")
	}
	return nil
}

// ValidateTableNameStruct runs ValidTableName through the shared validator
// singleton, matching the ValidateStruct convention for
// returning a user-facing error string.
func ValidateTableNameStruct(name string) string {
	if err := nameValidator().Struct(tableNameInput{Name: name}); err != nil {
		return "INVALID_NAME: " + err.Error()
	}
	return ""
}

// ValidateColumnNameStruct is ValidateTableNameStruct's column-name sibling.
func ValidateColumnNameStruct(name string) string {
	if err := nameValidator().Struct(columnNameInput{Name: name}); err != nil {
		return "INVALID_NAME: " + err.Error()
	}
	return ""
}

// uniqueTableName reports whether name is not already used among tables
// (case-insensitive). Only the tables in the given map are checked;
// RenameTable passes a single sheet's tables, so names on other sheets of
// the grid are not compared.
func uniqueTableName(tables map[string]*DataTable, name string, except string) bool {
	low := strings.ToLower(name)
	for _, t := range tables {
		if strings.EqualFold(t.Name, except) {
			continue
		}
		if strings.ToLower(t.Name) == low {
			return false
		}
	}
	return true
}

// uniqueColumnName reports whether name is unused among cols, excluding
// the column currently named except.
func uniqueColumnName(cols []ColumnHeader, name string, except string) bool {
	for _, c := range cols {
		if c.Name == except {
			continue
		}
		if c.Name == name {
			return false
		}
	}
	return true
}

// RenameTable validates newName against the table-name rules and the
// sheet's uniqueness constraint, then applies the rename in place and
// rewrites every code-cell reference that cited the old name (spec §4.3
// "Renaming a table ... rewrites all code cells and data-table code
// references that cite the old name").
func RenameTable(s *Sheet, anchor pos.Pos, newName string) error {
	t, ok := s.Table(anchor)
	if !ok {
		return fmt.Errorf("no table anchored at %v", anchor)
	}
	if err := ValidTableName(newName); err != nil {
		return err
	}
	if !uniqueTableName(s.tables, newName, t.Name) {
		return fmt.Errorf("table name %q is already in use on this sheet", newName)
	}
	oldName := t.Name
	t.Name = newName
	rewriteCodeCells(s, func(text string) (string, bool) {
		return replaceWholeToken(text, oldName, newName)
	})
	return nil
}

// RenameColumn validates newName against the column-name rules and the
// table's uniqueness constraint, then applies the rename in place. When s
// is non-nil, it also rewrites every `t.Name[...]` code-cell reference
// that cites the old column name (spec §4.3, same rewrite obligation as
// RenameTable). s may be nil when t is not anchored on any sheet yet.
func RenameColumn(s *Sheet, t *DataTable, columnIndex int, newName string) error {
	if columnIndex < 0 || columnIndex >= len(t.ColumnHeaders) {
		return fmt.Errorf("column index %d out of range", columnIndex)
	}
	if err := ValidColumnName(newName); err != nil {
		return err
	}
	oldName := t.ColumnHeaders[columnIndex].Name
	if !uniqueColumnName(t.ColumnHeaders, newName, oldName) {
		return fmt.Errorf("column name %q is already in use on this table", newName)
	}
	t.ColumnHeaders[columnIndex].Name = newName
	if s != nil {
		rewriteCodeCells(s, func(text string) (string, bool) {
			return rewriteColumnReferences(text, t.Name, oldName, newName)
		})
	}
	return nil
}

// rewriteCodeCells applies rewrite to the CodeText of every Code-kind
// cell on s, storing the result back when it changed. Only CellValue
// itself carries formula source text (DataTable has none); a
// rename therefore only ever needs to scan s.cells.
func rewriteCodeCells(s *Sheet, rewrite func(text string) (string, bool)) {
	for p, v := range s.cells {
		if v.Kind != Code {
			continue
		}
		if newText, changed := rewrite(v.CodeText); changed {
			v.CodeText = newText
			s.cells[p] = v
		}
	}
}

// identByte reports whether b can continue a table or column identifier
// token (the character classes ValidTableName/ValidColumnName allow,
// plus any non-ASCII byte as a conservative stand-in for \p{L}), so a
// whole-token match doesn't fire on a substring of a longer name.
func identByte(b byte) bool {
	return b == '_' || b == '.' || b == '\\' ||
		(b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') ||
		b >= 0x80
}

// replaceWholeToken substitutes every whole-token occurrence of old in
// text with newName, leaving occurrences that are part of a longer
// identifier (e.g. "Orders" inside "Orders2") untouched.
func replaceWholeToken(text, old, newName string) (string, bool) {
	if old == "" || old == newName {
		return text, false
	}
	var b strings.Builder
	idx := 0
	changed := false
	for {
		rel := strings.Index(text[idx:], old)
		if rel < 0 {
			b.WriteString(text[idx:])
			break
		}
		start := idx + rel
		end := start + len(old)
		b.WriteString(text[idx:start])
		before := start == 0 || !identByte(text[start-1])
		after := end == len(text) || !identByte(text[end])
		if before && after {
			b.WriteString(newName)
			changed = true
		} else {
			b.WriteString(old)
		}
		idx = end
	}
	return b.String(), changed
}

// tableBracketPattern matches one `[...]` group, allowing a single level
// of nested brackets for the `[[ColA]:[ColB]]` range form (pkg/a1's
// table-reference grammar).
var tableBracketPattern = regexp.MustCompile(`\[(?:[^\[\]]|\[[^\[\]]*\])*\]`)

// rewriteColumnReferences finds every `tableName[...]` occurrence in text
// and, where its column restriction names oldCol, rewrites that
// restriction to newCol by round-tripping the match through
// a1.ParseRange/a1.FormatRange. Occurrences naming other tables, or
// other columns of this table, are left untouched.
func rewriteColumnReferences(text, tableName, oldCol, newCol string) (string, bool) {
	var b strings.Builder
	idx := 0
	changed := false
	for {
		rel := strings.Index(text[idx:], tableName)
		if rel < 0 {
			b.WriteString(text[idx:])
			break
		}
		start := idx + rel
		afterName := start + len(tableName)
		beforeOK := start == 0 || !identByte(text[start-1])
		if !beforeOK || afterName >= len(text) || text[afterName] != '[' {
			b.WriteString(text[idx:afterName])
			idx = afterName
			continue
		}
		loc := tableBracketPattern.FindStringIndex(text[afterName:])
		if loc == nil || loc[0] != 0 {
			b.WriteString(text[idx:afterName])
			idx = afterName
			continue
		}
		matchEnd := afterName + loc[1]
		full := text[start:matchEnd]
		b.WriteString(text[idx:start])
		if r, err := a1.ParseRange(full); err == nil && r.Kind == a1.KindTable {
			rewritten := false
			if r.Table.Columns.ColA == oldCol {
				r.Table.Columns.ColA = newCol
				rewritten = true
			}
			if r.Table.Columns.ColB == oldCol {
				r.Table.Columns.ColB = newCol
				rewritten = true
			}
			if rewritten {
				b.WriteString(a1.FormatRange(r))
				changed = true
			} else {
				b.WriteString(full)
			}
		} else {
			b.WriteString(full)
		}
		idx = matchEnd
	}
	return b.String(), changed
}
