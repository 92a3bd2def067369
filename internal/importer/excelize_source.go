package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quadratic-labs/gridcore/internal/security"
	"github.com/quadratic-labs/gridcore/pkg/a1"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// ExcelizeSource is a WorkbookSource backed by github.com/xuri/excelize/v2,
// opened through a security.Manager path allow-list the same way the
// a file-handle manager gates access before calling
// excelize.OpenFile (internal/workbooks/workbooks.go). Unlike that
// manager, ExcelizeSource has no TTL cache or write path: it is a
// one-shot, read-only reader used to seed a grid.Sheet for demos and
// tests (SPEC_FULL.md [importer]).
type ExcelizeSource struct {
	file *excelize.File
}

// OpenExcelizeSource validates path against allowList's allow-listed
// directories and extensions, then opens it with excelize.
func OpenExcelizeSource(allowList *security.Manager, path string) (*ExcelizeSource, error) {
	canonical, err := allowList.ValidateOpenPath(path)
	if err != nil {
		return nil, griderr.Newf(griderr.PathNotAllowed, "importer: %s: %v", path, err)
	}
	f, err := excelize.OpenFile(canonical)
	if err != nil {
		return nil, griderr.Newf(griderr.OpenFailed, "importer: open %s: %v", canonical, err)
	}
	return &ExcelizeSource{file: f}, nil
}

// Sheets implements WorkbookSource.
func (s *ExcelizeSource) Sheets() []string {
	return s.file.GetSheetList()
}

// ReadRange implements WorkbookSource, parsing a1Range with pkg/a1's
// sheet-range grammar (no table/sheet-qualifier support here: this
// reads one already-selected sheet).
func (s *ExcelizeSource) ReadRange(sheet, a1Range string) ([][]string, error) {
	ref, err := a1.ParseRange(a1Range)
	if err != nil {
		return nil, griderr.Newf(griderr.InvalidReference, "importer: %s: %v", a1Range, err)
	}
	if ref.Kind != a1.KindSheet {
		return nil, griderr.Newf(griderr.InvalidReference, "importer: %s: table references are not supported", a1Range)
	}
	if ref.IsUnbounded() {
		return nil, griderr.New(griderr.Validation, "importer: ReadRange requires a bounded range")
	}
	rect, ok := ref.ToRect(nil)
	if !ok {
		return nil, griderr.New(griderr.InvalidReference, "importer: range did not resolve to a rectangle")
	}

	rows := make([][]string, 0, rect.Height())
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		row := make([]string, 0, rect.Width())
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			axis := fmt.Sprintf("%s%d", pos.ColumnName(x), y)
			v, err := s.file.GetCellValue(sheet, axis)
			if err != nil {
				return nil, griderr.Newf(griderr.Validation, "importer: read %s!%s: %v", sheet, axis, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close implements WorkbookSource.
func (s *ExcelizeSource) Close() error {
	return s.file.Close()
}
