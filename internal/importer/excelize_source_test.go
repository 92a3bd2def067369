package importer

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/internal/security"
	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "qty"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "widgets"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 12))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "gadgets"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "1,234"))

	path := filepath.Join(real, "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestExcelizeSourceSheetsAndReadRange(t *testing.T) {
	path := writeFixture(t)
	allow, err := security.NewManager([]string{filepath.Dir(path)}, nil)
	require.NoError(t, err)

	src, err := OpenExcelizeSource(allow, path)
	require.NoError(t, err)
	defer src.Close()

	require.Contains(t, src.Sheets(), "Sheet1")

	rows, err := src.ReadRange("Sheet1", "A1:B3")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"name", "qty"},
		{"widgets", "12"},
		{"gadgets", "1,234"},
	}, rows)
}

func TestOpenExcelizeSourceRejectsPathOutsideAllowList(t *testing.T) {
	path := writeFixture(t)
	otherDir := t.TempDir()
	allow, err := security.NewManager([]string{otherDir}, nil)
	require.NoError(t, err)

	_, err = OpenExcelizeSource(allow, path)
	require.Error(t, err)
}

func TestSeedSheetSniffsValueKinds(t *testing.T) {
	path := writeFixture(t)
	allow, err := security.NewManager([]string{filepath.Dir(path)}, nil)
	require.NoError(t, err)
	src, err := OpenExcelizeSource(allow, path)
	require.NoError(t, err)
	defer src.Close()

	sheet := grid.NewSheet("imported")
	require.NoError(t, SeedSheet(sheet, src, "Sheet1", "A1:B3", pos.Pos{X: 1, Y: 1}))

	require.Equal(t, "name", sheet.GetCellValue(pos.Pos{X: 1, Y: 1}).TextValue)
	qty := sheet.GetCellValue(pos.Pos{X: 2, Y: 2})
	require.Equal(t, grid.Number, qty.Kind)
	require.True(t, qty.NumberValue.Equal(mustDecimal(t, "12")))

	amount := sheet.GetCellValue(pos.Pos{X: 2, Y: 3})
	require.Equal(t, grid.Number, amount.Kind)
	require.True(t, amount.NumberValue.Equal(mustDecimal(t, "1234")))
}

func TestReadRangeRejectsUnboundedRange(t *testing.T) {
	path := writeFixture(t)
	allow, err := security.NewManager([]string{filepath.Dir(path)}, nil)
	require.NoError(t, err)
	src, err := OpenExcelizeSource(allow, path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.ReadRange("Sheet1", "A:B")
	require.Error(t, err)
}
