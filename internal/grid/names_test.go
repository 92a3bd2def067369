package grid

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/require"
)

func TestValidTableName(t *testing.T) {
	require.NoError(t, ValidTableName("Sales_2024"))
	require.Error(t, ValidTableName(""))
	require.Error(t, ValidTableName("1Sales"), "must not start with a digit")
	require.Error(t, ValidTableName("R"), "bare R collides with R1C1 addressing")
	require.Error(t, ValidTableName("A1"), "collides with an A1 cell reference")
	require.Error(t, ValidTableName("RC5"), "collides with an R1C1 cell reference")
}

func TestValidColumnName(t *testing.T) {
	require.NoError(t, ValidColumnName("Revenue ($)"))
	require.Error(t, ValidColumnName(""))
	require.Error(t, ValidColumnName("Col[1]"))
}

func TestValidateTableNameStruct(t *testing.T) {
	require.Equal(t, "", ValidateTableNameStruct("Orders"))
	require.Contains(t, ValidateTableNameStruct("R"), "INVALID_NAME")
}

func TestRenameTableEnforcesUniqueness(t *testing.T) {
	s := NewSheet("Sheet1")
	a := NewDataTable("Orders", pos.Pos{X: 1, Y: 1}, [][]CellValue{{NewText("x")}})
	b := NewDataTable("Customers", pos.Pos{X: 10, Y: 1}, [][]CellValue{{NewText("y")}})
	ReserveTable(s, a)
	ReserveTable(s, b)

	err := RenameTable(s, pos.Pos{X: 10, Y: 1}, "orders")
	require.Error(t, err, "case-insensitive collision with an existing table name")

	require.NoError(t, RenameTable(s, pos.Pos{X: 10, Y: 1}, "Vendors"))
	got, ok := s.TableByName("Vendors")
	require.True(t, ok)
	require.Equal(t, pos.Pos{X: 10, Y: 1}, got.Anchor)
}

func TestRenameColumnEnforcesUniqueness(t *testing.T) {
	tbl := NewDataTable("T", pos.Pos{X: 1, Y: 1}, [][]CellValue{{NewText("a"), NewText("b")}})
	tbl.ColumnHeaders = []ColumnHeader{{Name: "Col1"}, {Name: "Col2"}}

	require.Error(t, RenameColumn(nil, tbl, 1, "Col1"))
	require.NoError(t, RenameColumn(nil, tbl, 1, "Col3"))
	require.Equal(t, "Col3", tbl.ColumnHeaders[1].Name)

	require.Error(t, RenameColumn(nil, tbl, 5, "Oops"))
}

func TestRenameTableRewritesCodeReferences(t *testing.T) {
	s := NewSheet("Sheet1")
	orders := NewDataTable("Orders", pos.Pos{X: 1, Y: 1}, [][]CellValue{{NewText("x")}})
	ReserveTable(s, orders)

	s.SetCellValue(pos.Pos{X: 10, Y: 10}, NewCode("Formula", "=SUM(Orders[Total])"))
	s.SetCellValue(pos.Pos{X: 10, Y: 11}, NewCode("Formula", "=COUNTA(Orders)"))
	s.SetCellValue(pos.Pos{X: 10, Y: 12}, NewCode("Formula", "=LEN(\"Orders2\")"))

	require.NoError(t, RenameTable(s, pos.Pos{X: 1, Y: 1}, "Sales"))

	require.Equal(t, "=SUM(Sales[Total])", s.GetCellValue(pos.Pos{X: 10, Y: 10}).CodeText)
	require.Equal(t, "=COUNTA(Sales)", s.GetCellValue(pos.Pos{X: 10, Y: 11}).CodeText)
	require.Equal(t, "=LEN(\"Orders2\")", s.GetCellValue(pos.Pos{X: 10, Y: 12}).CodeText,
		"must not rewrite a substring match inside a longer token")
}

func TestRenameColumnRewritesCodeReferences(t *testing.T) {
	s := NewSheet("Sheet1")
	orders := NewDataTable("Orders", pos.Pos{X: 1, Y: 1}, [][]CellValue{{NewText("x"), NewText("y")}})
	orders.ColumnHeaders = []ColumnHeader{{Name: "Total"}, {Name: "Region"}}
	ReserveTable(s, orders)

	s.SetCellValue(pos.Pos{X: 10, Y: 10}, NewCode("Formula", "=SUM(Orders[Total])"))
	s.SetCellValue(pos.Pos{X: 10, Y: 11}, NewCode("Formula", "=SUM(Orders[[Total]:[Region]])"))
	s.SetCellValue(pos.Pos{X: 10, Y: 12}, NewCode("Formula", "=SUM(Other[Total])"))

	require.NoError(t, RenameColumn(s, orders, 0, "Revenue"))

	require.Equal(t, "=SUM(Orders[Revenue])", s.GetCellValue(pos.Pos{X: 10, Y: 10}).CodeText)
	require.Equal(t, "=SUM(Orders[[Revenue]:[Region]])", s.GetCellValue(pos.Pos{X: 10, Y: 11}).CodeText)
	require.Equal(t, "=SUM(Other[Total])", s.GetCellValue(pos.Pos{X: 10, Y: 12}).CodeText,
		"must not rewrite a same-named column on a different table")
}
