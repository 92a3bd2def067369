package formula

import "github.com/quadratic-labs/gridcore/internal/grid"

func init() {
	// ERROR.TYPE surfaces the numbered taxonomy from spec §4.4 as a plain
	// number so formulas can branch on error kind (e.g.
	// IF(ERROR.TYPE(A1)=2, "div by zero", ...)). A non-error argument is
	// itself a NoMatch-flavored error, matching Excel's #N/A-on-non-error
	// behavior for this function.
	Register(FuncSpec{
		Name: "ERROR.TYPE", MinArity: 1, MaxArity: 1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if cells[0].Kind != grid.ErrorValue {
					return grid.NewError(grid.ErrNoMatch, "ERROR.TYPE: argument is not an error", nil)
				}
				return grid.NewNumber(decimalFromInt(int64(cells[0].ErrorVal.Kind)))
			})
		},
	})

	Register(FuncSpec{
		Name: "ISERROR", MinArity: 1, MaxArity: 1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				return grid.NewLogical(cells[0].Kind == grid.ErrorValue)
			})
		},
	})

	Register(FuncSpec{
		Name: "ISNA", MinArity: 1, MaxArity: 1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				return grid.NewLogical(cells[0].Kind == grid.ErrorValue && cells[0].ErrorVal.Kind == grid.ErrNoMatch)
			})
		},
	})

	Register(FuncSpec{
		Name: "ISBLANK", MinArity: 1, MaxArity: 1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				return grid.NewLogical(cells[0].Kind == grid.Blank)
			})
		},
	})

	Register(FuncSpec{
		Name: "ISNUMBER", MinArity: 1, MaxArity: 1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				return grid.NewLogical(cells[0].Kind == grid.Number)
			})
		},
	})

	Register(FuncSpec{
		Name: "ISTEXT", MinArity: 1, MaxArity: 1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				return grid.NewLogical(cells[0].Kind == grid.Text)
			})
		},
	})
}
