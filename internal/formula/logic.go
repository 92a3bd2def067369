package formula

import (
	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
)

// errorOf extracts the CellError payload from an ErrorValue cell value.
func errorOf(v grid.CellValue) grid.CellError { return v.ErrorVal }

func init() {
	Register(FuncSpec{
		Name: "IF", MinArity: 2, MaxArity: 3, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if cells[0].Kind == grid.ErrorValue {
					return cells[0]
				}
				cond, err := AsBool(cells[0])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				if cond {
					return cells[1]
				}
				if len(cells) == 3 {
					return cells[2]
				}
				return grid.NewLogical(false)
			})
		},
	})

	// IFS evaluates condition/value pairs left to right and returns the
	// first value whose condition is true; an error in any evaluated
	// condition short-circuits and propagates immediately (spec §7,
	// "errors propagate ... unless the function is itself error-aware").
	Register(FuncSpec{
		Name: "IFS", MinArity: 2, MaxArity: -1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			if len(args)%2 != 0 {
				return Array{}, griderr.New(griderr.Validation, "IFS requires condition/value pairs")
			}
			for i := 0; i+1 < len(args); i += 2 {
				cv := args[i].Values[0]
				if cv.Kind == grid.ErrorValue {
					return Single(cv), nil
				}
				cond, err := AsBool(cv)
				if err != nil {
					return Single(grid.NewError(grid.ErrValue, err.Error(), nil)), nil
				}
				if cond {
					return Single(args[i+1].Values[0]), nil
				}
			}
			return Single(grid.NewError(grid.ErrNoMatch, "IFS: no condition matched", nil)), nil
		},
	})

	Register(FuncSpec{
		Name: "IFERROR", MinArity: 2, MaxArity: 2, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if cells[0].Kind == grid.ErrorValue {
					return cells[1]
				}
				return cells[0]
			})
		},
	})

	Register(FuncSpec{
		Name: "IFNA", MinArity: 2, MaxArity: 2, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if cells[0].Kind == grid.ErrorValue && errorOf(cells[0]).Kind == grid.ErrNoMatch {
					return cells[1]
				}
				return cells[0]
			})
		},
	})

	Register(FuncSpec{
		Name: "AND", MinArity: 1, MaxArity: -1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) { return logicalFold(args, true) },
	})

	Register(FuncSpec{
		Name: "OR", MinArity: 1, MaxArity: -1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) { return logicalFold(args, false) },
	})

	Register(FuncSpec{
		Name: "NOT", MinArity: 1, MaxArity: 1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if cells[0].Kind == grid.ErrorValue {
					return cells[0]
				}
				b, err := AsBool(cells[0])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				return grid.NewLogical(!b)
			})
		},
	})

	Register(FuncSpec{
		Name: "XOR", MinArity: 1, MaxArity: -1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			result := false
			for _, a := range args {
				for _, cell := range a.Values {
					if cell.Kind == grid.ErrorValue {
						return Single(cell), nil
					}
					b, err := AsBool(cell)
					if err != nil {
						return Single(grid.NewError(grid.ErrValue, err.Error(), nil)), nil
					}
					if b {
						result = !result
					}
				}
			}
			return Single(grid.NewLogical(result)), nil
		},
	})

	// SWITCH compares expression against value1, value2, ... pairwise,
	// returning the matching result; a trailing unpaired argument is the
	// default fallthrough value.
	Register(FuncSpec{
		Name: "SWITCH", MinArity: 3, MaxArity: -1, Category: CategoryLogic,
		Kernel: func(args []Array) (Array, error) {
			expr := args[0].Values[0]
			if expr.Kind == grid.ErrorValue {
				return Single(expr), nil
			}
			rest := args[1:]
			i := 0
			for ; i+1 < len(rest); i += 2 {
				candidate := rest[i].Values[0]
				if candidate.Kind == grid.ErrorValue {
					return Single(candidate), nil
				}
				if cellsEqualLoose(expr, candidate) {
					return Single(rest[i+1].Values[0]), nil
				}
			}
			if i < len(rest) {
				return Single(rest[i].Values[0]), nil
			}
			return Single(grid.NewError(grid.ErrNoMatch, "SWITCH: no match and no default", nil)), nil
		},
	})
}

// logicalFold implements AND (and=true, short-circuits on first false)
// and OR (and=false, short-circuits on first true) over every value in
// every argument array, propagating the first error encountered.
func logicalFold(args []Array, and bool) (Array, error) {
	result := and
	for _, a := range args {
		for _, cell := range a.Values {
			if cell.Kind == grid.ErrorValue {
				return Single(cell), nil
			}
			b, err := AsBool(cell)
			if err != nil {
				return Single(grid.NewError(grid.ErrValue, err.Error(), nil)), nil
			}
			if and && !b {
				return Single(grid.NewLogical(false)), nil
			}
			if !and && b {
				return Single(grid.NewLogical(true)), nil
			}
		}
	}
	return Single(grid.NewLogical(result)), nil
}
