package formula

import (
	"github.com/quadratic-labs/gridcore/internal/grid"
)

func init() {
	Register(FuncSpec{
		Name: "VLOOKUP", MinArity: 3, MaxArity: 4, Category: CategoryLookup,
		Kernel: func(args []Array) (Array, error) {
			colIndex, err := AsInt(args[2].Values[0])
			if err != nil {
				return Array{}, ArgError(2, err)
			}
			isSorted := true
			if len(args) == 4 {
				isSorted, err = AsBool(args[3].Values[0])
				if err != nil {
					return Array{}, ArgError(3, err)
				}
			}
			v, err := VLookup(args[0].Values[0], args[1], colIndex, isSorted)
			if err != nil {
				return Array{}, err
			}
			return Single(v), nil
		},
	})

	Register(FuncSpec{
		Name: "HLOOKUP", MinArity: 3, MaxArity: 4, Category: CategoryLookup,
		Kernel: func(args []Array) (Array, error) {
			rowIndex, err := AsInt(args[2].Values[0])
			if err != nil {
				return Array{}, ArgError(2, err)
			}
			isSorted := true
			if len(args) == 4 {
				isSorted, err = AsBool(args[3].Values[0])
				if err != nil {
					return Array{}, ArgError(3, err)
				}
			}
			v, err := HLookup(args[0].Values[0], args[1], rowIndex, isSorted)
			if err != nil {
				return Array{}, err
			}
			return Single(v), nil
		},
	})

	Register(FuncSpec{
		Name: "XLOOKUP", MinArity: 3, MaxArity: 6, Category: CategoryLookup,
		Kernel: func(args []Array) (Array, error) {
			var fallback *grid.CellValue
			if len(args) >= 4 {
				v := args[3].Values[0]
				fallback = &v
			}
			matchMode := MatchExact
			if len(args) >= 5 {
				m, err := AsInt(args[4].Values[0])
				if err != nil {
					return Array{}, ArgError(4, err)
				}
				matchMode = xlookupMatchModeFromCode(m)
			}
			searchMode := SearchLinearForward
			if len(args) >= 6 {
				m, err := AsInt(args[5].Values[0])
				if err != nil {
					return Array{}, ArgError(5, err)
				}
				searchMode = xlookupSearchModeFromCode(m)
			}
			return XLookup(args[0].Values[0], args[1], args[2], fallback, matchMode, searchMode)
		},
	})

	Register(FuncSpec{
		Name: "MATCH", MinArity: 2, MaxArity: 3, Category: CategoryLookup,
		Kernel: func(args []Array) (Array, error) {
			matchType := int64(1)
			if len(args) == 3 {
				v, err := AsInt(args[2].Values[0])
				if err != nil {
					return Array{}, ArgError(2, err)
				}
				matchType = v
			}
			idx, ok, err := Match(args[0].Values[0], args[1].Linear(), int(matchType))
			if err != nil {
				return Array{}, err
			}
			if !ok {
				return Single(grid.NewError(grid.ErrNoMatch, "MATCH: no match found", nil)), nil
			}
			return Single(grid.NewNumber(decimalFromInt(idx))), nil
		},
	})

	Register(FuncSpec{
		Name: "XMATCH", MinArity: 2, MaxArity: 4, Category: CategoryLookup,
		Kernel: func(args []Array) (Array, error) {
			matchMode := MatchExact
			if len(args) >= 3 {
				m, err := AsInt(args[2].Values[0])
				if err != nil {
					return Array{}, ArgError(2, err)
				}
				matchMode = xlookupMatchModeFromCode(m)
			}
			searchMode := SearchLinearForward
			if len(args) >= 4 {
				m, err := AsInt(args[3].Values[0])
				if err != nil {
					return Array{}, ArgError(3, err)
				}
				searchMode = xlookupSearchModeFromCode(m)
			}
			idx, ok, err := XMatch(args[0].Values[0], args[1].Linear(), matchMode, searchMode)
			if err != nil {
				return Array{}, err
			}
			if !ok {
				return Single(grid.NewError(grid.ErrNoMatch, "XMATCH: no match found", nil)), nil
			}
			return Single(grid.NewNumber(decimalFromInt(idx))), nil
		},
	})

	Register(FuncSpec{
		Name: "LOOKUP", MinArity: 2, MaxArity: 3, Category: CategoryLookup,
		Kernel: func(args []Array) (Array, error) {
			var resultVector []grid.CellValue
			if len(args) == 3 {
				resultVector = args[2].Linear()
			}
			v, err := LookupVector(args[0].Values[0], args[1].Linear(), resultVector)
			if err != nil {
				return Array{}, err
			}
			return Single(v), nil
		},
	})
}

// xlookupMatchModeFromCode maps XLOOKUP's Excel-compatible match_mode
// integer (-1 next smaller, 0 exact, 1 next larger, 2 wildcard) onto
// MatchMode.
func xlookupMatchModeFromCode(code int64) MatchMode {
	switch code {
	case -1:
		return MatchNextSmaller
	case 1:
		return MatchNextLarger
	case 2:
		return MatchWildcard
	default:
		return MatchExact
	}
}

// xlookupSearchModeFromCode maps XLOOKUP's search_mode integer (1 linear
// forward, -1 linear reverse, 2 binary ascending, -2 binary descending)
// onto SearchMode.
func xlookupSearchModeFromCode(code int64) SearchMode {
	switch code {
	case -1:
		return SearchLinearReverse
	case 2:
		return SearchBinaryAscending
	case -2:
		return SearchBinaryDescending
	default:
		return SearchLinearForward
	}
}
