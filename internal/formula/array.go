// Package formula is the evaluation core: a function registry, argument
// coercion, the zip-map broadcast contract, and the lookup/logic/
// statistics/engineering function families (spec §4.4).
package formula

import (
	"github.com/quadratic-labs/gridcore/internal/grid"
)

// Array is a row-major 2D array of cell values, the evaluator's native
// intermediate representation for both literal array syntax (`{1,2;3,4}`)
// and range references (spec §4.4 "Argument coercion ... array").
type Array struct {
	Width, Height int64
	Values        []grid.CellValue // row-major, len == Width*Height
}

// NewArray builds an Array from row-major values. The shape is not
// checked: callers pass len(values) == width*height.
func NewArray(width, height int64, values []grid.CellValue) Array {
	return Array{Width: width, Height: height, Values: values}
}

// Single wraps one CellValue as a 1x1 Array, used when a scalar argument
// needs to participate in zip-map broadcasting alongside real arrays.
func Single(v grid.CellValue) Array {
	return Array{Width: 1, Height: 1, Values: []grid.CellValue{v}}
}

// Get returns the value at (x, y), 0-indexed.
func (a Array) Get(x, y int64) grid.CellValue {
	if x < 0 || x >= a.Width || y < 0 || y >= a.Height {
		return grid.CellValue{Kind: grid.Blank}
	}
	return a.Values[y*a.Width+x]
}

// IsLinear reports whether the array is a single row or single column (or
// both, i.e. 1x1), the shape required by MATCH/XMATCH/LOOKUP's
// search_range/lookup_range arguments.
func (a Array) IsLinear() bool { return a.Width == 1 || a.Height == 1 }

// Linear returns the array's values as a flat slice, valid only when
// IsLinear reports true. A 1x1 array is both a row and a column; callers
// that care about orientation should check Width/Height directly.
func (a Array) Linear() []grid.CellValue {
	if a.Width == 1 {
		return flattenColumn(a)
	}
	return a.Values[:a.Height*a.Width]
}

func flattenColumn(a Array) []grid.CellValue {
	out := make([]grid.CellValue, a.Height)
	for y := int64(0); y < a.Height; y++ {
		out[y] = a.Get(0, y)
	}
	return out
}

// Column returns column x as a flat slice of length Height.
func (a Array) Column(x int64) []grid.CellValue {
	out := make([]grid.CellValue, a.Height)
	for y := int64(0); y < a.Height; y++ {
		out[y] = a.Get(x, y)
	}
	return out
}

// Row returns row y as a flat slice of length Width.
func (a Array) Row(y int64) []grid.CellValue {
	out := make([]grid.CellValue, a.Width)
	for x := int64(0); x < a.Width; x++ {
		out[x] = a.Get(x, y)
	}
	return out
}
