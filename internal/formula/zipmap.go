package formula

import (
	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/samber/lo"
)

// ZipMapShape is the broadcast shape a set of array arguments resolves to
// (spec §4.4, "the zip-map broadcast contract"): every non-1x1 array
// argument must agree on Width and Height, and 1x1 arrays broadcast against
// that shape.
type ZipMapShape struct {
	Width, Height int64
}

// ResolveZipMapShape finds the common broadcast shape across args, or
// returns a griderr.Validation if two non-scalar arrays disagree.
func ResolveZipMapShape(args []Array) (ZipMapShape, error) {
	shape := ZipMapShape{Width: 1, Height: 1}
	for _, a := range args {
		if a.Width == 1 && a.Height == 1 {
			continue
		}
		if shape.Width != 1 || shape.Height != 1 {
			if shape.Width != a.Width || shape.Height != a.Height {
				return ZipMapShape{}, griderr.Newf(griderr.Validation,
					"array arguments do not broadcast: %dx%d vs %dx%d", shape.Width, shape.Height, a.Width, a.Height)
			}
			continue
		}
		shape = ZipMapShape{Width: a.Width, Height: a.Height}
	}
	return shape, nil
}

// ZipMap evaluates kernel once per cell of the broadcast shape, feeding it
// the corresponding element of each array (a 1x1 array's sole element is
// reused at every position). This is the core of the zip-map contract that
// lets scalar functions (e.g. arithmetic, IF, comparisons) operate
// elementwise over whole ranges without each kernel re-implementing
// broadcasting (spec §4.4).
func ZipMap(args []Array, kernel func(cells []grid.CellValue) grid.CellValue) (Array, error) {
	shape, err := ResolveZipMapShape(args)
	if err != nil {
		return Array{}, err
	}
	out := make([]grid.CellValue, shape.Width*shape.Height)
	scratch := make([]grid.CellValue, len(args))
	for y := int64(0); y < shape.Height; y++ {
		for x := int64(0); x < shape.Width; x++ {
			for i, a := range args {
				if a.Width == 1 && a.Height == 1 {
					scratch[i] = a.Values[0]
				} else {
					scratch[i] = a.Get(x, y)
				}
			}
			out[y*shape.Width+x] = kernel(scratch)
		}
	}
	return NewArray(shape.Width, shape.Height, out), nil
}

// anyError returns the first ErrorValue cell among cells, used by kernels
// that must short-circuit and propagate an upstream error rather than
// coerce it (spec §7, "errors propagate through zip-map unless the
// function is itself error-aware, e.g. IFERROR/IFNA").
func anyError(cells []grid.CellValue) (grid.CellValue, bool) {
	first, ok := lo.Find(cells, func(c grid.CellValue) bool { return c.Kind == grid.ErrorValue })
	return first, ok
}
