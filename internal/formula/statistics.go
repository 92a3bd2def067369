package formula

import (
	"math"

	"github.com/quadratic-labs/gridcore/internal/grid"
)

// normalPDF/normalCDF/normalInverseCDF implement the Gaussian distribution
// on top of the standard library's math.Erf/math.Erfinv (no third-party
// statistics package exists in the example pack's dependency set, so this
// one family is built on stdlib math rather than an ecosystem library —
// see DESIGN.md). Grounded on
// original_source/formulas/functions/statistics/distributions.rs's
// NORM.DIST/NORM.INV/NORM.S.DIST/NORM.S.INV, which wrap Rust's `statrs`
// crate around the same identities.
func normalPDF(x, mean, stddev float64) float64 {
	z := (x - mean) / stddev
	return math.Exp(-0.5*z*z) / (stddev * math.Sqrt(2*math.Pi))
}

func normalCDF(x, mean, stddev float64) float64 {
	z := (x - mean) / (stddev * math.Sqrt2)
	return 0.5 * (1 + math.Erf(z))
}

func normalInverseCDF(p, mean, stddev float64) float64 {
	return mean + stddev*math.Sqrt2*math.Erfinv(2*p-1)
}

func binomialCoeff(n, k int64) float64 {
	if k < 0 || k > n {
		return 0
	}
	result := 1.0
	for i := int64(0); i < k; i++ {
		result *= float64(n-i) / float64(i+1)
	}
	return result
}

func binomialPMF(k, n int64, p float64) float64 {
	return binomialCoeff(n, k) * math.Pow(p, float64(k)) * math.Pow(1-p, float64(n-k))
}

func binomialCDF(k, n int64, p float64) float64 {
	sum := 0.0
	for i := int64(0); i <= k; i++ {
		sum += binomialPMF(i, n, p)
	}
	return sum
}

func init() {
	Register(FuncSpec{
		Name: "NORM.DIST", MinArity: 4, MaxArity: 4, Category: CategoryStatistics,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if errv, ok := anyError(cells); ok {
					return errv
				}
				x, mean, sd, cumulative, err := fourNumBool(cells)
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				if sd <= 0 {
					return grid.NewError(grid.ErrNum, "NORM.DIST: standard_dev must be positive", nil)
				}
				if cumulative {
					return grid.NewNumber(decimalFromFloat(normalCDF(x, mean, sd)))
				}
				return grid.NewNumber(decimalFromFloat(normalPDF(x, mean, sd)))
			})
		},
	})

	Register(FuncSpec{
		Name: "NORM.INV", MinArity: 3, MaxArity: 3, Category: CategoryStatistics,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if errv, ok := anyError(cells); ok {
					return errv
				}
				p, err := AsNumber(cells[0])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				mean, err := AsNumber(cells[1])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				sd, err := AsNumber(cells[2])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				pf, _ := p.Float64()
				sdf, _ := sd.Float64()
				if pf <= 0 || pf >= 1 || sdf <= 0 {
					return grid.NewError(grid.ErrNum, "NORM.INV: probability/standard_dev out of range", nil)
				}
				meanf, _ := mean.Float64()
				return grid.NewNumber(decimalFromFloat(normalInverseCDF(pf, meanf, sdf)))
			})
		},
	})

	Register(FuncSpec{
		Name: "BINOM.DIST", MinArity: 4, MaxArity: 4, Category: CategoryStatistics,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if errv, ok := anyError(cells); ok {
					return errv
				}
				k, err := AsInt(cells[0])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				n, err := AsInt(cells[1])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				p, err := AsNumber(cells[2])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				cumulative, err := AsBool(cells[3])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				if k < 0 || k > n || n < 0 {
					return grid.NewError(grid.ErrNum, "BINOM.DIST: number_s out of range for trials", nil)
				}
				pf, _ := p.Float64()
				if cumulative {
					return grid.NewNumber(decimalFromFloat(binomialCDF(k, n, pf)))
				}
				return grid.NewNumber(decimalFromFloat(binomialPMF(k, n, pf)))
			})
		},
	})

	Register(FuncSpec{
		Name: "EXPON.DIST", MinArity: 3, MaxArity: 3, Category: CategoryStatistics,
		Kernel: func(args []Array) (Array, error) {
			return ZipMap(args, func(cells []grid.CellValue) grid.CellValue {
				if errv, ok := anyError(cells); ok {
					return errv
				}
				x, err := AsNumber(cells[0])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				lambda, err := AsNumber(cells[1])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				cumulative, err := AsBool(cells[2])
				if err != nil {
					return grid.NewError(grid.ErrValue, err.Error(), nil)
				}
				xf, _ := x.Float64()
				lf, _ := lambda.Float64()
				if lf <= 0 {
					return grid.NewError(grid.ErrNum, "EXPON.DIST: lambda must be positive", nil)
				}
				if cumulative {
					return grid.NewNumber(decimalFromFloat(1 - math.Exp(-lf*xf)))
				}
				return grid.NewNumber(decimalFromFloat(lf * math.Exp(-lf*xf)))
			})
		},
	})
}

func fourNumBool(cells []grid.CellValue) (x, mean, sd float64, cumulative bool, err error) {
	xd, err := AsNumber(cells[0])
	if err != nil {
		return
	}
	md, err := AsNumber(cells[1])
	if err != nil {
		return
	}
	sdd, err := AsNumber(cells[2])
	if err != nil {
		return
	}
	cumulative, err = AsBool(cells[3])
	if err != nil {
		return
	}
	x, _ = xd.Float64()
	mean, _ = md.Float64()
	sd, _ = sdd.Float64()
	return
}
