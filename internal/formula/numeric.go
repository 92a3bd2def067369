package formula

import "github.com/shopspring/decimal"

// decimalFromInt is a small convenience wrapper kept local to this
// package so kernels building a Number result from an int64 index or
// count don't repeat decimal.NewFromInt at every call site.
func decimalFromInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// decimalFromFloat converts a float64 result (from math/statrs-style
// kernels that have no exact decimal form, e.g. erf) into decimal.Decimal
// at float64 precision.
func decimalFromFloat(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
