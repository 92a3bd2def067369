package formula

import "strings"

// ArgKind constrains what shape an argument's coercion should accept.
type ArgKind int

const (
	ArgAny ArgKind = iota
	ArgNumber
	ArgText
	ArgLogical
	ArgArray
)

// Category groups functions the way spec §4.4 enumerates "function
// families": lookup, logic, statistics, engineering.
type Category int

const (
	CategoryLookup Category = iota
	CategoryLogic
	CategoryStatistics
	CategoryEngineering
	CategoryMath
	CategoryText
)

// Kernel is a function's evaluation body: it receives already-resolved
// argument arrays (still row/column-shaped, not yet flattened) and
// returns a result array. Functions that are not zip-mapped (lookup
// functions, aggregates) receive args unevaluated-elementwise and handle
// their own shape; zip-mapped functions (logic, arithmetic) typically
// wrap formula.ZipMap internally.
type Kernel func(args []Array) (Array, error)

// FuncSpec is one entry in the function registry (spec §4.4, "a function
// registry ... keyed by uppercase name").
type FuncSpec struct {
	Name     string
	MinArity int
	MaxArity int // -1 means variadic
	ArgTypes []ArgKind
	ZipMap   bool // declarative only: Call does not read it; zip-mapped kernels broadcast via ZipMap themselves
	Category Category
	Kernel   Kernel
}

// Registry is the uppercase-name-keyed function table.
type Registry map[string]FuncSpec

var defaultRegistry = Registry{}

// Register adds spec to the default registry, keyed by its uppercased
// name. Called from each family's init() so the registry is fully
// populated before any LookupFunc call.
func Register(spec FuncSpec) {
	defaultRegistry[strings.ToUpper(spec.Name)] = spec
}

// LookupFunc resolves name (case-insensitive, matching spec.md's function
// names like VLOOKUP/XLOOKUP) against the default registry.
func LookupFunc(name string) (FuncSpec, bool) {
	spec, ok := defaultRegistry[strings.ToUpper(name)]
	return spec, ok
}

// CheckArity returns a typed error if n arguments violate spec's
// Min/MaxArity, nil otherwise.
func (f FuncSpec) CheckArity(n int) error {
	if n < f.MinArity || (f.MaxArity >= 0 && n > f.MaxArity) {
		return ArgError(n, CoerceError{Expected: "argument count within range", Got: "wrong arity"})
	}
	return nil
}
