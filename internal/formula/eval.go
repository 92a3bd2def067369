package formula

import (
	"sort"

	"github.com/quadratic-labs/gridcore/pkg/griderr"
)

// Call resolves name in the default registry, checks arity, and invokes
// its kernel against args. This is the single entry point the engine's
// formula evaluator (and, transitively, internal/mcpserver's run_formula
// tool) uses to execute one function call once its arguments have
// already been reduced to Arrays.
func Call(name string, args []Array) (Array, error) {
	spec, ok := LookupFunc(name)
	if !ok {
		return Array{}, griderr.Newf(griderr.Validation, "unknown function %q", name)
	}
	if err := spec.CheckArity(len(args)); err != nil {
		return Array{}, err
	}
	return spec.Kernel(args)
}

// Names returns every registered function name in alphabetical order —
// useful for introspection tools (e.g. an MCP list_functions query) and
// for tests asserting registry completeness.
func Names() []string {
	names := make([]string, 0, len(defaultRegistry))
	for name := range defaultRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
