package mcpserver

import (
	"context"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// WriteToolFilter conditionally hides mutating tools from discovery unless
// explicitly enabled. Matches this server's mutating tool names (set_*,
// insert_*, delete_*, import_* — the prefixes registerMutationTools and
// registerImportTools actually register). Enable with
// GRIDCORE_ENABLE_WRITES=true.
type WriteToolFilter struct {
	allowWrites bool
}

// NewWriteToolFilterFromEnv constructs a filter using GRIDCORE_ENABLE_WRITES.
func NewWriteToolFilterFromEnv() *WriteToolFilter {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("GRIDCORE_ENABLE_WRITES")))
	allow := v == "1" || v == "true" || v == "yes"
	return &WriteToolFilter{allowWrites: allow}
}

var mutatingToolPrefixes = []string{"set_", "insert_", "delete_", "import_"}

// FilterTools implements server.WithToolFilter's filter signature.
func (f *WriteToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if f.allowWrites {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		name := strings.ToLower(t.Name)
		mutating := false
		for _, prefix := range mutatingToolPrefixes {
			if strings.HasPrefix(name, prefix) {
				mutating = true
				break
			}
		}
		if mutating {
			continue
		}
		out = append(out, t)
	}
	return out
}
