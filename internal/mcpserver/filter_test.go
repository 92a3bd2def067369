package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func toolNames(tools []mcp.Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

func TestWriteToolFilterHidesMutatingToolsByDefault(t *testing.T) {
	f := &WriteToolFilter{allowWrites: false}
	tools := []mcp.Tool{{Name: "get_cell"}, {Name: "set_cell_values"}, {Name: "insert_row"}, {Name: "import_workbook"}, {Name: "list_tables"}}
	out := f.FilterTools(context.Background(), tools)
	require.ElementsMatch(t, []string{"get_cell", "list_tables"}, toolNames(out))
}

func TestWriteToolFilterAllowsEverythingWhenEnabled(t *testing.T) {
	f := &WriteToolFilter{allowWrites: true}
	tools := []mcp.Tool{{Name: "get_cell"}, {Name: "set_cell_values"}}
	out := f.FilterTools(context.Background(), tools)
	require.Len(t, out, 2)
}
