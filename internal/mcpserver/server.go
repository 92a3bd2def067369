package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/quadratic-labs/gridcore/internal/runtime"
	"github.com/quadratic-labs/gridcore/internal/security"
	"github.com/quadratic-labs/gridcore/internal/telemetry"
	"github.com/quadratic-labs/gridcore/pkg/version"
)

// Config bundles what New needs to build a server: a path allow-list for
// import_workbook, the concurrency/timeout limits
// internal/runtime middleware enforces, and the model name used to size
// render_viewport_hashes' token budget report.
type Config struct {
	AllowList *security.Manager
	Limits    runtime.Limits
	ModelName string
	Logger    zerolog.Logger
}

// New builds an MCP server exposing the curated Operations API
// (SPEC_FULL.md [OPS]) against a fresh, process-local Store. It
// wires hooks, runtime middleware, and a write-tool filter the same way
// an on-disk-file MCP server would, applied here to in-memory grid.Grid
// workbooks instead of on-disk excelize handles.
func New(cfg Config) (*server.MCPServer, *Store) {
	runtimeController := runtime.NewController(cfg.Limits)
	runtimeMW := runtime.NewMiddleware(runtimeController)
	store := NewStore(runtimeController)

	hooks := telemetry.NewHooks(cfg.Logger)
	writeFilter := NewWriteToolFilterFromEnv()

	srv := server.NewMCPServer(
		"gridcore Spreadsheet Engine",
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithRecovery(),
		server.WithHooks(buildHooks(hooks)),
		server.WithToolHandlerMiddleware(runtimeMW.ToolMiddleware),
		server.WithToolFilter(func(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
			return writeFilter.FilterTools(ctx, tools)
		}),
	)

	registerQueryTools(srv, store, cfg.ModelName)
	registerMutationTools(srv, store)
	registerImportTools(srv, store, cfg.AllowList)

	return srv, store
}

// buildHooks adapts telemetry.Hooks (session/tool-call lifecycle logging)
// to mcp-go's server.Hooks callback registration, the same shape
// cmd/server/main.go's buildHooks used directly against a zerolog.Logger.
func buildHooks(h *telemetry.Hooks) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		h.OnSessionStart(session.SessionID())
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		h.OnSessionEnd(session.SessionID())
	})
	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, res *mcp.CallToolResult) {
		h.OnToolCall("", req.Params.Name, 0, nil)
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		h.OnToolCall("", string(method), 0, err)
	})

	return hooks
}
