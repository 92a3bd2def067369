package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/quadratic-labs/gridcore/pkg/mcperr"
)

// griderrToMCP maps internal/grid, internal/render and internal/formula's
// transport-independent griderr.Error codes onto the MCP-facing
// mcperr catalog, the same normalize-into-a-string shape cmd/server's tool
// handlers already return (internal/registry/tools_foundation.go).
func griderrToMCP(err error) *mcp.CallToolResult {
	ge, ok := err.(*griderr.Error)
	if !ok {
		return mcperr.New(mcperr.AnalysisFailed, err.Error())
	}
	code, ok := griderrCodeMap[ge.Code]
	if !ok {
		code = mcperr.AnalysisFailed
	}
	return mcperr.New(code, ge.Message)
}

var griderrCodeMap = map[griderr.Code]mcperr.Code{
	griderr.Validation:        mcperr.Validation,
	griderr.InvalidSheet:      mcperr.InvalidSheet,
	griderr.InvalidReference:  mcperr.Validation,
	griderr.InvalidName:       mcperr.Validation,
	griderr.CursorInvalid:     mcperr.CursorInvalid,
	griderr.BusyResource:      mcperr.BusyResource,
	griderr.Timeout:           mcperr.Timeout,
	griderr.LimitExceeded:     mcperr.LimitExceeded,
	griderr.PayloadTooLarge:   mcperr.PayloadTooLarge,
	griderr.OperationRejected: mcperr.WriteFailed,
	griderr.NameConflict:      mcperr.WriteFailed,
	griderr.SpillBlocked:      mcperr.WriteFailed,
	griderr.OpenFailed:        mcperr.OpenFailed,
	griderr.UnsupportedFormat: mcperr.UnsupportedFormat,
	griderr.PathNotAllowed:    mcperr.PermissionDenied,
	griderr.InternalError:     mcperr.AnalysisFailed,
}
