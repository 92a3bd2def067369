package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quadratic-labs/gridcore/internal/importer"
	"github.com/quadratic-labs/gridcore/internal/security"
	"github.com/quadratic-labs/gridcore/pkg/mcperr"
	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/quadratic-labs/gridcore/pkg/validation"
)

// ImportWorkbookInput seeds a new sheet in an existing workbook from an
// on-disk spreadsheet file, through internal/importer's
// security-gated, read-only ExcelizeSource. Path and RangeA1 carry
// go-playground/validator tags (pkg/validation) so malformed
// input is rejected before a file handle is ever opened.
type ImportWorkbookInput struct {
	WorkbookID  string `json:"workbookId" validate:"required"`
	Path        string `json:"path" validate:"required,filepath_ext" jsonschema_description:"Path to an .xlsx/.xlsm/.xltx/.xltm file, must be under an allowed directory"`
	SourceSheet string `json:"sourceSheet" validate:"required" jsonschema_description:"Sheet name within the source file"`
	RangeA1     string `json:"range" validate:"required,a1orname" jsonschema_description:"Bounded A1 range to import, e.g. A1:D100"`
	SheetName   string `json:"sheetName" validate:"required" jsonschema_description:"Name for the new sheet created in the workbook"`
}

// ImportWorkbookOutput reports the new sheet and how many cells it seeded.
type ImportWorkbookOutput struct {
	SheetID string `json:"sheetId"`
	Cells   int    `json:"cells"`
}

// registerImportTools adds import_workbook, the one bridge from an
// on-disk file into this server's in-memory grid.Grid store
// (SPEC_FULL.md's internal/importer section: "used only to seed a
// grid.Sheet ... for demos/tests").
func registerImportTools(s *server.MCPServer, st *Store, allowList *security.Manager) {
	importWorkbook := mcp.NewTool(
		"import_workbook",
		mcp.WithDescription("Seed a new sheet in a workbook by reading a bounded range from an on-disk Excel file"),
		mcp.WithInputSchema[ImportWorkbookInput](),
		mcp.WithOutputSchema[ImportWorkbookOutput](),
	)
	s.AddTool(importWorkbook, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ImportWorkbookInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		wb, ok := st.Get(in.WorkbookID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		src, err := importer.OpenExcelizeSource(allowList, in.Path)
		if err != nil {
			return griderrToMCP(err), nil
		}
		defer src.Close()

		sheet := wb.Grid.AddSheet(in.SheetName)
		if err := importer.SeedSheet(sheet, src, in.SourceSheet, in.RangeA1, pos.Pos{X: 1, Y: 1}); err != nil {
			return griderrToMCP(err), nil
		}
		out := ImportWorkbookOutput{SheetID: sheet.ID, Cells: sheet.NonBlankCellCount()}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("sheetId=%s cells=%d", sheet.ID, out.Cells)), nil
	}))
}
