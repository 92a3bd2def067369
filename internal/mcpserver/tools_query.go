package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tmc/langchaingo/llms"

	"github.com/quadratic-labs/gridcore/internal/formula"
	"github.com/quadratic-labs/gridcore/internal/render"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/quadratic-labs/gridcore/pkg/mcperr"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// CreateWorkbookInput takes no parameters; it exists so create_workbook
// follows the same mcp.WithInputSchema[T] typed-handler shape as every
// other tool here.
type CreateWorkbookInput struct{}

// CreateWorkbookOutput reports the handle of a newly allocated workbook.
type CreateWorkbookOutput struct {
	WorkbookID string `json:"workbookId"`
}

// AddSheetInput names a sheet to add to an existing workbook.
type AddSheetInput struct {
	WorkbookID string `json:"workbookId" jsonschema_description:"Handle returned by create_workbook"`
	Name       string `json:"name" jsonschema_description:"Sheet name"`
}

// AddSheetOutput reports the new sheet's id.
type AddSheetOutput struct {
	SheetID string `json:"sheetId"`
}

// GetCellInput addresses a single cell.
type GetCellInput struct {
	WorkbookID string `json:"workbookId"`
	SheetID    string `json:"sheetId"`
	Cell       string `json:"cell" jsonschema_description:"A1 cell reference, e.g. B2"`
}

// GetCellOutput is one cell's value and combined format.
type GetCellOutput struct {
	Cell   string     `json:"cell"`
	Value  CellJSON   `json:"value"`
	Format FormatJSON `json:"format"`
	Label  string     `json:"label" jsonschema_description:"Rendered text as a client would display it"`
}

// RunFormulaInput invokes one registered function by name against
// literal or range-sourced arguments (there is no free-form formula
// string parser in this engine: spec §4.4 only names a function
// registry + Call(name, args), not an expression compiler, and
// SPEC_FULL.md's Non-goals exclude "a general expression compiler").
type RunFormulaInput struct {
	WorkbookID string   `json:"workbookId"`
	SheetID    string   `json:"sheetId"`
	Function   string   `json:"function" jsonschema_description:"Registered function name, e.g. SUM, VLOOKUP"`
	Args       []string `json:"args" jsonschema_description:"Each is an A1 range (read live) or a literal number/bool/text"`
}

// RunFormulaOutput is the function result, flattened row-major.
type RunFormulaOutput struct {
	Width  int64      `json:"width"`
	Height int64      `json:"height"`
	Values []CellJSON `json:"values"`
}

// ListTablesInput scopes list_tables to one sheet.
type ListTablesInput struct {
	WorkbookID string `json:"workbookId"`
	SheetID    string `json:"sheetId"`
}

// TableSummary is one data table's shape, unqualified by cell contents.
type TableSummary struct {
	Name    string `json:"name"`
	Anchor  string `json:"anchor"`
	Width   int64  `json:"width"`
	Height  int64  `json:"height"`
	Spilled bool   `json:"spilled"`
}

// ListTablesOutput lists every table anchored on a sheet.
type ListTablesOutput struct {
	Tables []TableSummary `json:"tables"`
}

// RenderViewportHashesInput requests the needed-hash set for one layer of
// a viewport (spec §4.5).
type RenderViewportHashesInput struct {
	WorkbookID string `json:"workbookId"`
	SheetID    string `json:"sheetId"`
	Layer      string `json:"layer" jsonschema_description:"labels or fills"`
	X1         int64  `json:"x1"`
	Y1         int64  `json:"y1"`
	X2         int64  `json:"x2"`
	Y2         int64  `json:"y2"`
}

// RenderViewportHashesOutput is the sorted set of hash buckets a client
// must fetch to render the requested viewport.
type RenderViewportHashesOutput struct {
	Hashes      []render.HashCoord `json:"hashes"`
	EstTokens   int                `json:"estTokens,omitempty"`
	ContextSize int                `json:"modelContextSize,omitempty"`
}

// registerQueryTools adds the read-only query tools (SPEC_FULL.md [OPS]:
// get_cell, run_formula, list_tables, render_viewport_hashes) plus the
// workbook/sheet lifecycle tools those queries need a handle for.
func registerQueryTools(s *server.MCPServer, st *Store, modelName string) {
	createWorkbook := mcp.NewTool(
		"create_workbook",
		mcp.WithDescription("Allocate a new in-memory workbook and return its handle"),
		mcp.WithInputSchema[CreateWorkbookInput](),
		mcp.WithOutputSchema[CreateWorkbookOutput](),
	)
	s.AddTool(createWorkbook, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in CreateWorkbookInput) (*mcp.CallToolResult, error) {
		wb, err := st.Create(ctx)
		if err != nil {
			return mcperr.New(mcperr.BusyResource, "open-workbook limit reached"), nil
		}
		out := CreateWorkbookOutput{WorkbookID: wb.ID}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("workbookId=%s", wb.ID)), nil
	}))

	addSheet := mcp.NewTool(
		"add_sheet",
		mcp.WithDescription("Add a new sheet to an open workbook"),
		mcp.WithInputSchema[AddSheetInput](),
		mcp.WithOutputSchema[AddSheetOutput](),
	)
	s.AddTool(addSheet, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AddSheetInput) (*mcp.CallToolResult, error) {
		wb, ok := st.Get(in.WorkbookID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		sheet := wb.Grid.AddSheet(in.Name)
		out := AddSheetOutput{SheetID: sheet.ID}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("sheetId=%s", sheet.ID)), nil
	}))

	getCell := mcp.NewTool(
		"get_cell",
		mcp.WithDescription("Read one cell's value, combined format, and rendered label"),
		mcp.WithInputSchema[GetCellInput](),
		mcp.WithOutputSchema[GetCellOutput](),
	)
	s.AddTool(getCell, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in GetCellInput) (*mcp.CallToolResult, error) {
		wb, ok := st.Get(in.WorkbookID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		sheet, ok := wb.Grid.Sheet(in.SheetID)
		if !ok {
			return mcperr.New(mcperr.InvalidSheet, ""), nil
		}
		p, ok := resolveCell(in.Cell)
		if !ok {
			return mcperr.New(mcperr.Validation, fmt.Sprintf("%q is not a single-cell A1 reference", in.Cell)), nil
		}
		v := sheet.GetCellValue(p)
		f := sheet.Formats.At(p)
		label := render.FormatCellValue(v, f)
		out := GetCellOutput{Cell: in.Cell, Value: cellToJSON(v), Format: formatToJSON(f), Label: label}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("%s=%s", in.Cell, label)), nil
	}))

	runFormula := mcp.NewTool(
		"run_formula",
		mcp.WithDescription("Call a registered spreadsheet function against literal or range arguments"),
		mcp.WithInputSchema[RunFormulaInput](),
		mcp.WithOutputSchema[RunFormulaOutput](),
	)
	s.AddTool(runFormula, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in RunFormulaInput) (*mcp.CallToolResult, error) {
		wb, ok := st.Get(in.WorkbookID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		sheet, ok := wb.Grid.Sheet(in.SheetID)
		if !ok {
			return mcperr.New(mcperr.InvalidSheet, ""), nil
		}
		spec, ok := formula.LookupFunc(in.Function)
		if !ok {
			return mcperr.New(mcperr.Validation, fmt.Sprintf("unknown function %q", in.Function)), nil
		}
		if err := spec.CheckArity(len(in.Args)); err != nil {
			return mcperr.New(mcperr.Validation, err.Error()), nil
		}
		args := make([]formula.Array, 0, len(in.Args))
		for _, raw := range in.Args {
			args = append(args, resolveFormulaArg(sheet, raw))
		}
		result, err := formula.Call(in.Function, args)
		if err != nil {
			return mcperr.New(mcperr.ApplyFormulaFailed, err.Error()), nil
		}
		values := make([]CellJSON, 0, len(result.Values))
		for _, v := range result.Values {
			values = append(values, cellToJSON(v))
		}
		out := RunFormulaOutput{Width: result.Width, Height: result.Height, Values: values}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("%s -> %dx%d result", in.Function, out.Width, out.Height)), nil
	}))

	listTables := mcp.NewTool(
		"list_tables",
		mcp.WithDescription("List data tables anchored on a sheet"),
		mcp.WithInputSchema[ListTablesInput](),
		mcp.WithOutputSchema[ListTablesOutput](),
	)
	s.AddTool(listTables, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ListTablesInput) (*mcp.CallToolResult, error) {
		wb, ok := st.Get(in.WorkbookID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		sheet, ok := wb.Grid.Sheet(in.SheetID)
		if !ok {
			return mcperr.New(mcperr.InvalidSheet, ""), nil
		}
		out := make([]TableSummary, 0, len(sheet.Tables()))
		for anchor, t := range sheet.Tables() {
			out = append(out, TableSummary{
				Name:    t.Name,
				Anchor:  fmt.Sprintf("%s%d", pos.ColumnName(anchor.X), anchor.Y),
				Width:   t.Width(),
				Height:  t.Height(),
				Spilled: t.IsSpilled(),
			})
		}
		result := ListTablesOutput{Tables: out}
		return mcp.NewToolResultStructured(result, fmt.Sprintf("tables=%d", len(out))), nil
	}))

	renderHashes := mcp.NewTool(
		"render_viewport_hashes",
		mcp.WithDescription("Compute the hash buckets a client must fetch to render a viewport, plus an estimated LLM token cost for a textual snapshot of it"),
		mcp.WithInputSchema[RenderViewportHashesInput](),
		mcp.WithOutputSchema[RenderViewportHashesOutput](),
	)
	s.AddTool(renderHashes, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in RenderViewportHashesInput) (*mcp.CallToolResult, error) {
		wb, ok := st.Get(in.WorkbookID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		sheet, ok := wb.Grid.Sheet(in.SheetID)
		if !ok {
			return mcperr.New(mcperr.InvalidSheet, ""), nil
		}
		layer, ok := parseLayer(in.Layer)
		if !ok {
			return mcperr.New(mcperr.Validation, "layer must be \"labels\" or \"fills\""), nil
		}
		state := wb.RenderState(in.SheetID)
		state.SetViewport(viewportRect(in.X1, in.Y1, in.X2, in.Y2))
		hashes := state.NeededPreview(layer)

		cells, formats := snapshotViewport(sheet, state.Viewport())
		tokens, err := render.EstimateViewportTokens(cells, formats)
		if err != nil {
			return griderrToMCP(griderr.Newf(griderr.InternalError, "token estimate: %v", err)), nil
		}
		out := RenderViewportHashesOutput{
			Hashes:      hashes,
			EstTokens:   tokens,
			ContextSize: llms.GetModelContextSize(modelName),
		}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("hashes=%d estTokens=%d", len(hashes), tokens)), nil
	}))
}
