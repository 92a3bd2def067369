package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/internal/render"
	"github.com/quadratic-labs/gridcore/pkg/mcperr"
)

// CellWriteJSON pairs an A1 cell with the value to write.
type CellWriteJSON struct {
	Cell  string   `json:"cell"`
	Value CellJSON `json:"value"`
}

// SetCellValuesInput writes one or more cells in a single Operation
// (spec §6: operations apply "synchronously and atomically").
type SetCellValuesInput struct {
	WorkbookID string          `json:"workbookId"`
	SheetID    string          `json:"sheetId"`
	Writes     []CellWriteJSON `json:"writes"`
}

// MutationOutput is shared by every mutate tool: the render-relevant
// dirty hints the grid.Operation produced, so a client knows what to
// re-request from render_viewport_hashes.
type MutationOutput struct {
	CellsChanged int  `json:"cellsChanged"`
	GridLines    bool `json:"gridLines"`
	Headings     bool `json:"headings"`
}

// SetFormatsInput sets one or more formatting properties over a
// rectangle; nil/omitted properties are left unchanged (grid.FormatWrite
// uses pointers for exactly this reason).
type SetFormatsInput struct {
	WorkbookID    string  `json:"workbookId"`
	SheetID       string  `json:"sheetId"`
	Range         string  `json:"range" jsonschema_description:"A1 range, e.g. A1:D10"`
	Bold          *bool   `json:"bold,omitempty"`
	Italic        *bool   `json:"italic,omitempty"`
	Wrap          *bool   `json:"wrap,omitempty"`
	FillColor     *string `json:"fillColor,omitempty"`
	NumericFormat *string `json:"numericFormat,omitempty"`
}

// InsertDeleteInput names the 1-indexed column/row to insert or delete at.
type InsertDeleteInput struct {
	WorkbookID string `json:"workbookId"`
	SheetID    string `json:"sheetId"`
	At         int64  `json:"at" jsonschema_description:"1-indexed column or row"`
}

// registerMutationTools adds the write side of the Operations API
// (SPEC_FULL.md [OPS]): set_cell_values, set_formats, insert_column,
// insert_row, delete_column, delete_row. Each call runs grid.Apply once
// and folds the returned DirtyHints into that sheet's render.State so a
// subsequent render_viewport_hashes call reflects the mutation (spec
// §4.5's dirty-flag contract). Malformed operations are rejected with no
// mutation and no dirty hints (spec §7).
func registerMutationTools(s *server.MCPServer, st *Store) {
	setCellValues := mcp.NewTool(
		"set_cell_values",
		mcp.WithDescription("Write one or more cell values in a single atomic operation"),
		mcp.WithInputSchema[SetCellValuesInput](),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(setCellValues, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in SetCellValuesInput) (*mcp.CallToolResult, error) {
		wb, sheet, errRes := resolveWorkbookSheet(st, in.WorkbookID, in.SheetID)
		if errRes != nil {
			return errRes, nil
		}
		if len(in.Writes) == 0 {
			return mcperr.New(mcperr.Validation, "writes must be non-empty"), nil
		}
		writes := make([]grid.CellWrite, 0, len(in.Writes))
		for _, w := range in.Writes {
			p, ok := resolveCell(w.Cell)
			if !ok {
				return mcperr.New(mcperr.Validation, fmt.Sprintf("%q is not a single-cell A1 reference", w.Cell)), nil
			}
			writes = append(writes, grid.CellWrite{Pos: p, Value: jsonToCell(w.Value)})
		}
		_, dirty, err := grid.Apply(wb.Grid, grid.Operation{Kind: grid.OpSetCellValues, SheetID: sheet.ID, SetCellValues: writes})
		if err != nil {
			return griderrToMCP(err), nil
		}
		applyDirty(wb, dirty)
		out := MutationOutput{CellsChanged: len(dirty.Cells), GridLines: dirty.GridLines, Headings: dirty.Headings}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("cellsChanged=%d", out.CellsChanged)), nil
	}))

	setFormats := mcp.NewTool(
		"set_formats",
		mcp.WithDescription("Set formatting properties over an A1 rectangle"),
		mcp.WithInputSchema[SetFormatsInput](),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(setFormats, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in SetFormatsInput) (*mcp.CallToolResult, error) {
		wb, sheet, errRes := resolveWorkbookSheet(st, in.WorkbookID, in.SheetID)
		if errRes != nil {
			return errRes, nil
		}
		rect, ok := resolveRange(in.Range)
		if !ok {
			return mcperr.New(mcperr.Validation, fmt.Sprintf("%q is not a bounded A1 range", in.Range)), nil
		}
		var x2, y2 *int64
		x2v, y2v := rect.Max.X, rect.Max.Y
		x2, y2 = &x2v, &y2v
		write := grid.FormatWrite{
			X1: rect.Min.X, Y1: rect.Min.Y, X2: x2, Y2: y2,
			Bold: in.Bold, Italic: in.Italic, Wrap: in.Wrap,
			FillColor: in.FillColor, NumericFormat: in.NumericFormat,
		}
		_, dirty, err := grid.Apply(wb.Grid, grid.Operation{Kind: grid.OpSetFormats, SheetID: sheet.ID, SetFormats: write})
		if err != nil {
			return griderrToMCP(err), nil
		}
		applyDirty(wb, dirty)
		out := MutationOutput{GridLines: dirty.GridLines, Headings: dirty.Headings}
		return mcp.NewToolResultStructured(out, "formats updated"), nil
	}))

	registerInsertDelete(s, st, "insert_column", grid.OpInsertColumn, "Insert a blank column, shifting cells right of it")
	registerInsertDelete(s, st, "insert_row", grid.OpInsertRow, "Insert a blank row, shifting cells below it")
	registerInsertDelete(s, st, "delete_column", grid.OpDeleteColumn, "Delete a column, shifting cells left to fill the gap")
	registerInsertDelete(s, st, "delete_row", grid.OpDeleteRow, "Delete a row, shifting cells up to fill the gap")
}

func registerInsertDelete(s *server.MCPServer, st *Store, name string, kind grid.OpKind, desc string) {
	tool := mcp.NewTool(
		name,
		mcp.WithDescription(desc),
		mcp.WithInputSchema[InsertDeleteInput](),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in InsertDeleteInput) (*mcp.CallToolResult, error) {
		wb, sheet, errRes := resolveWorkbookSheet(st, in.WorkbookID, in.SheetID)
		if errRes != nil {
			return errRes, nil
		}
		op := grid.Operation{Kind: kind, SheetID: sheet.ID}
		switch kind {
		case grid.OpInsertColumn, grid.OpInsertRow:
			op.InsertAt = in.At
		case grid.OpDeleteColumn, grid.OpDeleteRow:
			op.DeleteAt = in.At
		}
		_, dirty, err := grid.Apply(wb.Grid, op)
		if err != nil {
			return griderrToMCP(err), nil
		}
		applyDirty(wb, dirty)
		out := MutationOutput{GridLines: dirty.GridLines, Headings: dirty.Headings}
		return mcp.NewToolResultStructured(out, fmt.Sprintf("%s at=%d", name, in.At)), nil
	}))
}

// resolveWorkbookSheet is the common handle/sheet lookup every mutate and
// query tool performs first; errRes is non-nil (and should be returned
// directly) on failure.
func resolveWorkbookSheet(st *Store, workbookID, sheetID string) (*Workbook, *grid.Sheet, *mcp.CallToolResult) {
	wb, ok := st.Get(workbookID)
	if !ok {
		return nil, nil, mcperr.New(mcperr.InvalidHandle, "")
	}
	sheet, ok := wb.Grid.Sheet(sheetID)
	if !ok {
		return nil, nil, mcperr.New(mcperr.InvalidSheet, "")
	}
	return wb, sheet, nil
}

// applyDirty folds grid.DirtyHints into the sheet's render.State so the
// next render_viewport_hashes call reflects this mutation (spec §4.5).
func applyDirty(wb *Workbook, dirty grid.DirtyHints) {
	if dirty.SheetID == "" {
		return
	}
	state := wb.RenderState(dirty.SheetID)
	state.MarkDirty(render.DirtyFlags{GridLines: dirty.GridLines, Headings: dirty.Headings})
}
