package render

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/quadratic-labs/gridcore/internal/grid"
)

// tiktokenEncoding is the cl100k_base encoding, adequate for estimating
// token cost across the model families an MCP client is likely to be
// running; exact token counts vary per model but this is within the
// ballpark needed to decide whether a viewport fits a prompt budget.
const tiktokenEncoding = "cl100k_base"

// EstimateViewportTokens reports the approximate number of LLM tokens a
// textual snapshot of the given cells would cost, so an MCP client can
// decide how much of a sheet to pull into a prompt (SPEC_FULL.md
// [RENDER]: "reporting the approximate LLM-context cost of a textual
// snapshot of the current viewport").
func EstimateViewportTokens(cells []grid.CellValue, formats []grid.CellFormat) (int, error) {
	enc, err := tiktoken.GetEncoding(tiktokenEncoding)
	if err != nil {
		return 0, err
	}
	var sb strings.Builder
	for i, c := range cells {
		if i > 0 {
			sb.WriteByte('\t')
		}
		var f grid.CellFormat
		if i < len(formats) {
			f = formats[i]
		}
		sb.WriteString(FormatCellValue(c, f))
	}
	tokens := enc.Encode(sb.String(), nil, nil)
	return len(tokens), nil
}
