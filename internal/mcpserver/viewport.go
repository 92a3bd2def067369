package mcpserver

import (
	"strings"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/internal/render"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

func parseLayer(s string) (render.Layer, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "labels":
		return render.LayerLabels, true
	case "fills":
		return render.LayerFills, true
	default:
		return "", false
	}
}

func viewportRect(x1, y1, x2, y2 int64) pos.Rect {
	return pos.NewRect(pos.Pos{X: x1, Y: y1}, pos.Pos{X: x2, Y: y2})
}

// snapshotViewport reads every cell in r, row-major, for token estimation
// (render.EstimateViewportTokens wants parallel cells/formats slices the
// same shape as a client's textual snapshot of the viewport).
func snapshotViewport(sheet *grid.Sheet, r pos.Rect) ([]grid.CellValue, []grid.CellFormat) {
	w := r.Width()
	h := r.Height()
	cells := make([]grid.CellValue, 0, w*h)
	formats := make([]grid.CellFormat, 0, w*h)
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			p := pos.Pos{X: x, Y: y}
			cells = append(cells, sheet.GetCellValue(p))
			formats = append(formats, sheet.Formats.At(p))
		}
	}
	return cells, formats
}
