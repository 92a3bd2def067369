package mcpserver

import (
	"github.com/quadratic-labs/gridcore/pkg/a1"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// resolveCell parses a single A1 cell reference ("B2") into a pos.Pos.
func resolveCell(ref string) (pos.Pos, bool) {
	r, err := a1.ParseRange(ref)
	if err != nil || r.Kind != a1.KindSheet || !r.Sheet.IsSingleCell() {
		return pos.Pos{}, false
	}
	rect, ok := r.ToRect(nil)
	if !ok {
		return pos.Pos{}, false
	}
	return rect.Min, true
}

// resolveRange parses a bounded A1 range ("A1:D50") into a pos.Rect. Table
// references (KindTable) are left to callers that carry a TableContext;
// this helper is used only where a plain sheet range is expected.
func resolveRange(ref string) (pos.Rect, bool) {
	r, err := a1.ParseRange(ref)
	if err != nil || r.Kind != a1.KindSheet || r.IsUnbounded() {
		return pos.Rect{}, false
	}
	return r.ToRect(nil)
}
