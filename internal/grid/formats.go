package grid

import (
	"github.com/quadratic-labs/gridcore/pkg/contiguous2d"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// CellFormat is the combined, per-cell view produced by reading every
// layer of SheetFormatting at one position (spec §4.3: "Reads combine
// the layers per cell").
type CellFormat struct {
	Bold          bool
	Italic        bool
	Underline     bool
	StrikeThrough bool
	TextColor     string // "" means unset; "#RRGGBB" otherwise
	FillColor     string
	NumericFormat string // "" means General
	Wrap          bool
	Align         string // "", "left", "center", "right"
	VerticalAlign string // "", "top", "middle", "bottom"
}

// FormatUndo is the undo layer produced by a formats mutation: one
// Option-valued Contiguous2D per property that changed, mirroring
// Contiguous2D.SetRect's per-call undo contract at the aggregate level.
type FormatUndo struct {
	Bold          *contiguous2d.Contiguous2D[contiguous2d.Option[bool]]
	Italic        *contiguous2d.Contiguous2D[contiguous2d.Option[bool]]
	Underline     *contiguous2d.Contiguous2D[contiguous2d.Option[bool]]
	StrikeThrough *contiguous2d.Contiguous2D[contiguous2d.Option[bool]]
	TextColor     *contiguous2d.Contiguous2D[contiguous2d.Option[string]]
	FillColor     *contiguous2d.Contiguous2D[contiguous2d.Option[string]]
	NumericFormat *contiguous2d.Contiguous2D[contiguous2d.Option[string]]
	Wrap          *contiguous2d.Contiguous2D[contiguous2d.Option[bool]]
	Align         *contiguous2d.Contiguous2D[contiguous2d.Option[string]]
	VerticalAlign *contiguous2d.Contiguous2D[contiguous2d.Option[string]]
}

// SheetFormatting aggregates one Contiguous2D per formatting property
// (spec §4.3). Every layer's zero value is "unset", which also happens to
// be each property's visual default (not bold, no fill, General format).
type SheetFormatting struct {
	Bold          *contiguous2d.Contiguous2D[bool]
	Italic        *contiguous2d.Contiguous2D[bool]
	Underline     *contiguous2d.Contiguous2D[bool]
	StrikeThrough *contiguous2d.Contiguous2D[bool]
	TextColor     *contiguous2d.Contiguous2D[string]
	FillColor     *contiguous2d.Contiguous2D[string]
	NumericFormat *contiguous2d.Contiguous2D[string]
	Wrap          *contiguous2d.Contiguous2D[bool]
	Align         *contiguous2d.Contiguous2D[string]
	VerticalAlign *contiguous2d.Contiguous2D[string]
}

// NewSheetFormatting builds an all-default formatting layer set.
func NewSheetFormatting() *SheetFormatting {
	return &SheetFormatting{
		Bold:          contiguous2d.New[bool](),
		Italic:        contiguous2d.New[bool](),
		Underline:     contiguous2d.New[bool](),
		StrikeThrough: contiguous2d.New[bool](),
		TextColor:     contiguous2d.New[string](),
		FillColor:     contiguous2d.New[string](),
		NumericFormat: contiguous2d.New[string](),
		Wrap:          contiguous2d.New[bool](),
		Align:         contiguous2d.New[string](),
		VerticalAlign: contiguous2d.New[string](),
	}
}

// At reads and combines every layer at p into one CellFormat.
func (f *SheetFormatting) At(p pos.Pos) CellFormat {
	return CellFormat{
		Bold:          f.Bold.Get(p),
		Italic:        f.Italic.Get(p),
		Underline:     f.Underline.Get(p),
		StrikeThrough: f.StrikeThrough.Get(p),
		TextColor:     f.TextColor.Get(p),
		FillColor:     f.FillColor.Get(p),
		NumericFormat: f.NumericFormat.Get(p),
		Wrap:          f.Wrap.Get(p),
		Align:         f.Align.Get(p),
		VerticalAlign: f.VerticalAlign.Get(p),
	}
}

// SetBold writes Bold over a rectangle and returns its undo layer.
func (f *SheetFormatting) SetBold(x1, y1 int64, x2, y2 *int64, v bool) *contiguous2d.Contiguous2D[contiguous2d.Option[bool]] {
	return f.Bold.SetRect(x1, y1, x2, y2, v)
}

// SetItalic is SetBold's Italic-layer sibling.
func (f *SheetFormatting) SetItalic(x1, y1 int64, x2, y2 *int64, v bool) *contiguous2d.Contiguous2D[contiguous2d.Option[bool]] {
	return f.Italic.SetRect(x1, y1, x2, y2, v)
}

// SetFillColor writes FillColor over a rectangle and returns its undo.
func (f *SheetFormatting) SetFillColor(x1, y1 int64, x2, y2 *int64, v string) *contiguous2d.Contiguous2D[contiguous2d.Option[string]] {
	return f.FillColor.SetRect(x1, y1, x2, y2, v)
}

// SetNumericFormat writes NumericFormat over a rectangle and returns its undo.
func (f *SheetFormatting) SetNumericFormat(x1, y1 int64, x2, y2 *int64, v string) *contiguous2d.Contiguous2D[contiguous2d.Option[string]] {
	return f.NumericFormat.SetRect(x1, y1, x2, y2, v)
}

// BordersLayer tracks per-edge border styles. A cell may specify a border
// on any of its four sides; adjacent cells sharing an edge may disagree,
// in which case the renderer picks a deterministic winner (thicker style
// wins, ties broken by the upper/left cell) — left to internal/render.
type BordersLayer struct {
	Top    *contiguous2d.Contiguous2D[string]
	Right  *contiguous2d.Contiguous2D[string]
	Bottom *contiguous2d.Contiguous2D[string]
	Left   *contiguous2d.Contiguous2D[string]
}

// NewBordersLayer builds an all-default (borderless) layer.
func NewBordersLayer() *BordersLayer {
	return &BordersLayer{
		Top:    contiguous2d.New[string](),
		Right:  contiguous2d.New[string](),
		Bottom: contiguous2d.New[string](),
		Left:   contiguous2d.New[string](),
	}
}

// MergedCells is a Contiguous2D<Option<Pos>> where each cell in a merged
// region stores the anchor Pos of that region (spec §4.3).
type MergedCells struct {
	anchors *contiguous2d.Contiguous2D[pos.Pos]
}

// zeroAnchor is the sentinel "no merge" value: Pos{0,0} is never a valid
// anchor since coordinates are 1-indexed, so it doubles as Contiguous2D's
// implicit zero/default value.
var zeroAnchor = pos.Pos{}

// NewMergedCells builds an empty merged-cells layer.
func NewMergedCells() *MergedCells {
	return &MergedCells{anchors: contiguous2d.New[pos.Pos]()}
}

// AnchorAt returns the anchor of the merged region containing p, if any.
func (m *MergedCells) AnchorAt(p pos.Pos) (pos.Pos, bool) {
	a := m.anchors.Get(p)
	if a == zeroAnchor {
		return pos.Pos{}, false
	}
	return a, true
}

// Merge registers rect as a merged region anchored at rect.Min, returning
// the prior anchor layer for undo.
func (m *MergedCells) Merge(rect pos.Rect) *contiguous2d.Contiguous2D[contiguous2d.Option[pos.Pos]] {
	x2, y2 := rect.Max.X, rect.Max.Y
	return m.anchors.SetRect(rect.Min.X, rect.Min.Y, &x2, &y2, rect.Min)
}

// Unmerge clears the region anchored at anchor (looked up via its
// GetYBlockBounds-derived width to reconstruct the full rectangle).
func (m *MergedCells) Unmerge(anchor pos.Pos) *contiguous2d.Contiguous2D[contiguous2d.Option[pos.Pos]] {
	rect, ok := m.BoundsContaining(anchor)
	if !ok {
		return contiguous2d.New[contiguous2d.Option[pos.Pos]]()
	}
	x2, y2 := rect.Max.X, rect.Max.Y
	return m.anchors.SetRect(rect.Min.X, rect.Min.Y, &x2, &y2, pos.Pos{})
}

// GetYBlockBounds returns the inclusive y-extent of the run containing p
// in the merged-cells column block (spec §4.3): together with the
// column-block's width, this reconstructs the merged rectangle in
// O(log k) without a dedicated per-merge record.
func (m *MergedCells) GetYBlockBounds(p pos.Pos) (y1, y2 int64, ok bool) {
	rects := m.anchors.NondefaultRectsInRect(pos.Rect{Min: p, Max: p})
	if len(rects) == 0 {
		return 0, 0, false
	}
	r := rects[0].Rect
	return r.Min.Y, r.Max.Y, true
}

// BoundsContaining returns the full merged rectangle containing p.
func (m *MergedCells) BoundsContaining(p pos.Pos) (pos.Rect, bool) {
	anchor, ok := m.AnchorAt(p)
	if !ok {
		return pos.Rect{}, false
	}
	rects := m.anchors.NondefaultRectsInRect(pos.Rect{Min: anchor, Max: anchor})
	for _, r := range rects {
		if r.Value == anchor {
			return r.Rect, true
		}
	}
	return pos.Rect{Min: anchor, Max: anchor}, true
}
