// Package render implements the viewport-centric render state contract
// (spec §4.5): hash bucketing for lazy loading, dirty-flag aggregation,
// deceleration physics, numeric-format label rendering, and the wire
// payloads an external renderer polls.
package render

import (
	"sort"

	"github.com/quadratic-labs/gridcore/config"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// HashCoord identifies one rectangular bucket ("hash") in the sheet's
// hash grid (spec §4.5 "the sheet is partitioned into fixed-size
// hashes").
type HashCoord struct {
	X int64
	Y int64
}

// Bucketing carries the fixed bucket dimensions (in cells) used to
// translate between cell positions and hash coordinates. A sheet's
// bucket size is fixed for its lifetime; per-sheet values let a host
// tune density without a global recompile.
type Bucketing struct {
	Width  int64
	Height int64
}

// DefaultBucketing returns the bucket size from config.
func DefaultBucketing() Bucketing {
	return Bucketing{Width: config.DefaultHashWidth, Height: config.DefaultHashHeight}
}

// HashOf returns the hash bucket containing cell p.
func (b Bucketing) HashOf(p pos.Pos) HashCoord {
	return HashCoord{X: floorDiv(p.X-1, b.Width), Y: floorDiv(p.Y-1, b.Height)}
}

// Bounds returns the inclusive rectangle of cells covered by hash h.
func (b Bucketing) Bounds(h HashCoord) pos.Rect {
	minX := h.X*b.Width + 1
	minY := h.Y*b.Height + 1
	return pos.Rect{
		Min: pos.Pos{X: minX, Y: minY},
		Max: pos.Pos{X: minX + b.Width - 1, Y: minY + b.Height - 1},
	}
}

// HashBounds is the visible hash range for a viewport (spec §4.5
// "visible hash bounds [min_hash_x, max_hash_x, min_hash_y, max_hash_y]").
type HashBounds struct {
	MinX, MaxX int64
	MinY, MaxY int64
}

// VisibleHashBounds computes the hash bounds covering viewport, an
// inclusive cell rectangle. An unbounded viewport edge is an error at
// the caller: viewports are always a concrete window onto the sheet.
func (b Bucketing) VisibleHashBounds(viewport pos.Rect) HashBounds {
	topLeft := b.HashOf(viewport.Min)
	bottomRight := b.HashOf(viewport.Max)
	return HashBounds{MinX: topLeft.X, MaxX: bottomRight.X, MinY: topLeft.Y, MaxY: bottomRight.Y}
}

// Contains reports whether h falls within b.
func (b HashBounds) Contains(h HashCoord) bool {
	return h.X >= b.MinX && h.X <= b.MaxX && h.Y >= b.MinY && h.Y <= b.MaxY
}

// Hashes enumerates every hash coordinate within b, in row-major order
// (stable iteration order is required by pagination).
func (b HashBounds) Hashes() []HashCoord {
	if b.MaxX < b.MinX || b.MaxY < b.MinY {
		return nil
	}
	out := make([]HashCoord, 0, (b.MaxX-b.MinX+1)*(b.MaxY-b.MinY+1))
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			out = append(out, HashCoord{X: x, Y: y})
		}
	}
	return out
}

// SortHashes orders hashes row-major (Y then X), the stable order the
// pagination cursor's offset is relative to.
func SortHashes(hashes []HashCoord) {
	sort.Slice(hashes, func(i, j int) bool {
		if hashes[i].Y != hashes[j].Y {
			return hashes[i].Y < hashes[j].Y
		}
		return hashes[i].X < hashes[j].X
	})
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
