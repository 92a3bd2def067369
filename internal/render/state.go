package render

import "github.com/quadratic-labs/gridcore/pkg/pos"

// Layer names the render-relevant data kind a hash set is tracked for
// (spec §4.5 "offered separately for labels, fills, and similar layered
// data").
type Layer string

const (
	LayerLabels Layer = "labels"
	LayerFills  Layer = "fills"
)

// DirtyFlags is the granular dirtiness the core exposes to the renderer
// (spec §4.5 "granular dirtiness (viewport, grid lines, cursor,
// headings)").
type DirtyFlags struct {
	Viewport  bool
	GridLines bool
	Cursor    bool
	Headings  bool
}

// Any reports whether any individual flag is set.
func (d DirtyFlags) Any() bool {
	return d.Viewport || d.GridLines || d.Cursor || d.Headings
}

// State is one sheet's render-facing state: the current viewport, the
// bucketing it's read through, delivered-hash bookkeeping per layer, the
// dirty flags, and deceleration physics. One State exists per open
// viewport; a host with multiple viewports onto the same sheet keeps one
// State each.
type State struct {
	SheetID   string
	Bucketing Bucketing

	viewport pos.Rect
	epoch    int64 // bumped on every viewport change; invalidates stale cursors

	delivered map[Layer]map[HashCoord]struct{}

	dirty DirtyFlags
	decel Deceleration
}

// NewState constructs render state for a sheet with the default
// bucketing and an empty viewport; call SetViewport before use.
func NewState(sheetID string) *State {
	return &State{
		SheetID:   sheetID,
		Bucketing: DefaultBucketing(),
		delivered: map[Layer]map[HashCoord]struct{}{
			LayerLabels: {},
			LayerFills:  {},
		},
		dirty: DirtyFlags{Viewport: true, GridLines: true, Cursor: true, Headings: true},
		decel: NewDeceleration(),
	}
}

// StartDecelerate begins momentum scrolling from a drag-end velocity
// sample (cells per millisecond).
func (s *State) StartDecelerate(velX, velY float64) {
	s.decel.Start(velX, velY)
}

// StopDecelerate cancels any in-flight momentum scrolling, e.g. when the
// user grabs the viewport again mid-glide.
func (s *State) StopDecelerate() {
	s.decel.Stop()
}

// IsDecelerating reports whether momentum scrolling is in flight.
func (s *State) IsDecelerating() bool { return s.decel.Active }

// UpdateDecelerate applies elapsedMs of momentum-scroll physics to the
// viewport directly, named to match the renderer-facing contract (spec
// §4.5 "update_decelerate(elapsed) applies the remaining velocity to
// viewport position each frame until below a threshold"). Frame calls
// this internally each tick; exposed separately for a host that wants
// to drive deceleration outside the normal frame/dirty cycle.
func (s *State) UpdateDecelerate(elapsedMs float64) {
	if !s.decel.Active {
		return
	}
	dx, dy := s.decel.Advance(elapsedMs)
	if dx != 0 || dy != 0 {
		s.viewport = translateRect(s.viewport, dx, dy)
		s.epoch++
		s.dirty.Viewport = true
	}
}

// Epoch returns the viewport generation counter, carried in pagination
// cursors so a page issued against a now-stale viewport is rejected
// rather than silently mixing hash sets across viewports.
func (s *State) Epoch() int64 { return s.epoch }

// Viewport returns the current visible cell rectangle.
func (s *State) Viewport() pos.Rect { return s.viewport }

// SetViewport updates the visible rectangle and marks the viewport
// dirty. Scrolling or resizing the client window calls this.
func (s *State) SetViewport(r pos.Rect) {
	if r == s.viewport {
		return
	}
	s.viewport = r
	s.epoch++
	s.dirty.Viewport = true
}

// MarkDirty sets one or more granular dirty flags directly, for events
// that don't change the viewport rectangle (e.g. a cursor move, a
// format change touching grid lines).
func (s *State) MarkDirty(flags DirtyFlags) {
	if flags.Viewport {
		s.dirty.Viewport = true
	}
	if flags.GridLines {
		s.dirty.GridLines = true
	}
	if flags.Cursor {
		s.dirty.Cursor = true
	}
	if flags.Headings {
		s.dirty.Headings = true
	}
}

// IsDirty is the aggregate the renderer polls each tick before doing any
// GPU work (spec §4.5 "an aggregate is_dirty()").
func (s *State) IsDirty() bool {
	return s.dirty.Any() || s.decel.Active
}

// Frame advances the render state by one tick: it applies deceleration
// physics (if active) to the viewport, then clears the flags that this
// frame's work addresses. The viewport-dirty flag stays set across a
// decelerating frame, since the viewport keeps moving, until velocity
// drops below the stop threshold (spec §4.5 "frame also advances
// deceleration... physics if active").
func (s *State) Frame(elapsedMs float64) {
	if s.decel.Active {
		s.UpdateDecelerate(elapsedMs)
		if !s.decel.Active {
			// Final settle: one more dirty frame so the renderer draws
			// the resting position, then quiesce.
			s.dirty.Viewport = true
		}
		return
	}
	s.dirty = DirtyFlags{}
}

// translateRect shifts both corners of r by (dx, dy); pos.Rect has no
// Translate method of its own (only pos.Pos does).
func translateRect(r pos.Rect, dx, dy int64) pos.Rect {
	return pos.Rect{Min: r.Min.Translate(dx, dy), Max: r.Max.Translate(dx, dy)}
}

// Needed returns the hashes within the current viewport that have not
// yet been delivered for layer, and marks them delivered (spec §4.5
// "the set of hashes currently visible but not yet delivered"). Callers
// that only want to preview the set without marking delivery should use
// NeededPreview.
func (s *State) Needed(layer Layer) []HashCoord {
	needed := s.NeededPreview(layer)
	d := s.delivered[layer]
	for _, h := range needed {
		d[h] = struct{}{}
	}
	return needed
}

// NeededPreview computes Needed without mutating delivery state, used
// by paginated listings that mark delivery only as pages are actually
// consumed.
func (s *State) NeededPreview(layer Layer) []HashCoord {
	bounds := s.Bucketing.VisibleHashBounds(s.viewport)
	all := bounds.Hashes()
	d := s.delivered[layer]
	out := make([]HashCoord, 0, len(all))
	for _, h := range all {
		if _, ok := d[h]; !ok {
			out = append(out, h)
		}
	}
	return out
}

// MarkDelivered records hashes as delivered for layer, used by a
// paginated caller once a page has actually been sent to the client.
func (s *State) MarkDelivered(layer Layer, hashes []HashCoord) {
	d := s.delivered[layer]
	for _, h := range hashes {
		d[h] = struct{}{}
	}
}

// Offscreen returns previously delivered hashes now outside the
// viewport, safe to unload, and forgets them (spec §4.5 "the set of
// previously delivered hashes now outside the viewport... safe to
// unload").
func (s *State) Offscreen(layer Layer) []HashCoord {
	bounds := s.Bucketing.VisibleHashBounds(s.viewport)
	d := s.delivered[layer]
	var out []HashCoord
	for h := range d {
		if !bounds.Contains(h) {
			out = append(out, h)
			delete(d, h)
		}
	}
	SortHashes(out)
	return out
}
