package render

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/require"
)

func TestNewStateStartsFullyDirty(t *testing.T) {
	s := NewState("sheet-1")
	require.True(t, s.IsDirty())
}

func TestFrameClearsDirtyWhenNotDecelerating(t *testing.T) {
	s := NewState("sheet-1")
	s.Frame(16)
	require.False(t, s.IsDirty())
}

func TestSetViewportMarksDirtyAndBumpsEpoch(t *testing.T) {
	s := NewState("sheet-1")
	s.Frame(16)
	epoch0 := s.Epoch()
	s.SetViewport(pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 20, Y: 20}})
	require.True(t, s.IsDirty())
	require.Greater(t, s.Epoch(), epoch0)
}

func TestNeededThenOffscreenLifecycle(t *testing.T) {
	s := NewState("sheet-1")
	s.Bucketing = Bucketing{Width: 10, Height: 10}
	s.SetViewport(pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 9, Y: 9}})

	needed := s.Needed(LayerLabels)
	require.Len(t, needed, 1)

	// Calling Needed again with the same viewport yields nothing new.
	require.Empty(t, s.Needed(LayerLabels))

	// Scrolling away makes the previously delivered hash offscreen.
	s.SetViewport(pos.Rect{Min: pos.Pos{X: 101, Y: 101}, Max: pos.Pos{X: 109, Y: 109}})
	offscreen := s.Offscreen(LayerLabels)
	require.Len(t, offscreen, 1)
	require.Equal(t, needed[0], offscreen[0])

	// The newly visible hash is needed again.
	require.Len(t, s.Needed(LayerLabels), 1)
}

func TestLayersTrackedIndependently(t *testing.T) {
	s := NewState("sheet-1")
	s.Bucketing = Bucketing{Width: 10, Height: 10}
	s.SetViewport(pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 9, Y: 9}})

	require.Len(t, s.Needed(LayerLabels), 1)
	// Fills layer hasn't been delivered yet even though labels has.
	require.Len(t, s.NeededPreview(LayerFills), 1)
}
