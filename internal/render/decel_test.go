package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecelerationAdvancesThenStops(t *testing.T) {
	d := NewDeceleration()
	d.Start(0.5, 0)
	require.True(t, d.Active)

	total := int64(0)
	for i := 0; i < 200 && d.Active; i++ {
		dx, _ := d.Advance(16)
		total += dx
	}
	require.False(t, d.Active, "deceleration should settle within 200 frames")
	require.Greater(t, total, int64(0))
}

func TestDecelerationBelowThresholdNeverStarts(t *testing.T) {
	d := NewDeceleration()
	d.Start(0.0000001, 0.0000001)
	require.False(t, d.Active)
}

func TestStopCancelsDeceleration(t *testing.T) {
	d := NewDeceleration()
	d.Start(1, 1)
	require.True(t, d.Active)
	d.Stop()
	require.False(t, d.Active)
	dx, dy := d.Advance(16)
	require.Zero(t, dx)
	require.Zero(t, dy)
}

func TestStateFrameAppliesDecelerationToViewport(t *testing.T) {
	s := NewState("sheet-1")
	s.Frame(16)
	s.StartDecelerate(5, 0)
	require.True(t, s.IsDecelerating())

	moved := false
	for i := 0; i < 500 && s.IsDecelerating(); i++ {
		before := s.Viewport()
		s.Frame(16)
		if s.Viewport() != before {
			moved = true
		}
	}
	require.True(t, moved)
	require.False(t, s.IsDecelerating())
}
