package render

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/require"
)

func TestNeededHashesPagePaginatesLargeViewport(t *testing.T) {
	s := NewState("sheet-1")
	s.Bucketing = Bucketing{Width: 1, Height: 1}
	s.SetViewport(pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 5, Y: 1}})

	page1, err := NeededHashesPage(s, LayerLabels, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1.Hashes, 2)
	require.NotNil(t, page1.Next)

	page2, err := NeededHashesPage(s, LayerLabels, page1.Next, 0)
	require.NoError(t, err)
	require.Len(t, page2.Hashes, 2)
	require.NotNil(t, page2.Next)

	page3, err := NeededHashesPage(s, LayerLabels, page2.Next, 0)
	require.NoError(t, err)
	require.Len(t, page3.Hashes, 1)
	require.Nil(t, page3.Next)
}

func TestNeededHashesPageRejectsStaleEpoch(t *testing.T) {
	s := NewState("sheet-1")
	s.SetViewport(pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 20, Y: 20}})
	page, err := NeededHashesPage(s, LayerLabels, nil, 1)
	require.NoError(t, err)
	require.NotNil(t, page.Next)

	s.SetViewport(pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 30, Y: 30}})
	_, err = NeededHashesPage(s, LayerLabels, page.Next, 0)
	require.Error(t, err)
}

func TestNeededHashesPageRejectsWrongLayer(t *testing.T) {
	s := NewState("sheet-1")
	s.SetViewport(pos.Rect{Min: pos.Pos{X: 1, Y: 1}, Max: pos.Pos{X: 20, Y: 20}})
	page, err := NeededHashesPage(s, LayerLabels, nil, 1)
	require.NoError(t, err)
	_, err = NeededHashesPage(s, LayerFills, page.Next, 0)
	require.Error(t, err)
}
