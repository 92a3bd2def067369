package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quadratic-labs/gridcore/pkg/pos"
)

func TestResolveCellSingleCell(t *testing.T) {
	p, ok := resolveCell("B2")
	require.True(t, ok)
	require.Equal(t, pos.Pos{X: 2, Y: 2}, p)
}

func TestResolveCellRejectsRange(t *testing.T) {
	_, ok := resolveCell("A1:B2")
	require.False(t, ok)
}

func TestResolveCellRejectsGarbage(t *testing.T) {
	_, ok := resolveCell("not a cell")
	require.False(t, ok)
}

func TestResolveRangeBounded(t *testing.T) {
	r, ok := resolveRange("A1:C3")
	require.True(t, ok)
	require.Equal(t, pos.Pos{X: 1, Y: 1}, r.Min)
	require.Equal(t, pos.Pos{X: 3, Y: 3}, r.Max)
}

func TestResolveRangeRejectsUnbounded(t *testing.T) {
	_, ok := resolveRange("A:A")
	require.False(t, ok)
}
