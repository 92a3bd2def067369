package render

import (
	"testing"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/stretchr/testify/require"
)

func TestEstimateViewportTokensGrowsWithContent(t *testing.T) {
	small := []grid.CellValue{grid.NewText("hi")}
	large := []grid.CellValue{grid.NewText("hi"), grid.NewText("a considerably longer cell of text content")}

	smallTokens, err := EstimateViewportTokens(small, nil)
	require.NoError(t, err)
	largeTokens, err := EstimateViewportTokens(large, nil)
	require.NoError(t, err)
	require.Greater(t, largeTokens, smallTokens)
}

func TestEstimateViewportTokensEmpty(t *testing.T) {
	n, err := EstimateViewportTokens(nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
