package mcpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quadratic-labs/gridcore/pkg/griderr"
)

func TestGriderrToMCPMapsKnownCode(t *testing.T) {
	err := griderr.New(griderr.InvalidSheet, "")
	res := griderrToMCP(err)
	require.NotNil(t, res)
	require.True(t, res.IsError)
}

func TestGriderrToMCPFallsBackOnPlainError(t *testing.T) {
	res := griderrToMCP(errors.New("boom"))
	require.NotNil(t, res)
	require.True(t, res.IsError)
}
