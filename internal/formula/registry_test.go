package formula

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupFuncIsCaseInsensitive(t *testing.T) {
	spec, ok := LookupFunc("vlookup")
	require.True(t, ok)
	require.Equal(t, "VLOOKUP", spec.Name)
}

func TestCheckArityRejectsOutOfRange(t *testing.T) {
	spec, ok := LookupFunc("IF")
	require.True(t, ok)
	require.NoError(t, spec.CheckArity(2))
	require.NoError(t, spec.CheckArity(3))
	require.Error(t, spec.CheckArity(1))
	require.Error(t, spec.CheckArity(4))
}

func TestCallUnknownFunctionErrors(t *testing.T) {
	_, err := Call("NOT_A_REAL_FUNCTION", nil)
	require.Error(t, err)
}

func TestNamesIncludesRegisteredFunctions(t *testing.T) {
	names := Names()
	require.Contains(t, names, "VLOOKUP")
	require.Contains(t, names, "XLOOKUP")
	require.Contains(t, names, "IFS")
	require.Contains(t, names, "BITAND")
	require.Contains(t, names, "NORM.DIST")
}
