package griderr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUsesCatalogMessage(t *testing.T) {
	err := New(InvalidSheet, "")
	assert.Equal(t, InvalidSheet, err.Code)
	assert.Contains(t, err.Error(), "sheet not found")
}

func TestNewOverridesMessage(t *testing.T) {
	err := New(InvalidSheet, "sheet \"Budget\" not found")
	assert.Contains(t, err.Error(), "Budget")
}

func TestIs(t *testing.T) {
	var err error = New(LimitExceeded, "")
	assert.True(t, Is(err, LimitExceeded))
	assert.False(t, Is(err, Timeout))
}

func TestUnknownCodePassesThrough(t *testing.T) {
	err := New(Code("SOMETHING_ELSE"), "custom message")
	assert.Equal(t, "custom message", err.Message)
}
