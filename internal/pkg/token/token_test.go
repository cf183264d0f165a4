package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_LengthAndAlphabet(t *testing.T) {
	s, err := String(60, Alphanumeric)
	require.NoError(t, err)
	assert.Len(t, s, 60)
	for _, c := range s {
		assert.True(t, strings.ContainsRune(Alphanumeric, c), "unexpected char %q", c)
	}
}

func TestString_InvalidLength(t *testing.T) {
	_, err := String(0, Alphanumeric)
	assert.Error(t, err)
}

func TestNumeric(t *testing.T) {
	code, err := Numeric(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestString_NotRepeated(t *testing.T) {
	a, err := String(60, Alphanumeric)
	require.NoError(t, err)
	b, err := String(60, Alphanumeric)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
