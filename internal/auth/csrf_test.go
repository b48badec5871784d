package auth_test

import (
	"testing"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSRFToken(t *testing.T) {
	a, err := auth.NewCSRFToken()
	require.NoError(t, err)
	b, err := auth.NewCSRFToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestValidCSRFToken(t *testing.T) {
	assert.True(t, auth.ValidCSRFToken("abc", "abc"))
	assert.False(t, auth.ValidCSRFToken("abc", "abd"))
	assert.False(t, auth.ValidCSRFToken("abc", ""))
	assert.False(t, auth.ValidCSRFToken("", ""))
}
