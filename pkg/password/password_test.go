package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Academia-api/pkg/password"
)

func TestHasher_HashYVerify(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("Aa1!aaaa")
	require.NoError(t, err)

	assert.NotEqual(t, "Aa1!aaaa", digest)
	assert.True(t, h.Verify("Aa1!aaaa", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.False(t, h.Verify("Aa1!aaaa", "no-es-bcrypt"))
}
