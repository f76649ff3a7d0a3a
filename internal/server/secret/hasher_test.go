package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcryptTestCost)

	digest, salt, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, h.Verify(digest, "correct horse battery staple"))
	assert.False(t, h.Verify(digest, "correct horse battery stapl"))
	assert.False(t, h.Verify(digest, ""))

	assert.NotEqual(t, digest, "correct horse battery staple", "digest must not equal plaintext")
	assert.Len(t, salt, 29)
	assert.True(t, strings.HasPrefix(digest, salt), "salt must be the digest prefix")
}

func TestHasher_SaltsDiffer(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcryptTestCost)

	d1, s1, err := h.Hash("same secret")
	require.NoError(t, err)
	d2, s2, err := h.Hash("same secret")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2, "per-secret random salt must produce distinct digests")
	assert.NotEqual(t, s1, s2)
}

func TestHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcryptTestCost)

	assert.False(t, h.Verify("", "anything"))
	assert.False(t, h.Verify("not-a-bcrypt-digest", "anything"))
	assert.False(t, h.Verify("$2a$10$corrupted", "anything"))
}

func TestNewHasher_ZeroCostUsesDefault(t *testing.T) {
	t.Parallel()

	h := NewHasher(0)
	digest, _, err := h.Hash("x")
	require.NoError(t, err)
	assert.True(t, h.Verify(digest, "x"))
}
