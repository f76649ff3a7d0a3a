// Package secret provides one-way hashing for master passwords and recovery
// keys, and generation of the recovery key itself.
package secret

import (
	"github.com/safepass/server/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// saltPrefixLen is the length of the "$2a$NN$" version/cost header plus the
// 22-character encoded salt that bcrypt embeds at the front of every digest.
const saltPrefixLen = 29

// Hasher computes salted bcrypt digests. The zero cost selects
// bcrypt.DefaultCost.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash digests the secret with a freshly generated per-secret salt and
// returns the digest together with the salt portion. The salt is already
// embedded in the digest; it is returned separately because the stored
// account document carries it as its own field.
func (h *Hasher) Hash(secret string) (digest string, salt string, err error) {
	buf := []byte(secret)
	defer common.WipeByteArray(buf)

	hashed, err := bcrypt.GenerateFromPassword(buf, h.cost)
	if err != nil {
		return "", "", err
	}

	digest = string(hashed)
	return digest, digest[:saltPrefixLen], nil
}

// Verify reports whether secret matches digest. It relies on bcrypt's own
// constant-time comparison; a malformed or corrupted digest verifies as
// false rather than failing.
func (h *Hasher) Verify(digest, secret string) bool {
	buf := []byte(secret)
	defer common.WipeByteArray(buf)

	return bcrypt.CompareHashAndPassword([]byte(digest), buf) == nil
}
