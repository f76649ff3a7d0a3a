package secret

import (
	"strings"

	"github.com/safepass/server/internal/common"
)

const (
	recoveryKeyGroups     = 4
	recoveryKeyGroupBytes = 4 // 8 hex characters per group, 128 bits total
)

// GenerateRecoveryKey produces a high-entropy recovery secret formatted for
// human transcription: four hyphen-separated groups of eight uppercase hex
// characters (e.g. "3F2A9C01-77D4E5B2-...").
//
// The plaintext key is returned to the client exactly once, in the
// registration response; only its hash is ever persisted.
func GenerateRecoveryKey() (string, error) {
	parts := make([]string, 0, recoveryKeyGroups)
	for i := 0; i < recoveryKeyGroups; i++ {
		s, err := common.MakeRandHexString(recoveryKeyGroupBytes)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.ToUpper(s))
	}

	return strings.Join(parts, "-"), nil
}
