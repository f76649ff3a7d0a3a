// Package auth implements the bearer-token service: signing and validating
// the self-contained HS256 tokens that identify a vault owner. The server
// keeps no session state; a token is valid until its expiration instant and
// there is no refresh or revocation path.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safepass/server/internal/common"
)

// Claims is the set of assertions carried by a token: the registered claims
// plus the account identity established at registration.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"master_username"`
}

// GenerateToken issues a signed token for the given account with
// exp = now + validityDuration.
func GenerateToken(userID, username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:   userID,
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiration of tokenString and
// returns its claims. An expired token yields common.ErrTokenExpired; a
// malformed token, a bad signature, or an unexpected signing method yield
// common.ErrInvalidToken. The two are distinguishable for diagnostics but
// both map to an unauthorized outcome at the boundary.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
