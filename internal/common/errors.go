// Package common defines shared constants and sentinel errors used across
// the SafePass server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrorStoreUnavailable = errors.New("storage unavailable")

	// Credential flow errors.
	ErrorUsernameTaken      = errors.New("username already exists")
	ErrorInvalidCredentials = errors.New("invalid username or password")
	ErrorInvalidRecoveryKey = errors.New("invalid recovery key")

	// Token lifecycle errors (invalid or malformed vs. past expiry).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Import/export errors.
	ErrorUnsupportedFormat = errors.New("unsupported file format")
)
