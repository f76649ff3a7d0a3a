// Package services contains the business flows of the server: the
// credential/session flows (register, login, recover, token validation) and
// the entry CRUD and import/export flows. Services return sentinel errors
// from internal/common; the HTTP layer maps them to status codes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safepass/server/internal/common"
	"github.com/safepass/server/internal/server/auth"
	"github.com/safepass/server/internal/server/config"
	"github.com/safepass/server/internal/server/models"
	"github.com/safepass/server/internal/server/repositories/repomanager"
	"github.com/safepass/server/internal/server/secret"
)

// RegisterResult is returned from a successful registration. RecoveryKey is
// the plaintext recovery secret; it appears here and nowhere else — only its
// hash is persisted, so it can never be shown again.
type RegisterResult struct {
	Token       string
	UserID      string
	Username    string
	RecoveryKey string
}

// LoginResult is returned from a successful login.
type LoginResult struct {
	Token    string
	UserID   string
	Username string
}

// UserService implements the credential flows over the credential store
// gateway. It holds no mutable state beyond configuration loaded at startup,
// so a single instance serves concurrent requests without locking.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	hasher                *secret.Hasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		hasher:                secret.NewHasher(cfg.BcryptCost),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates an account for an unused username and issues its first
// token. The uniqueness pre-check is advisory; a concurrent registration
// that wins the race surfaces through the storage unique index as
// common.ErrorUsernameTaken all the same.
func (s *UserService) Register(ctx context.Context, username, password string) (*RegisterResult, error) {

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorUsernameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, s.mapStoreError(err)
	}

	passwordHash, passwordSalt, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	recoveryKey, err := secret.GenerateRecoveryKey()
	if err != nil {
		return nil, common.ErrorInternal
	}
	recoveryKeyHash, _, err := s.hasher.Hash(recoveryKey)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:              uuid.NewString(),
		Username:        username,
		PasswordHash:    passwordHash,
		PasswordSalt:    passwordSalt,
		RecoveryKeyHash: recoveryKeyHash,
		CreatedAt:       time.Now().UTC(),
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorUsernameTaken) {
			return nil, common.ErrorUsernameTaken
		}
		return nil, s.mapStoreError(err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &RegisterResult{
		Token:       token,
		UserID:      user.ID,
		Username:    user.Username,
		RecoveryKey: recoveryKey,
	}, nil
}

// Login verifies the master credential and issues a token. An unknown
// username and a wrong password produce the same error so responses do not
// reveal which usernames exist.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, s.mapStoreError(err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

// Recover resets the master password after verifying the recovery key. The
// recovery key hash is not rotated: a key issued at registration remains
// valid for later resets. No token is issued; the caller logs in again with
// the new password.
func (s *UserService) Recover(ctx context.Context, username, recoveryKey, newPassword string) error {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.mapStoreError(err)
	}

	if !s.hasher.Verify(user.RecoveryKeyHash, recoveryKey) {
		return common.ErrorInvalidRecoveryKey
	}

	newHash, newSalt, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdateCredentials(ctx, username, newHash, newSalt); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.mapStoreError(err)
	}

	return nil
}

// ValidateToken recovers the identity claims from a bearer token. Called by
// the HTTP layer before any protected operation touches storage.
func (s *UserService) ValidateToken(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.jwtSecret)
}

// mapStoreError classifies a gateway failure: a deadline or cancellation is
// a transient, retryable condition, anything else is internal. Neither is
// ever reported as a credential error. The underlying error stays in the
// chain so the transport layer can log the actual failure.
func (s *UserService) mapStoreError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.ErrorStoreUnavailable
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
