// Package users provides the credential store gateway: the narrow
// persistence contract the auth flows depend on.
package users

import (
	"context"

	"github.com/safepass/server/internal/server/models"
)

// Repository is the persistence surface consumed by the auth service.
//
// Create must fail with common.ErrorUsernameTaken when an insert violates
// the username uniqueness constraint, so that a registration race lost at
// the storage layer surfaces the same way as one caught by the advisory
// pre-check.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateCredentials(ctx context.Context, username, newHash, newSalt string) error
}
