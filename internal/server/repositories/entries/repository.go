// Package entries provides PostgreSQL-backed storage for password entries.
package entries

import (
	"context"

	"github.com/safepass/server/internal/server/models"
)

// Repository is the persistence surface for password entries. Every
// operation is scoped to an owning user; an entry belonging to another
// account behaves as if it did not exist.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Entry, error)
	Get(ctx context.Context, userID, entryID string) (*models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, userID, entryID string) error
}
