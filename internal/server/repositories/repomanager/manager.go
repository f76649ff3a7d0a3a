package repomanager

import (
	"context"
	"database/sql"

	"github.com/safepass/server/internal/dbx"
	"github.com/safepass/server/internal/server/repositories/entries"
	"github.com/safepass/server/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX and exposes a schema
// migration hook. Passing a *sql.Tx instead of the *sql.DB scopes the
// returned repository to that transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
}
