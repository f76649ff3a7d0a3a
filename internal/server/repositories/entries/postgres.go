package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safepass/server/internal/common"
	"github.com/safepass/server/internal/dbx"
	"github.com/safepass/server/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Entry, error) {
	query :=
		`SELECT id, user_id, title, email, username, encrypted_password, url, notes, created_at, updated_at
		 FROM entries
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Email, &item.Username,
			&item.EncryptedPassword, &item.URL, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, entryID string) (*models.Entry, error) {
	query :=
		`SELECT id, user_id, title, email, username, encrypted_password, url, notes, created_at, updated_at
		 FROM entries
		 WHERE id = $1 AND user_id = $2
		 `

	entry := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, entryID, userID).Scan(
		&entry.ID, &entry.UserID, &entry.Title, &entry.Email, &entry.Username,
		&entry.EncryptedPassword, &entry.URL, &entry.Notes, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) error {
	query :=
		`INSERT INTO entries (id, user_id, title, email, username, encrypted_password, url, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Email, entry.Username,
		entry.EncryptedPassword, entry.URL, entry.Notes, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query :=
		`UPDATE entries
		 SET title = $3, email = $4, username = $5, encrypted_password = $6, url = $7, notes = $8, updated_at = $9
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Email, entry.Username,
		entry.EncryptedPassword, entry.URL, entry.Notes, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, entryID string) error {
	query :=
		`DELETE FROM entries
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
