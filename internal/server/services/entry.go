package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safepass/server/internal/common"
	"github.com/safepass/server/internal/dbx"
	"github.com/safepass/server/internal/server/models"
	"github.com/safepass/server/internal/server/repositories/repomanager"
	"github.com/safepass/server/internal/transfer"
)

// EntryService implements the password-entry flows. Every operation is
// scoped to the authenticated account; an entry owned by someone else is
// indistinguishable from a missing one.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager) *EntryService {
	return &EntryService{db: db, repomanager: m}
}

func (s *EntryService) List(ctx context.Context, userID string) ([]*models.Entry, error) {
	repo := s.repomanager.Entries(s.db)

	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	return items, nil
}

func (s *EntryService) Create(ctx context.Context, userID string, entry *models.Entry) (*models.Entry, error) {
	repo := s.repomanager.Entries(s.db)

	now := time.Now().UTC()
	entry.ID = uuid.NewString()
	entry.UserID = userID
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := repo.Create(ctx, entry); err != nil {
		return nil, s.mapStoreError(err)
	}
	return entry, nil
}

// Update replaces the mutable fields of an existing entry and refreshes
// updated_at. The entry keeps its id, owner, and creation time.
func (s *EntryService) Update(ctx context.Context, userID, entryID string, update *models.Entry) (*models.Entry, error) {
	repo := s.repomanager.Entries(s.db)

	entry, err := repo.Get(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.mapStoreError(err)
	}

	entry.Title = update.Title
	entry.Email = update.Email
	entry.Username = update.Username
	entry.EncryptedPassword = update.EncryptedPassword
	entry.URL = update.URL
	entry.Notes = update.Notes
	entry.UpdatedAt = time.Now().UTC()

	if err := repo.Update(ctx, entry); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.mapStoreError(err)
	}
	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, userID, entryID string) error {
	repo := s.repomanager.Entries(s.db)

	if err := repo.Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.mapStoreError(err)
	}
	return nil
}

// Import parses an uploaded file (format chosen by extension) and inserts
// the importable records in a single transaction, so a malformed row cannot
// leave a partial import behind. Returns the number of imported entries.
func (s *EntryService) Import(ctx context.Context, userID, filename string, data []byte) (int, error) {
	format, err := transfer.FormatFromFilename(filename)
	if err != nil {
		return 0, err
	}

	records, err := transfer.Decode(format, data)
	if err != nil {
		return 0, common.ErrorUnsupportedFormat
	}

	imported := 0
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)
		now := time.Now().UTC()

		for _, r := range records {
			entry := &models.Entry{
				ID:                uuid.NewString(),
				UserID:            userID,
				Title:             r.Title,
				Email:             r.Email,
				Username:          r.Username,
				EncryptedPassword: r.EncryptedPassword,
				URL:               r.URL,
				Notes:             r.Notes,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := repo.Create(ctx, entry); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, s.mapStoreError(err)
	}

	return imported, nil
}

// ExportFile is a serialized export ready to be sent as an attachment.
type ExportFile struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Export serializes all of the account's entries in the requested format.
// An empty vault yields common.ErrorNotFound.
func (s *EntryService) Export(ctx context.Context, userID, formatName string) (*ExportFile, error) {
	format, err := transfer.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Entries(s.db)
	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	if len(items) == 0 {
		return nil, common.ErrorNotFound
	}

	records := make([]transfer.Record, 0, len(items))
	for _, e := range items {
		records = append(records, transfer.Record{
			Title:             e.Title,
			Email:             e.Email,
			Username:          e.Username,
			EncryptedPassword: e.EncryptedPassword,
			URL:               e.URL,
			Notes:             e.Notes,
		})
	}

	data, err := transfer.Encode(format, records)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &ExportFile{
		Data:        data,
		ContentType: format.ContentType(),
		Filename:    format.ExportFilename(),
	}, nil
}

func (s *EntryService) mapStoreError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.ErrorStoreUnavailable
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
