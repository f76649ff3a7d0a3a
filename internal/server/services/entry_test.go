package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/safepass/server/internal/common"
	"github.com/safepass/server/internal/server/models"
	"github.com/safepass/server/internal/transfer"
)

type fakeEntriesRepo struct {
	mu sync.Mutex

	listOut []*models.Entry
	listErr error

	getOut *models.Entry
	getErr error

	createErr error
	created   []*models.Entry
	// failOnCreate aborts the n-th Create call (1-based), for exercising
	// the import transaction rollback.
	failOnCreate int

	updateErr error
	updated   *models.Entry

	deleteErr error
	deletedID string
}

func (f *fakeEntriesRepo) ListByUser(ctx context.Context, userID string) ([]*models.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeEntriesRepo) Get(ctx context.Context, userID, entryID string) (*models.Entry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeEntriesRepo) Create(ctx context.Context, entry *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOnCreate > 0 && len(f.created)+1 == f.failOnCreate {
		return errors.New("insert failed")
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, entry)
	return nil
}

func (f *fakeEntriesRepo) Update(ctx context.Context, entry *models.Entry) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = entry
	return nil
}

func (f *fakeEntriesRepo) Delete(ctx context.Context, userID, entryID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = entryID
	return nil
}

func newEntryService(t *testing.T, repo *fakeEntriesRepo) (*EntryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	return NewEntryService(db, &fakeRepoManager{e: repo}), mock
}

func sampleEntry() *models.Entry {
	return &models.Entry{
		ID:                "e-1",
		UserID:            "u-1",
		Title:             "mail",
		Email:             "alice@example.com",
		Username:          "alice",
		EncryptedPassword: "ZW5jcnlwdGVk",
		URL:               "https://mail.example.com",
		Notes:             "personal",
		CreatedAt:         time.Now().UTC().Add(-time.Hour),
		UpdatedAt:         time.Now().UTC().Add(-time.Hour),
	}
}

func TestEntryList(t *testing.T) {
	repo := &fakeEntriesRepo{listOut: []*models.Entry{sampleEntry()}}
	s, _ := newEntryService(t, repo)

	items, err := s.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "mail" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestEntryCreate_AssignsIdentityAndTimestamps(t *testing.T) {
	repo := &fakeEntriesRepo{}
	s, _ := newEntryService(t, repo)

	entry, err := s.Create(context.Background(), "u-1", &models.Entry{Title: "bank"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if entry.ID == "" || entry.UserID != "u-1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.CreatedAt.IsZero() || !entry.CreatedAt.Equal(entry.UpdatedAt) {
		t.Fatalf("expected matching non-zero timestamps, got %v / %v", entry.CreatedAt, entry.UpdatedAt)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted entry")
	}
}

func TestEntryUpdate_ReplacesFieldsKeepsIdentity(t *testing.T) {
	existing := sampleEntry()
	repo := &fakeEntriesRepo{getOut: existing}
	s, _ := newEntryService(t, repo)

	updated, err := s.Update(context.Background(), "u-1", "e-1", &models.Entry{
		Title: "mail (renamed)",
		URL:   "https://new.example.com",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.ID != "e-1" || updated.UserID != "u-1" {
		t.Fatalf("identity must not change: %+v", updated)
	}
	if updated.Title != "mail (renamed)" || updated.URL != "https://new.example.com" {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if updated.Email != "" {
		t.Fatalf("omitted fields replace, not merge: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("expected updated_at to move forward")
	}
	if repo.updated == nil {
		t.Fatalf("expected repo.Update to be called")
	}
}

func TestEntryUpdate_NotFound(t *testing.T) {
	repo := &fakeEntriesRepo{getErr: common.ErrorNotFound}
	s, _ := newEntryService(t, repo)

	_, err := s.Update(context.Background(), "u-1", "missing", &models.Entry{})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestEntryDelete(t *testing.T) {
	repo := &fakeEntriesRepo{}
	s, _ := newEntryService(t, repo)

	if err := s.Delete(context.Background(), "u-1", "e-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if repo.deletedID != "e-1" {
		t.Fatalf("unexpected deleted id %q", repo.deletedID)
	}

	repo.deleteErr = common.ErrorNotFound
	if err := s.Delete(context.Background(), "u-1", "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestEntryList_StoreTimeout(t *testing.T) {
	repo := &fakeEntriesRepo{listErr: context.DeadlineExceeded}
	s, _ := newEntryService(t, repo)

	_, err := s.List(context.Background(), "u-1")
	if !errors.Is(err, common.ErrorStoreUnavailable) {
		t.Fatalf("want common.ErrorStoreUnavailable, got %v", err)
	}
}

func TestEntryList_StoreFailureKeepsCause(t *testing.T) {
	repo := &fakeEntriesRepo{listErr: errors.New("driver: bad connection")}
	s, _ := newEntryService(t, repo)

	_, err := s.List(context.Background(), "u-1")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want common.ErrorInternal, got %v", err)
	}
	if !strings.Contains(err.Error(), "driver: bad connection") {
		t.Fatalf("underlying failure missing from error chain: %v", err)
	}
}

// --- Import / Export ---

const importCSV = "title,username,password,url\n" +
	"github,alice,hunter2,https://github.com\n" +
	"mail,alice,pw2,https://mail.example.com\n"

func TestEntryImport_CSV(t *testing.T) {
	repo := &fakeEntriesRepo{}
	s, mock := newEntryService(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	count, err := s.Import(context.Background(), "u-1", "passwords.csv", []byte(importCSV))
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2 imported, got %d", count)
	}
	if len(repo.created) != 2 {
		t.Fatalf("want 2 persisted entries, got %d", len(repo.created))
	}

	first := repo.created[0]
	if first.UserID != "u-1" || first.ID == "" {
		t.Fatalf("imported entry missing identity: %+v", first)
	}
	if first.Title != "github" || first.EncryptedPassword != "hunter2" {
		t.Fatalf("unexpected imported entry: %+v", first)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestEntryImport_RollsBackOnFailure(t *testing.T) {
	repo := &fakeEntriesRepo{failOnCreate: 2}
	s, mock := newEntryService(t, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Import(context.Background(), "u-1", "passwords.csv", []byte(importCSV))
	if err == nil {
		t.Fatalf("expected an error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected the transaction to roll back: %v", err)
	}
}

func TestEntryImport_UnsupportedExtension(t *testing.T) {
	repo := &fakeEntriesRepo{}
	s, _ := newEntryService(t, repo)

	_, err := s.Import(context.Background(), "u-1", "passwords.txt", []byte("data"))
	if !errors.Is(err, common.ErrorUnsupportedFormat) {
		t.Fatalf("want common.ErrorUnsupportedFormat, got %v", err)
	}
}

func TestEntryImport_MalformedPayload(t *testing.T) {
	repo := &fakeEntriesRepo{}
	s, _ := newEntryService(t, repo)

	_, err := s.Import(context.Background(), "u-1", "passwords.xlsx", []byte("not a workbook"))
	if !errors.Is(err, common.ErrorUnsupportedFormat) {
		t.Fatalf("want common.ErrorUnsupportedFormat, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("nothing may be persisted for a malformed payload")
	}
}

func TestEntryExport_CSV(t *testing.T) {
	repo := &fakeEntriesRepo{listOut: []*models.Entry{sampleEntry()}}
	s, _ := newEntryService(t, repo)

	file, err := s.Export(context.Background(), "u-1", "csv")
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if file.ContentType != "text/csv" || file.Filename != "safepass_export.csv" {
		t.Fatalf("unexpected export metadata: %+v", file)
	}
	if !strings.Contains(string(file.Data), "mail,alice@example.com,alice") {
		t.Fatalf("exported data missing entry: %q", file.Data)
	}
}

func TestEntryExport_EmptyVault(t *testing.T) {
	repo := &fakeEntriesRepo{}
	s, _ := newEntryService(t, repo)

	_, err := s.Export(context.Background(), "u-1", "csv")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestEntryExport_UnknownFormat(t *testing.T) {
	repo := &fakeEntriesRepo{listOut: []*models.Entry{sampleEntry()}}
	s, _ := newEntryService(t, repo)

	_, err := s.Export(context.Background(), "u-1", "pdf")
	if !errors.Is(err, common.ErrorUnsupportedFormat) {
		t.Fatalf("want common.ErrorUnsupportedFormat, got %v", err)
	}
}

func TestEntryExport_RoundTripThroughImport(t *testing.T) {
	repo := &fakeEntriesRepo{listOut: []*models.Entry{sampleEntry()}}
	s, _ := newEntryService(t, repo)

	file, err := s.Export(context.Background(), "u-1", "xml")
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	records, err := transfer.Decode(transfer.FormatXML, file.Data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(records) != 1 || records[0].Title != "mail" {
		t.Fatalf("unexpected round trip: %+v", records)
	}
}
