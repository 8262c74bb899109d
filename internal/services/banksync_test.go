package services

import (
	"context"
	"testing"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/helpers"
)

type fakeFeedClient struct {
	pages map[string][]dto.PlaidSyncPage // connectionID -> pages
	calls int
	fail  map[string]bool
}

func (f *fakeFeedClient) SyncBankTransactions(ctx context.Context, connectionID, accessToken string, cursor *string) (dto.PlaidSyncPage, error) {
	if f.fail[connectionID] {
		return dto.PlaidSyncPage{}, errFake
	}
	pages := f.pages[connectionID]
	index := 0
	if cursor != nil {
		for i, page := range pages {
			if page.Cursor == *cursor {
				index = i + 1
				break
			}
		}
	}
	f.calls++
	if index >= len(pages) {
		return dto.PlaidSyncPage{Cursor: "end", HasMore: false}, nil
	}
	return pages[index], nil
}

type fakeConnectionStore struct {
	connections []models.Connection
	cursors     map[string]string
	lastErrors  map[string]string
}

func newFakeConnectionStore(connections ...models.Connection) *fakeConnectionStore {
	return &fakeConnectionStore{
		connections: connections,
		cursors:     map[string]string{},
		lastErrors:  map[string]string{},
	}
}

func (f *fakeConnectionStore) ListActive(ctx context.Context, orgID string) ([]models.Connection, error) {
	return f.connections, nil
}

func (f *fakeConnectionStore) SetSynced(ctx context.Context, orgID, connectionID, cursor string, now time.Time) error {
	f.cursors[connectionID] = cursor
	return nil
}

func (f *fakeConnectionStore) SetLastError(ctx context.Context, orgID, connectionID, message string) error {
	f.lastErrors[connectionID] = message
	return nil
}

func (f *fakeConnectionStore) OrgsWithActive(ctx context.Context) ([]string, error) {
	return []string{"org"}, nil
}

type fakeBankRecordWriter struct {
	upserted []models.BankTransaction
}

func (f *fakeBankRecordWriter) UpsertBatch(ctx context.Context, orgID string, records []models.BankTransaction) error {
	f.upserted = append(f.upserted, records...)
	return nil
}

func TestSyncOrgPagesWithCursor(t *testing.T) {
	feed := &fakeFeedClient{pages: map[string][]dto.PlaidSyncPage{
		"conn1": {
			{Records: []models.BankTransaction{{ExternalID: "e1"}, {ExternalID: "e2"}}, Cursor: "p1", HasMore: true},
			{Records: []models.BankTransaction{{ExternalID: "e3"}}, Cursor: "p2", HasMore: false},
		},
	}}
	connections := newFakeConnectionStore(models.Connection{ConnectionID: "conn1", Status: models.ConnectionStatusActive})
	records := &fakeBankRecordWriter{}
	svc := NewBankSyncService(feed, connections, records)

	result, err := svc.SyncOrg(helpers.TestCtx(), "org")
	if err != nil {
		t.Fatalf("SyncOrg error: %v", err)
	}
	if result.RecordsImported != 3 || result.ConnectionsOK != 1 {
		t.Fatalf("result mismatch: %+v", result)
	}
	if connections.cursors["conn1"] != "p2" {
		t.Fatalf("final cursor not stored: %q", connections.cursors["conn1"])
	}
	if len(records.upserted) != 3 {
		t.Fatalf("records mismatch: %d", len(records.upserted))
	}
}

func TestSyncOrgIsolatesFailures(t *testing.T) {
	feed := &fakeFeedClient{
		pages: map[string][]dto.PlaidSyncPage{
			"good": {{Records: []models.BankTransaction{{ExternalID: "e1"}}, Cursor: "p1", HasMore: false}},
		},
		fail: map[string]bool{"bad": true},
	}
	connections := newFakeConnectionStore(
		models.Connection{ConnectionID: "bad", Status: models.ConnectionStatusActive},
		models.Connection{ConnectionID: "good", Status: models.ConnectionStatusActive},
	)
	records := &fakeBankRecordWriter{}
	svc := NewBankSyncService(feed, connections, records)

	result, err := svc.SyncOrg(helpers.TestCtx(), "org")
	if err != nil {
		t.Fatalf("SyncOrg error: %v", err)
	}
	if result.Errors != 1 || result.ConnectionsOK != 1 || result.RecordsImported != 1 {
		t.Fatalf("result mismatch: %+v", result)
	}
	if connections.lastErrors["bad"] == "" {
		t.Fatal("failing connection must record lastError")
	}
}
