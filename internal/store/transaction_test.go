package store

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

func TestTransactionDateRangeWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	store := NewTransactionStore(client)
	orgID := "org-range"

	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	seed := []models.Transaction{
		{TransactionID: "t1", Type: models.TransactionOut, Date: "2025-03-01", AmountCents: 100, Description: "dentro", CreatedAt: now, UpdatedAt: now},
		{TransactionID: "t2", Type: models.TransactionIn, Date: "2025-03-20", AmountCents: 200, Description: "dentro", CreatedAt: now, UpdatedAt: now},
		{TransactionID: "t3", Type: models.TransactionOut, Date: "2025-04-02", AmountCents: 300, Description: "fora", CreatedAt: now, UpdatedAt: now},
	}
	for _, transaction := range seed {
		if _, err := store.Create(ctx, orgID, transaction); err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	items, err := store.ListByDateRange(ctx, orgID, "2025-03-01", "2025-03-31", 0)
	if err != nil {
		t.Fatalf("ListByDateRange error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(items))
	}
	if items[0].TransactionID != "t2" {
		t.Fatalf("expected newest first, got %+v", items)
	}

	if _, err := store.Get(ctx, orgID, "nope"); !errs.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}

	touched := now.Add(time.Hour)
	if err := store.TouchUpdatedAt(ctx, orgID, "t1", touched); err != nil {
		t.Fatalf("TouchUpdatedAt error: %v", err)
	}
	got, err := store.Get(ctx, orgID, "t1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !got.UpdatedAt.Equal(touched) {
		t.Fatalf("updatedAt not touched: %v", got.UpdatedAt)
	}
}
