package store

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/cfoia/backend/internal/models"
)

func TestBankTransactionStatusWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	store := NewBankTransactionStore(client)
	orgID := "org-bank-status"

	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	seed := []models.BankTransaction{
		{ConnectionID: "conn1", ExternalID: "ext1", AmountCents: -4590, Description: "mercado", PostedAt: now, MatchStatus: models.MatchUnmatched, CreatedAt: now, UpdatedAt: now},
		{ConnectionID: "conn1", ExternalID: "ext2", AmountCents: -1200, Description: "transporte", PostedAt: now, MatchStatus: models.MatchUnmatched, CreatedAt: now, UpdatedAt: now},
	}
	if err := store.UpsertBatch(ctx, orgID, seed); err != nil {
		t.Fatalf("UpsertBatch error: %v", err)
	}

	touched := now.Add(time.Hour)
	if err := store.SetStatus(ctx, orgID, "conn1_ext1", models.MatchSuggested, touched); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}

	got, err := store.Get(ctx, orgID, "conn1_ext1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.MatchStatus != models.MatchSuggested {
		t.Fatalf("status mismatch: %q", got.MatchStatus)
	}
	if !got.UpdatedAt.Equal(touched) {
		t.Fatalf("updatedAt not touched: %v", got.UpdatedAt)
	}

	remaining, err := store.ListByStatus(ctx, orgID, []models.MatchStatus{models.MatchUnmatched}, 0)
	if err != nil {
		t.Fatalf("ListByStatus error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].BankTransactionID != "conn1_ext2" {
		t.Fatalf("expected one unmatched record, got %+v", remaining)
	}
}
