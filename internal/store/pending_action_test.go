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

func TestPendingActionDeleteRaceWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	store := NewPendingActionStore(client)
	orgID := "org-pending"
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

	id, err := store.Create(ctx, orgID, models.PendingAction{
		UserID:         "u1",
		ConversationID: "c1",
		ToolName:       "createTransaction",
		CreatedAt:      now,
		ExpiresAt:      now.Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := store.DeleteExisting(ctx, orgID, id); err != nil {
		t.Fatalf("first delete error: %v", err)
	}
	if err := store.DeleteExisting(ctx, orgID, id); !errs.IsNotFound(err) {
		t.Fatalf("second delete must report not-found, got %v", err)
	}

	got, err := store.Get(ctx, orgID, id)
	if err != nil || got != nil {
		t.Fatalf("deleted action must read as nil: %+v %v", got, err)
	}
}
