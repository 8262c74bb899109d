package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type auditStore struct {
	client *firestore.Client
}

func NewAuditStore(client *firestore.Client) *auditStore {
	return &auditStore{client: client}
}

func (s *auditStore) Log(ctx context.Context, orgID string, entry models.AuditEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	_, err := s.client.Collection("orgs").Doc(orgID).Collection("audit_log").Doc(entry.EntryID).Set(ctx, entry)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to write audit entry")
	}
	return nil
}
