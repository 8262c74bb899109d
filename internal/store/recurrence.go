package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type recurrenceStore struct {
	client *firestore.Client
}

func NewRecurrenceStore(client *firestore.Client) *recurrenceStore {
	return &recurrenceStore{client: client}
}

func (s *recurrenceStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("recurrences")
}

func (s *recurrenceStore) Create(ctx context.Context, orgID string, recurrence models.Recurrence) (string, error) {
	if recurrence.RecurrenceID == "" {
		recurrence.RecurrenceID = uuid.NewString()
	}
	if _, err := s.collection(orgID).Doc(recurrence.RecurrenceID).Set(ctx, recurrence); err != nil {
		return "", errs.NewDatabaseError("create", "failed to create recurrence")
	}
	return recurrence.RecurrenceID, nil
}

func (s *recurrenceStore) List(ctx context.Context, orgID string) ([]models.Recurrence, error) {
	iter := s.collection(orgID).OrderBy("nextRunAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []models.Recurrence
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list recurrences")
		}
		var recurrence models.Recurrence
		if err := doc.DataTo(&recurrence); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse recurrence")
		}
		out = append(out, recurrence)
	}
	return out, nil
}
