package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type connectionStore struct {
	client *firestore.Client
}

func NewConnectionStore(client *firestore.Client) *connectionStore {
	return &connectionStore{client: client}
}

func (s *connectionStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("connections")
}

func (s *connectionStore) Create(ctx context.Context, orgID string, connection models.Connection) (string, error) {
	if connection.ConnectionID == "" {
		connection.ConnectionID = uuid.NewString()
	}
	if _, err := s.collection(orgID).Doc(connection.ConnectionID).Set(ctx, connection); err != nil {
		return "", errs.NewDatabaseError("create", "failed to create connection")
	}
	return connection.ConnectionID, nil
}

func (s *connectionStore) ListActive(ctx context.Context, orgID string) ([]models.Connection, error) {
	iter := s.collection(orgID).Where("status", "==", models.ConnectionStatusActive).Documents(ctx)
	defer iter.Stop()

	var out []models.Connection
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list connections")
		}
		var connection models.Connection
		if err := doc.DataTo(&connection); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse connection")
		}
		out = append(out, connection)
	}
	return out, nil
}

func (s *connectionStore) SetSynced(ctx context.Context, orgID, connectionID, cursor string, now time.Time) error {
	_, err := s.collection(orgID).Doc(connectionID).Update(ctx, []firestore.Update{
		{Path: "cursor", Value: cursor},
		{Path: "lastError", Value: ""},
		{Path: "lastSyncedAt", Value: now},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to record sync cursor")
	}
	return nil
}

func (s *connectionStore) SetLastError(ctx context.Context, orgID, connectionID, message string) error {
	_, err := s.collection(orgID).Doc(connectionID).Update(ctx, []firestore.Update{
		{Path: "lastError", Value: message},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to record sync error")
	}
	return nil
}

// OrgsWithActive lists org IDs holding at least one active connection.
func (s *connectionStore) OrgsWithActive(ctx context.Context) ([]string, error) {
	iter := s.client.CollectionGroup("connections").
		Where("status", "==", models.ConnectionStatusActive).
		Select().
		Documents(ctx)
	defer iter.Stop()

	seen := map[string]bool{}
	var out []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to scan connections")
		}
		orgID := doc.Ref.Parent.Parent.ID
		if !seen[orgID] {
			seen[orgID] = true
			out = append(out, orgID)
		}
	}
	return out, nil
}
