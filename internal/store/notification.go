package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type notificationStore struct {
	client *firestore.Client
}

func NewNotificationStore(client *firestore.Client) *notificationStore {
	return &notificationStore{client: client}
}

func (s *notificationStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("notifications")
}

func (s *notificationStore) deliveries(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("notification_deliveries")
}

func (s *notificationStore) ListSince(ctx context.Context, orgID string, since time.Time) ([]models.Notification, error) {
	query := s.collection(orgID).
		Where("createdAt", ">=", since).
		OrderBy("createdAt", firestore.Desc)
	return s.drain(query.Documents(ctx))
}

func (s *notificationStore) ListRecent(ctx context.Context, orgID string, limit int) ([]models.Notification, error) {
	query := s.collection(orgID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return s.drain(query.Documents(ctx))
}

// ListDeliveries returns this user's channel deliveries keyed by
// notification ID.
func (s *notificationStore) ListDeliveries(ctx context.Context, orgID, userID, channel string) (map[string]models.NotificationDelivery, error) {
	iter := s.deliveries(orgID).
		Where("userId", "==", userID).
		Where("channel", "==", channel).
		Documents(ctx)
	defer iter.Stop()

	out := map[string]models.NotificationDelivery{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list deliveries")
		}
		var delivery models.NotificationDelivery
		if err := doc.DataTo(&delivery); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse delivery")
		}
		out[delivery.NotificationID] = delivery
	}
	return out, nil
}

// UpsertDelivery records a delivery attempt. The composite key keeps one
// row per notification, user and channel.
func (s *notificationStore) UpsertDelivery(ctx context.Context, orgID string, delivery models.NotificationDelivery) error {
	docID := fmt.Sprintf("%s_%s_%s", delivery.NotificationID, delivery.UserID, delivery.Channel)
	if _, err := s.deliveries(orgID).Doc(docID).Set(ctx, delivery); err != nil {
		return errs.NewDatabaseError("write", "failed to upsert delivery")
	}
	return nil
}

func (s *notificationStore) drain(iter *firestore.DocumentIterator) ([]models.Notification, error) {
	defer iter.Stop()

	var out []models.Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list notifications")
		}
		var notification models.Notification
		if err := doc.DataTo(&notification); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse notification")
		}
		out = append(out, notification)
	}
	return out, nil
}
