package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

// Links live in a top-level collection keyed by phone number, since an
// inbound message carries a phone before any org is known.
type linkStore struct {
	client *firestore.Client
}

func NewLinkStore(client *firestore.Client) *linkStore {
	return &linkStore{client: client}
}

func (s *linkStore) collection() *firestore.CollectionRef {
	return s.client.Collection("user_links")
}

func (s *linkStore) FindByPhone(ctx context.Context, phone string) (*models.UserLink, error) {
	iter := s.collection().
		Where("phoneE164", "==", phone).
		Where("isActive", "==", true).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to find user link")
	}

	var link models.UserLink
	if err := doc.DataTo(&link); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user link")
	}
	return &link, nil
}

func (s *linkStore) ListActiveByOrg(ctx context.Context, orgID string) ([]models.UserLink, error) {
	iter := s.collection().
		Where("orgId", "==", orgID).
		Where("isActive", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var out []models.UserLink
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list user links")
		}
		var link models.UserLink
		if err := doc.DataTo(&link); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse user link")
		}
		out = append(out, link)
	}
	return out, nil
}
