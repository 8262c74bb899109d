package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type membershipStore struct {
	client *firestore.Client
}

func NewMembershipStore(client *firestore.Client) *membershipStore {
	return &membershipStore{client: client}
}

func (s *membershipStore) Get(ctx context.Context, orgID, userID string) (*models.Membership, error) {
	doc, err := s.client.Collection("orgs").Doc(orgID).Collection("memberships").Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get membership")
	}
	var membership models.Membership
	if err := doc.DataTo(&membership); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse membership")
	}
	return &membership, nil
}
