package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type pendingActionStore struct {
	client *firestore.Client
}

func NewPendingActionStore(client *firestore.Client) *pendingActionStore {
	return &pendingActionStore{client: client}
}

func (s *pendingActionStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("pending_actions")
}

func (s *pendingActionStore) Create(ctx context.Context, orgID string, action models.PendingAction) (string, error) {
	if action.ActionID == "" {
		action.ActionID = uuid.NewString()
	}
	if _, err := s.collection(orgID).Doc(action.ActionID).Set(ctx, action); err != nil {
		return "", errs.NewDatabaseError("create", "failed to create pending action")
	}
	return action.ActionID, nil
}

// ListByConversation returns pending actions for a conversation, most recent
// first.
func (s *pendingActionStore) ListByConversation(ctx context.Context, orgID, conversationID string) ([]models.PendingAction, error) {
	iter := s.collection(orgID).
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []models.PendingAction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list pending actions")
		}
		var action models.PendingAction
		if err := doc.DataTo(&action); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse pending action")
		}
		out = append(out, action)
	}
	return out, nil
}

func (s *pendingActionStore) Get(ctx context.Context, orgID, actionID string) (*models.PendingAction, error) {
	doc, err := s.collection(orgID).Doc(actionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get pending action")
	}
	var action models.PendingAction
	if err := doc.DataTo(&action); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse pending action")
	}
	return &action, nil
}

// DeleteExisting removes the action and fails with NotFound when the record
// is already gone. The existence precondition makes confirm/cancel races
// resolve to exactly one winner.
func (s *pendingActionStore) DeleteExisting(ctx context.Context, orgID, actionID string) error {
	_, err := s.collection(orgID).Doc(actionID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			return errs.NewNotFoundError("ação não encontrada ou expirada")
		}
		return errs.NewDatabaseError("delete", "failed to delete pending action")
	}
	return nil
}

// ListExpired returns expired actions, scoped to one org or across all orgs.
func (s *pendingActionStore) ListExpired(ctx context.Context, orgID string, now time.Time) ([]ExpiredAction, error) {
	var query firestore.Query
	if orgID != "" {
		query = s.collection(orgID).Where("expiresAt", "<", now)
	} else {
		query = s.client.CollectionGroup("pending_actions").Where("expiresAt", "<", now)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []ExpiredAction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list expired pending actions")
		}
		var action models.PendingAction
		if err := doc.DataTo(&action); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse pending action")
		}
		out = append(out, ExpiredAction{
			OrgID:  doc.Ref.Parent.Parent.ID,
			Action: action,
		})
	}
	return out, nil
}

type ExpiredAction struct {
	OrgID  string
	Action models.PendingAction
}
