package services

import (
	"context"
	"time"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/internal/store"
	"github.com/cfoia/backend/pkg/logger"
)

type pendingActionStore interface {
	Create(ctx context.Context, orgID string, action models.PendingAction) (string, error)
	ListByConversation(ctx context.Context, orgID, conversationID string) ([]models.PendingAction, error)
	DeleteExisting(ctx context.Context, orgID, actionID string) error
	ListExpired(ctx context.Context, orgID string, now time.Time) ([]store.ExpiredAction, error)
}

// pendingService holds tool calls that wait on an explicit user confirmation.
// Expiry is enforced at read time, so stale records are harmless until the
// cleanup sweep removes them.
type pendingService struct {
	store    pendingActionStore
	ttl      time.Duration
	clockNow func() time.Time
}

func NewPendingService(store pendingActionStore, ttl time.Duration) *pendingService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &pendingService{store: store, ttl: ttl, clockNow: time.Now}
}

func (s *pendingService) Create(ctx context.Context, orgID, userID, conversationID, toolName string, toolInput map[string]any) (models.PendingAction, error) {
	now := s.clockNow()
	action := models.PendingAction{
		UserID:         userID,
		ConversationID: conversationID,
		ToolName:       toolName,
		ToolInput:      toolInput,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
	id, err := s.store.Create(ctx, orgID, action)
	if err != nil {
		return models.PendingAction{}, err
	}
	action.ActionID = id
	return action, nil
}

// FindLatest returns the newest unexpired action in the conversation that
// belongs to the user, or nil.
func (s *pendingService) FindLatest(ctx context.Context, orgID, userID, conversationID string) (*models.PendingAction, error) {
	actions, err := s.store.ListByConversation(ctx, orgID, conversationID)
	if err != nil {
		return nil, err
	}

	now := s.clockNow()
	for _, action := range actions {
		if action.UserID != userID {
			continue
		}
		if !action.ExpiresAt.After(now) {
			continue
		}
		found := action
		return &found, nil
	}
	return nil, nil
}

// Confirm consumes the latest pending action and hands it back for
// execution. The delete carries an existence precondition, so two racing
// confirms resolve to one execution.
func (s *pendingService) Confirm(ctx context.Context, orgID, userID, conversationID string) (*models.PendingAction, error) {
	action, err := s.FindLatest(ctx, orgID, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, errs.NewNotFoundError("nenhuma ação pendente para confirmar")
	}
	if err := s.store.DeleteExisting(ctx, orgID, action.ActionID); err != nil {
		return nil, err
	}
	return action, nil
}

// Cancel discards the latest pending action. Cancelling with nothing
// pending is not an error.
func (s *pendingService) Cancel(ctx context.Context, orgID, userID, conversationID string) (bool, error) {
	action, err := s.FindLatest(ctx, orgID, userID, conversationID)
	if err != nil {
		return false, err
	}
	if action == nil {
		return false, nil
	}
	if err := s.store.DeleteExisting(ctx, orgID, action.ActionID); err != nil {
		if errs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CleanupExpired removes expired actions across all orgs.
func (s *pendingService) CleanupExpired(ctx context.Context) (int, error) {
	expired, err := s.store.ListExpired(ctx, "", s.clockNow())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, item := range expired {
		if err := s.store.DeleteExisting(ctx, item.OrgID, item.Action.ActionID); err != nil {
			if errs.IsNotFound(err) {
				continue
			}
			logger.FromContext(ctx).Warn("pending cleanup delete failed", "actionId", item.Action.ActionID, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
