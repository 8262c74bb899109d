package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

const (
	PermissionViewFinance = "VIEW_FINANCE"
	PermissionEditFinance = "EDIT_FINANCE"

	roleAdmin = "admin"
)

type membershipStore interface {
	Get(ctx context.Context, orgID, userID string) (*models.Membership, error)
}

// rbacService resolves org memberships and answers permission checks. Lookups
// are cached briefly so a burst of tool calls from one conversation hits
// Firestore once.
type rbacService struct {
	store membershipStore
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewRBACService(store membershipStore) (*rbacService, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("rbac cache: %w", err)
	}
	return &rbacService{store: store, cache: cache, ttl: time.Minute}, nil
}

// Check returns nil when the user holds the permission in the org. Admins
// hold every permission.
func (s *rbacService) Check(ctx context.Context, orgID, userID, permission string) error {
	membership, err := s.membership(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return errs.NewPermissionDeniedError("você não faz parte desta organização")
	}
	if membership.RoleSlug == roleAdmin {
		return nil
	}
	for _, held := range membership.Permissions {
		if held == permission {
			return nil
		}
	}
	return errs.NewPermissionDeniedError("você não tem permissão para esta ação")
}

func (s *rbacService) membership(ctx context.Context, orgID, userID string) (*models.Membership, error) {
	key := orgID + "/" + userID
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.Membership), nil
	}

	membership, err := s.store.Get(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetWithTTL(key, membership, 1, s.ttl)
	return membership, nil
}
