package handlers

import (
	"context"
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/internal/response"
)

type WhatsAppService interface {
	HandleInbound(ctx context.Context, phoneNumberID string, message dto.WebhookMessage) error
}

type MatchService interface {
	RunOrg(ctx context.Context, orgID string) (dto.MatchRunResult, error)
	RunAll(ctx context.Context) (dto.MatchSweepResult, error)
	ListSuggestions(ctx context.Context, orgID string, limit int) ([]models.MatchSuggestion, error)
	ApproveSuggestion(ctx context.Context, orgID, suggestionID string) (*models.MatchSuggestion, error)
	RejectSuggestion(ctx context.Context, orgID, suggestionID string) error
	CreateFromBank(ctx context.Context, orgID, bankTransactionID string) (*models.Transaction, error)
}

type NotifyService interface {
	DispatchAll(ctx context.Context) (dto.NotifyRunResult, error)
	SendDailyDigests(ctx context.Context) (int, error)
}

type PendingService interface {
	CleanupExpired(ctx context.Context) (int, error)
}

type BankSyncService interface {
	SyncOrg(ctx context.Context, orgID string) (dto.BankSyncResult, error)
	SyncAll(ctx context.Context) (dto.BankSyncResult, error)
}

type ConnectService interface {
	CreateLinkToken(ctx context.Context, orgID string) (string, error)
	ExchangePublicToken(ctx context.Context, orgID, publicToken, institution string) (models.Connection, error)
}

type PermissionChecker interface {
	Check(ctx context.Context, orgID, userID, permission string) error
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client

	WhatsAppSvc WhatsAppService
	MatchSvc    MatchService
	NotifySvc   NotifyService
	PendingSvc  PendingService
	BankSyncSvc BankSyncService
	ConnectSvc  ConnectService
	RBAC        PermissionChecker

	WebhookVerifyToken string
	JobToken           string
}
