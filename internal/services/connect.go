package services

import (
	"context"
	"time"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type plaidLinkClient interface {
	CreateLinkToken(ctx context.Context, orgID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (itemID, accessToken string, err error)
}

type connectionWriter interface {
	Create(ctx context.Context, orgID string, connection models.Connection) (string, error)
}

// connectService handles the bank-connection handshake: link token out,
// public token in, access token stored on a new connection.
type connectService struct {
	plaid       plaidLinkClient
	connections connectionWriter
	clockNow    func() time.Time
}

func NewConnectService(plaid plaidLinkClient, connections connectionWriter) *connectService {
	return &connectService{plaid: plaid, connections: connections, clockNow: time.Now}
}

func (s *connectService) CreateLinkToken(ctx context.Context, orgID string) (string, error) {
	return s.plaid.CreateLinkToken(ctx, orgID)
}

func (s *connectService) ExchangePublicToken(ctx context.Context, orgID, publicToken, institution string) (models.Connection, error) {
	if publicToken == "" {
		return models.Connection{}, errs.NewValidationError("publicToken is required")
	}

	itemID, accessToken, err := s.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return models.Connection{}, err
	}

	now := s.clockNow()
	connection := models.Connection{
		ConnectionID: itemID,
		Institution:  institution,
		Status:       models.ConnectionStatusActive,
		AccessToken:  accessToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := s.connections.Create(ctx, orgID, connection)
	if err != nil {
		return models.Connection{}, err
	}
	connection.ConnectionID = id
	connection.AccessToken = ""
	return connection, nil
}
