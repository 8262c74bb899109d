package services

import (
	"context"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/helpers"
	"github.com/cfoia/backend/pkg/logger"
)

type bankFeedClient interface {
	SyncBankTransactions(ctx context.Context, connectionID, accessToken string, cursor *string) (dto.PlaidSyncPage, error)
}

type connectionStore interface {
	ListActive(ctx context.Context, orgID string) ([]models.Connection, error)
	SetSynced(ctx context.Context, orgID, connectionID, cursor string, now time.Time) error
	SetLastError(ctx context.Context, orgID, connectionID, message string) error
	OrgsWithActive(ctx context.Context) ([]string, error)
}

type bankRecordWriter interface {
	UpsertBatch(ctx context.Context, orgID string, records []models.BankTransaction) error
}

// banksyncService pulls bank-feed pages per connection and lands them as
// bank transactions. Document IDs derive from the provider transaction ID,
// so reruns are idempotent.
type banksyncService struct {
	feed        bankFeedClient
	connections connectionStore
	records     bankRecordWriter
	clockNow    func() time.Time
}

func NewBankSyncService(feed bankFeedClient, connections connectionStore, records bankRecordWriter) *banksyncService {
	return &banksyncService{
		feed:        feed,
		connections: connections,
		records:     records,
		clockNow:    time.Now,
	}
}

// SyncOrg walks every active connection, paging with the stored cursor. A
// failing connection records its error and the sync moves on.
func (s *banksyncService) SyncOrg(ctx context.Context, orgID string) (dto.BankSyncResult, error) {
	log := logger.FromContext(ctx)

	connections, err := s.connections.ListActive(ctx, orgID)
	if err != nil {
		return dto.BankSyncResult{}, err
	}

	var result dto.BankSyncResult
	for _, connection := range connections {
		imported, err := s.syncConnection(ctx, orgID, connection)
		if err != nil {
			log.Warn("connection sync failed", "connectionId", connection.ConnectionID, "error", err)
			if setErr := s.connections.SetLastError(ctx, orgID, connection.ConnectionID, err.Error()); setErr != nil {
				log.Warn("last-error record failed", "connectionId", connection.ConnectionID, "error", setErr)
			}
			result.Errors++
			continue
		}
		result.ConnectionsOK++
		result.RecordsImported += imported
	}
	return result, nil
}

func (s *banksyncService) syncConnection(ctx context.Context, orgID string, connection models.Connection) (int, error) {
	var cursor *string
	if connection.Cursor != "" {
		cursor = helpers.Ptr(connection.Cursor)
	}

	imported := 0
	for {
		page, err := s.feed.SyncBankTransactions(ctx, connection.ConnectionID, connection.AccessToken, cursor)
		if err != nil {
			return imported, err
		}
		if len(page.Records) > 0 {
			if err := s.records.UpsertBatch(ctx, orgID, page.Records); err != nil {
				return imported, err
			}
			imported += len(page.Records)
		}
		cursor = helpers.Ptr(page.Cursor)
		if !page.HasMore {
			break
		}
	}

	if err := s.connections.SetSynced(ctx, orgID, connection.ConnectionID, *cursor, s.clockNow()); err != nil {
		return imported, err
	}
	return imported, nil
}

// SyncAll sweeps every org with an active connection.
func (s *banksyncService) SyncAll(ctx context.Context) (dto.BankSyncResult, error) {
	orgs, err := s.connections.OrgsWithActive(ctx)
	if err != nil {
		return dto.BankSyncResult{}, err
	}

	var total dto.BankSyncResult
	for _, orgID := range orgs {
		result, err := s.SyncOrg(ctx, orgID)
		if err != nil {
			logger.FromContext(ctx).Error("org sync failed", "orgId", orgID, "error", err)
			total.Errors++
			continue
		}
		total.ConnectionsOK += result.ConnectionsOK
		total.RecordsImported += result.RecordsImported
		total.Errors += result.Errors
	}
	return total, nil
}
