package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type bankTransactionStore struct {
	client *firestore.Client
}

func NewBankTransactionStore(client *firestore.Client) *bankTransactionStore {
	return &bankTransactionStore{client: client}
}

func (s *bankTransactionStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("bank_transactions")
}

// UpsertBatch writes a page of synced records. The document ID is derived
// from the connection and the provider transaction ID, so replaying a sync
// page overwrites instead of duplicating.
func (s *bankTransactionStore) UpsertBatch(ctx context.Context, orgID string, records []models.BankTransaction) error {
	bw := s.client.BulkWriter(ctx)
	for _, record := range records {
		docID := fmt.Sprintf("%s_%s", record.ConnectionID, record.ExternalID)
		record.BankTransactionID = docID
		if _, err := bw.Set(s.collection(orgID).Doc(docID), record); err != nil {
			return errs.NewDatabaseError("write", "failed to enqueue bank transaction")
		}
	}
	bw.End()
	return nil
}

func (s *bankTransactionStore) Get(ctx context.Context, orgID, bankTransactionID string) (*models.BankTransaction, error) {
	doc, err := s.collection(orgID).Doc(bankTransactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transação bancária não encontrada")
		}
		return nil, errs.NewDatabaseError("read", "failed to get bank transaction")
	}
	var record models.BankTransaction
	if err := doc.DataTo(&record); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse bank transaction")
	}
	return &record, nil
}

func (s *bankTransactionStore) ListByStatus(ctx context.Context, orgID string, statuses []models.MatchStatus, limit int) ([]models.BankTransaction, error) {
	query := s.collection(orgID).Where("matchStatus", "in", statuses)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []models.BankTransaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list bank transactions")
		}
		var record models.BankTransaction
		if err := doc.DataTo(&record); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse bank transaction")
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *bankTransactionStore) SetMatch(ctx context.Context, orgID, bankTransactionID, transactionID string, now time.Time) error {
	_, err := s.collection(orgID).Doc(bankTransactionID).Update(ctx, []firestore.Update{
		{Path: "matchStatus", Value: models.MatchMatched},
		{Path: "matchedTransactionId", Value: transactionID},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to mark bank transaction matched")
	}
	return nil
}

func (s *bankTransactionStore) SetStatus(ctx context.Context, orgID, bankTransactionID string, matchStatus models.MatchStatus, now time.Time) error {
	_, err := s.collection(orgID).Doc(bankTransactionID).Update(ctx, []firestore.Update{
		{Path: "matchStatus", Value: matchStatus},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update bank transaction status")
	}
	return nil
}

// OrgsWithUnmatched lists org IDs that still have records waiting on the
// match sweep.
func (s *bankTransactionStore) OrgsWithUnmatched(ctx context.Context) ([]string, error) {
	iter := s.client.CollectionGroup("bank_transactions").
		Where("matchStatus", "==", models.MatchUnmatched).
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
			return nil, errs.NewDatabaseError("read", "failed to scan unmatched bank transactions")
		}
		orgID := doc.Ref.Parent.Parent.ID
		if !seen[orgID] {
			seen[orgID] = true
			out = append(out, orgID)
		}
	}
	return out, nil
}
