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

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("transactions")
}

func (s *transactionStore) Create(ctx context.Context, orgID string, transaction models.Transaction) (string, error) {
	if transaction.TransactionID == "" {
		transaction.TransactionID = uuid.NewString()
	}
	if _, err := s.collection(orgID).Doc(transaction.TransactionID).Set(ctx, transaction); err != nil {
		return "", errs.NewDatabaseError("create", "failed to create transaction")
	}
	return transaction.TransactionID, nil
}

func (s *transactionStore) Get(ctx context.Context, orgID, transactionID string) (*models.Transaction, error) {
	doc, err := s.collection(orgID).Doc(transactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("lançamento não encontrado")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction")
	}
	var transaction models.Transaction
	if err := doc.DataTo(&transaction); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction")
	}
	return &transaction, nil
}

func (s *transactionStore) Update(ctx context.Context, orgID, transactionID string, updates []firestore.Update) error {
	_, err := s.collection(orgID).Doc(transactionID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("lançamento não encontrado")
		}
		return errs.NewDatabaseError("update", "failed to update transaction")
	}
	return nil
}

// ListByDateRange returns transactions with date inside [from, to], newest
// first. Dates are YYYY-MM-DD strings so lexical order is date order.
func (s *transactionStore) ListByDateRange(ctx context.Context, orgID, from, to string, limit int) ([]models.Transaction, error) {
	query := s.collection(orgID).
		Where("date", ">=", from).
		Where("date", "<=", to).
		OrderBy("date", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return s.drain(query.Documents(ctx))
}

func (s *transactionStore) ListRecent(ctx context.Context, orgID string, limit int) ([]models.Transaction, error) {
	query := s.collection(orgID).OrderBy("date", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return s.drain(query.Documents(ctx))
}

func (s *transactionStore) TouchUpdatedAt(ctx context.Context, orgID, transactionID string, now time.Time) error {
	return s.Update(ctx, orgID, transactionID, []firestore.Update{
		{Path: "updatedAt", Value: now},
	})
}

func (s *transactionStore) drain(iter *firestore.DocumentIterator) ([]models.Transaction, error) {
	defer iter.Stop()

	var out []models.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list transactions")
		}
		var transaction models.Transaction
		if err := doc.DataTo(&transaction); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse transaction")
		}
		out = append(out, transaction)
	}
	return out, nil
}
