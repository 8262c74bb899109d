package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type suggestionStore struct {
	client *firestore.Client
}

func NewSuggestionStore(client *firestore.Client) *suggestionStore {
	return &suggestionStore{client: client}
}

func (s *suggestionStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("match_suggestions")
}

func (s *suggestionStore) Create(ctx context.Context, orgID string, suggestion models.MatchSuggestion) (string, error) {
	if suggestion.SuggestionID == "" {
		suggestion.SuggestionID = uuid.NewString()
	}
	if _, err := s.collection(orgID).Doc(suggestion.SuggestionID).Set(ctx, suggestion); err != nil {
		return "", errs.NewDatabaseError("create", "failed to create match suggestion")
	}
	return suggestion.SuggestionID, nil
}

func (s *suggestionStore) Get(ctx context.Context, orgID, suggestionID string) (*models.MatchSuggestion, error) {
	doc, err := s.collection(orgID).Doc(suggestionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("sugestão não encontrada")
		}
		return nil, errs.NewDatabaseError("read", "failed to get match suggestion")
	}
	var suggestion models.MatchSuggestion
	if err := doc.DataTo(&suggestion); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse match suggestion")
	}
	return &suggestion, nil
}

func (s *suggestionStore) List(ctx context.Context, orgID string, limit int) ([]models.MatchSuggestion, error) {
	query := s.collection(orgID).OrderBy("score", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return s.drain(query.Documents(ctx))
}

func (s *suggestionStore) ListByBankTransaction(ctx context.Context, orgID, bankTransactionID string) ([]models.MatchSuggestion, error) {
	query := s.collection(orgID).Where("bankTransactionId", "==", bankTransactionID)
	return s.drain(query.Documents(ctx))
}

// DeleteExisting removes one suggestion. Approving or rejecting the same
// suggestion twice surfaces NotFound on the second call.
func (s *suggestionStore) DeleteExisting(ctx context.Context, orgID, suggestionID string) error {
	_, err := s.collection(orgID).Doc(suggestionID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			return errs.NewNotFoundError("sugestão não encontrada")
		}
		return errs.NewDatabaseError("delete", "failed to delete match suggestion")
	}
	return nil
}

// DeleteByBankTransaction removes every suggestion pointing at the bank
// transaction, optionally sparing one ID.
func (s *suggestionStore) DeleteByBankTransaction(ctx context.Context, orgID, bankTransactionID, keepID string) error {
	siblings, err := s.ListByBankTransaction(ctx, orgID, bankTransactionID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.SuggestionID == keepID {
			continue
		}
		if _, err := s.collection(orgID).Doc(sibling.SuggestionID).Delete(ctx); err != nil {
			return errs.NewDatabaseError("delete", "failed to delete sibling suggestion")
		}
	}
	return nil
}

func (s *suggestionStore) drain(iter *firestore.DocumentIterator) ([]models.MatchSuggestion, error) {
	defer iter.Stop()

	var out []models.MatchSuggestion
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list match suggestions")
		}
		var suggestion models.MatchSuggestion
		if err := doc.DataTo(&suggestion); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse match suggestion")
		}
		out = append(out, suggestion)
	}
	return out, nil
}
