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

type conversationStore struct {
	client *firestore.Client
}

func NewConversationStore(client *firestore.Client) *conversationStore {
	return &conversationStore{client: client}
}

func (s *conversationStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("conversations")
}

func (s *conversationStore) messages(orgID, conversationID string) *firestore.CollectionRef {
	return s.collection(orgID).Doc(conversationID).Collection("messages")
}

// FindOrCreate returns the user's conversation on the channel, creating it
// on first contact.
func (s *conversationStore) FindOrCreate(ctx context.Context, orgID, userID, channel string, now time.Time) (*models.Conversation, error) {
	iter := s.collection(orgID).
		Where("userId", "==", userID).
		Where("channel", "==", channel).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == nil {
		var conversation models.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse conversation")
		}
		return &conversation, nil
	}
	if err != iterator.Done {
		return nil, errs.NewDatabaseError("read", "failed to find conversation")
	}

	conversation := models.Conversation{
		ConversationID: uuid.NewString(),
		UserID:         userID,
		Channel:        channel,
		Status:         "OPEN",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.collection(orgID).Doc(conversation.ConversationID).Set(ctx, conversation); err != nil {
		return nil, errs.NewDatabaseError("create", "failed to create conversation")
	}
	return &conversation, nil
}

// SaveMessage persists a message keyed by its provider message ID. A replay
// of the same provider ID fails with AlreadyExists.
func (s *conversationStore) SaveMessage(ctx context.Context, orgID, conversationID string, message models.ConversationMessage) error {
	docID := message.MessageID
	if docID == "" {
		docID = uuid.NewString()
		message.MessageID = docID
	}

	if _, err := s.messages(orgID, conversationID).Doc(docID).Create(ctx, message); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("message already recorded")
		}
		return errs.NewDatabaseError("create", "failed to save message")
	}

	_, err := s.collection(orgID).Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "updatedAt", Value: message.CreatedAt},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to touch conversation")
	}
	return nil
}

// ListRecentMessages returns the last messages in chronological order.
func (s *conversationStore) ListRecentMessages(ctx context.Context, orgID, conversationID string, limit int) ([]models.ConversationMessage, error) {
	iter := s.messages(orgID, conversationID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var out []models.ConversationMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list messages")
		}
		var message models.ConversationMessage
		if err := doc.DataTo(&message); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse message")
		}
		out = append(out, message)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
