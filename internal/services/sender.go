package services

import (
	"context"
	"time"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/logger"
)

type whatsappClient interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

type messageStore interface {
	SaveMessage(ctx context.Context, orgID, conversationID string, message models.ConversationMessage) error
}

// senderService delivers outbound WhatsApp messages with bounded retries and
// records each delivered message under its provider ID.
type senderService struct {
	client   whatsappClient
	store    messageStore
	attempts int
	sleep    func(time.Duration)
	clockNow func() time.Time
}

func NewSenderService(client whatsappClient, store messageStore) *senderService {
	return &senderService{
		client:   client,
		store:    store,
		attempts: 3,
		sleep:    time.Sleep,
		clockNow: time.Now,
	}
}

// SendText tries up to three deliveries with 1s, 2s, 4s pauses between
// attempts, then fails with a delivery error.
func (s *senderService) SendText(ctx context.Context, orgID, conversationID, to, body string) (string, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	backoff := time.Second
	for attempt := 1; attempt <= s.attempts; attempt++ {
		providerMessageID, err := s.client.SendText(ctx, to, body)
		if err == nil {
			s.record(ctx, orgID, conversationID, providerMessageID, body)
			return providerMessageID, nil
		}

		lastErr = err
		log.Warn("whatsapp send failed", "attempt", attempt, "to", to, "error", err)
		if attempt < s.attempts {
			s.sleep(backoff)
			backoff *= 2
		}
	}

	return "", errs.NewDeliveryFailureError("falha ao enviar mensagem: " + lastErr.Error())
}

func (s *senderService) record(ctx context.Context, orgID, conversationID, providerMessageID, body string) {
	if conversationID == "" {
		return
	}
	message := models.ConversationMessage{
		MessageID:      providerMessageID,
		ConversationID: conversationID,
		Direction:      models.DirectionOut,
		Text:           body,
		CreatedAt:      s.clockNow(),
	}
	err := s.store.SaveMessage(ctx, orgID, conversationID, message)
	if err != nil && !errs.IsAlreadyExists(err) {
		logger.FromContext(ctx).Warn("outbound message persist failed", "providerMessageId", providerMessageID, "error", err)
	}
}
