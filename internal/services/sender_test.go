package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/helpers"
)

type fakeWhatsAppClient struct {
	failures int
	calls    int
}

func (f *fakeWhatsAppClient) SendText(ctx context.Context, to, body string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errs.NewExternalServiceError("whatsapp", "http 500", true)
	}
	return "wamid.123", nil
}

type fakeMessageStore struct {
	saved     []models.ConversationMessage
	duplicate bool
}

func (f *fakeMessageStore) SaveMessage(ctx context.Context, orgID, conversationID string, message models.ConversationMessage) error {
	if f.duplicate {
		return errs.NewAlreadyExistsError("message already recorded")
	}
	f.saved = append(f.saved, message)
	return nil
}

func senderFixture(client *fakeWhatsAppClient, store *fakeMessageStore) (*senderService, *[]time.Duration) {
	svc := NewSenderService(client, store)
	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }
	return svc, &slept
}

func TestSendTextRetriesWithBackoff(t *testing.T) {
	client := &fakeWhatsAppClient{failures: 2}
	store := &fakeMessageStore{}
	svc, slept := senderFixture(client, store)

	id, err := svc.SendText(helpers.TestCtx(), "org", "c1", "+5511999999999", "oi")
	if err != nil {
		t.Fatalf("SendText error: %v", err)
	}
	if id != "wamid.123" {
		t.Fatalf("provider ID mismatch: %q", id)
	}
	if client.calls != 3 {
		t.Fatalf("attempt count mismatch: %d", client.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != 2 || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Fatalf("backoff mismatch: %v", *slept)
	}
	if len(store.saved) != 1 || store.saved[0].MessageID != "wamid.123" {
		t.Fatalf("outbound message not persisted: %+v", store.saved)
	}
	if store.saved[0].Direction != models.DirectionOut {
		t.Fatalf("direction mismatch: %q", store.saved[0].Direction)
	}
}

func TestSendTextExhaustsRetries(t *testing.T) {
	client := &fakeWhatsAppClient{failures: 10}
	store := &fakeMessageStore{}
	svc, slept := senderFixture(client, store)

	_, err := svc.SendText(helpers.TestCtx(), "org", "c1", "+5511999999999", "oi")
	if err == nil {
		t.Fatal("expected delivery failure")
	}
	var delivery *errs.DeliveryFailureError
	if !errors.As(err, &delivery) {
		t.Fatalf("expected DeliveryFailureError, got %T", err)
	}
	if client.calls != 3 {
		t.Fatalf("attempt count mismatch: %d", client.calls)
	}
	if len(*slept) != 2 {
		t.Fatalf("sleep count mismatch: %v", *slept)
	}
	if len(store.saved) != 0 {
		t.Fatal("failed sends must not persist messages")
	}
}

func TestSendTextDuplicatePersistIgnored(t *testing.T) {
	client := &fakeWhatsAppClient{}
	store := &fakeMessageStore{duplicate: true}
	svc, _ := senderFixture(client, store)

	if _, err := svc.SendText(helpers.TestCtx(), "org", "c1", "+5511999999999", "oi"); err != nil {
		t.Fatalf("duplicate persist must not fail the send: %v", err)
	}
}
