package services

import (
	"context"
	"testing"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/helpers"
)

type fakeNotificationReader struct {
	items []models.Notification
}

func (f *fakeNotificationReader) ListRecent(ctx context.Context, orgID string, limit int) ([]models.Notification, error) {
	return f.items, nil
}

func TestListNotificationsUnreadOnly(t *testing.T) {
	reader := &fakeNotificationReader{items: []models.Notification{
		{NotificationID: "n1", Read: true},
		{NotificationID: "n2"},
		{NotificationID: "n3"},
	}}
	svc := NewAutomationService(reader, &fakeRecurrenceStore{})

	items, err := svc.ListNotifications(helpers.TestCtx(), "org", true, 10)
	if err != nil {
		t.Fatalf("ListNotifications error: %v", err)
	}
	if len(items) != 2 || items[0].NotificationID != "n2" {
		t.Fatalf("unread filter mismatch: %+v", items)
	}
}

func TestCreateRecurrenceValidation(t *testing.T) {
	svc := NewAutomationService(&fakeNotificationReader{}, &fakeRecurrenceStore{})
	ctx := helpers.TestCtx()

	cases := []dto.CreateRecurrenceArgs{
		{Name: "", Frequency: "MONTHLY", AmountCents: 100, NextRunAt: "2025-04-01", Type: "IN"},
		{Name: "x", Frequency: "YEARLY", AmountCents: 100, NextRunAt: "2025-04-01", Type: "IN"},
		{Name: "x", Frequency: "MONTHLY", AmountCents: 0, NextRunAt: "2025-04-01", Type: "IN"},
		{Name: "x", Frequency: "MONTHLY", AmountCents: 100, NextRunAt: "01/04/2025", Type: "IN"},
		{Name: "x", Frequency: "MONTHLY", AmountCents: 100, NextRunAt: "2025-04-01", Type: "BOTH"},
	}
	for i, args := range cases {
		if _, err := svc.CreateRecurrence(ctx, "org", args); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestCreateRecurrenceNormalizes(t *testing.T) {
	store := &fakeRecurrenceStore{}
	svc := NewAutomationService(&fakeNotificationReader{}, store)

	created, err := svc.CreateRecurrence(helpers.TestCtx(), "org", dto.CreateRecurrenceArgs{
		Name:        " Retainer ",
		Frequency:   "monthly",
		AmountCents: 50000,
		NextRunAt:   "2025-04-01",
		Type:        "in",
	})
	if err != nil {
		t.Fatalf("CreateRecurrence error: %v", err)
	}
	if created.RecurrenceID != "r1" || created.Name != "Retainer" || created.Frequency != "MONTHLY" {
		t.Fatalf("normalization mismatch: %+v", created)
	}
	if created.Type != models.TransactionIn {
		t.Fatalf("type mismatch: %+v", created)
	}
}
