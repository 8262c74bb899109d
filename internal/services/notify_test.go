package services

import (
	"context"
	"testing"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/helpers"
)

type fakeNotificationStore struct {
	notifications []models.Notification
	deliveries    map[string]models.NotificationDelivery
	upserts       []models.NotificationDelivery
}

func newFakeNotificationStore(notifications ...models.Notification) *fakeNotificationStore {
	return &fakeNotificationStore{
		notifications: notifications,
		deliveries:    map[string]models.NotificationDelivery{},
	}
}

func (f *fakeNotificationStore) ListSince(ctx context.Context, orgID string, since time.Time) ([]models.Notification, error) {
	return f.notifications, nil
}

func (f *fakeNotificationStore) ListDeliveries(ctx context.Context, orgID, userID, channel string) (map[string]models.NotificationDelivery, error) {
	return f.deliveries, nil
}

func (f *fakeNotificationStore) UpsertDelivery(ctx context.Context, orgID string, delivery models.NotificationDelivery) error {
	f.upserts = append(f.upserts, delivery)
	f.deliveries[delivery.NotificationID] = delivery
	return nil
}

type fakeLinkReader struct {
	links []models.UserLink
}

func (f *fakeLinkReader) ListActiveByOrg(ctx context.Context, orgID string) ([]models.UserLink, error) {
	return f.links, nil
}

type fakeSettingsReader struct {
	settings map[string]*models.AssistantSettings
}

func (f *fakeSettingsReader) Get(ctx context.Context, orgID string) (*models.AssistantSettings, error) {
	return f.settings[orgID], nil
}

func (f *fakeSettingsReader) List(ctx context.Context) ([]models.AssistantSettings, error) {
	var out []models.AssistantSettings
	for _, settings := range f.settings {
		out = append(out, *settings)
	}
	return out, nil
}

type fakeTextSender struct {
	sent []string
	fail bool
}

func (f *fakeTextSender) SendText(ctx context.Context, orgID, conversationID, to, body string) (string, error) {
	if f.fail {
		return "", errFake
	}
	f.sent = append(f.sent, body)
	return "wamid.1", nil
}

var errFake = &fakeError{}

type fakeError struct{}

func (e *fakeError) Error() string { return "boom" }

type fakeDigestReporter struct{}

func (f *fakeDigestReporter) DRESummary(ctx context.Context, orgID, month string) (dto.DRESummaryResult, error) {
	return dto.DRESummaryResult{Period: month, RevenueCents: 1000000, ExpensesCents: 400000, ProfitCents: 600000}, nil
}

func (f *fakeDigestReporter) CashflowSummary(ctx context.Context, orgID string, projectionDays int) (dto.CashflowSummaryResult, error) {
	return dto.CashflowSummaryResult{CurrentBalanceCents: 250000, ProjectionDays: projectionDays}, nil
}

func notifyFixture(store *fakeNotificationStore, settings *fakeSettingsReader, sender *fakeTextSender, now time.Time) *notifyService {
	links := &fakeLinkReader{links: []models.UserLink{{UserID: "u1", PhoneE164: "+5511999999999", IsActive: true}}}
	svc := NewNotifyService(store, links, settings, sender, &fakeDigestReporter{})
	svc.clockNow = func() time.Time { return now }
	return svc
}

func TestDispatchOrgSendsOnce(t *testing.T) {
	store := newFakeNotificationStore(models.Notification{NotificationID: "n1", Title: "Saldo baixo", Severity: models.SeverityWarning})
	settings := &fakeSettingsReader{settings: map[string]*models.AssistantSettings{"org": {OrgID: "org"}}}
	sender := &fakeTextSender{}
	now := time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)
	svc := notifyFixture(store, settings, sender, now)

	result, err := svc.DispatchOrg(helpers.TestCtx(), "org")
	if err != nil {
		t.Fatalf("DispatchOrg error: %v", err)
	}
	if result.Sent != 1 || len(sender.sent) != 1 {
		t.Fatalf("send mismatch: %+v", result)
	}

	// second run: delivery exists, nothing sent
	result, err = svc.DispatchOrg(helpers.TestCtx(), "org")
	if err != nil {
		t.Fatalf("DispatchOrg error: %v", err)
	}
	if result.Sent != 0 || len(sender.sent) != 1 {
		t.Fatalf("redelivery happened: %+v", result)
	}
}

func TestDispatchQuietHours(t *testing.T) {
	store := newFakeNotificationStore(models.Notification{NotificationID: "n1", Title: "Aviso", Severity: models.SeverityInfo})
	settings := &fakeSettingsReader{settings: map[string]*models.AssistantSettings{"org": {
		OrgID:           "org",
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "07:00",
	}}}
	sender := &fakeTextSender{}
	// 23:30 is inside a window that crosses midnight
	now := time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC)
	svc := notifyFixture(store, settings, sender, now)

	result, err := svc.DispatchOrg(helpers.TestCtx(), "org")
	if err != nil {
		t.Fatalf("DispatchOrg error: %v", err)
	}
	if result.Skipped != 1 || len(sender.sent) != 0 {
		t.Fatalf("quiet hours not honored: %+v", result)
	}

	// 06:30 next morning is still inside the window
	svc.clockNow = func() time.Time { return time.Date(2025, 3, 16, 6, 30, 0, 0, time.UTC) }
	result, _ = svc.DispatchOrg(helpers.TestCtx(), "org")
	if result.Skipped != 1 {
		t.Fatalf("pre-dawn quiet hours not honored: %+v", result)
	}

	// 08:00 is outside
	svc.clockNow = func() time.Time { return time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC) }
	result, _ = svc.DispatchOrg(helpers.TestCtx(), "org")
	if result.Sent != 1 {
		t.Fatalf("outside quiet hours should send: %+v", result)
	}
}

func TestDispatchCriticalBypassesQuietHours(t *testing.T) {
	store := newFakeNotificationStore(models.Notification{NotificationID: "n1", Title: "Caixa negativo", Severity: models.SeverityCritical})
	settings := &fakeSettingsReader{settings: map[string]*models.AssistantSettings{"org": {
		OrgID:           "org",
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "07:00",
	}}}
	sender := &fakeTextSender{}
	now := time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC)
	svc := notifyFixture(store, settings, sender, now)

	result, err := svc.DispatchOrg(helpers.TestCtx(), "org")
	if err != nil {
		t.Fatalf("DispatchOrg error: %v", err)
	}
	if result.Sent != 1 {
		t.Fatalf("critical must bypass quiet hours: %+v", result)
	}
}

func TestDispatchRecordsFailedDelivery(t *testing.T) {
	store := newFakeNotificationStore(models.Notification{NotificationID: "n1", Title: "Aviso", Severity: models.SeverityInfo})
	settings := &fakeSettingsReader{settings: map[string]*models.AssistantSettings{"org": {OrgID: "org"}}}
	sender := &fakeTextSender{fail: true}
	now := time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)
	svc := notifyFixture(store, settings, sender, now)

	result, err := svc.DispatchOrg(helpers.TestCtx(), "org")
	if err != nil {
		t.Fatalf("DispatchOrg error: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("failure not counted: %+v", result)
	}
	if len(store.upserts) != 1 || store.upserts[0].Status != "FAILED" {
		t.Fatalf("failed delivery not recorded: %+v", store.upserts)
	}
}

func TestSendDailyDigests(t *testing.T) {
	store := newFakeNotificationStore()
	settings := &fakeSettingsReader{settings: map[string]*models.AssistantSettings{"org": {
		OrgID:           "org",
		DailyDigestTime: "08:00",
	}}}
	sender := &fakeTextSender{}
	svc := notifyFixture(store, settings, sender, time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC))

	sent, err := svc.SendDailyDigests(helpers.TestCtx())
	if err != nil {
		t.Fatalf("SendDailyDigests error: %v", err)
	}
	if sent != 1 || len(sender.sent) != 1 {
		t.Fatalf("digest mismatch: sent=%d messages=%d", sent, len(sender.sent))
	}

	// off the digest minute, nothing goes out
	svc.clockNow = func() time.Time { return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC) }
	sent, _ = svc.SendDailyDigests(helpers.TestCtx())
	if sent != 0 {
		t.Fatalf("digest sent off schedule: %d", sent)
	}
}
