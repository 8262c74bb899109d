package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/logger"
)

type notificationStore interface {
	ListSince(ctx context.Context, orgID string, since time.Time) ([]models.Notification, error)
	ListDeliveries(ctx context.Context, orgID, userID, channel string) (map[string]models.NotificationDelivery, error)
	UpsertDelivery(ctx context.Context, orgID string, delivery models.NotificationDelivery) error
}

type linkReader interface {
	ListActiveByOrg(ctx context.Context, orgID string) ([]models.UserLink, error)
}

type settingsReader interface {
	Get(ctx context.Context, orgID string) (*models.AssistantSettings, error)
	List(ctx context.Context) ([]models.AssistantSettings, error)
}

type textSender interface {
	SendText(ctx context.Context, orgID, conversationID, to, body string) (string, error)
}

type digestReporter interface {
	DRESummary(ctx context.Context, orgID, month string) (dto.DRESummaryResult, error)
	CashflowSummary(ctx context.Context, orgID string, projectionDays int) (dto.CashflowSummaryResult, error)
}

const channelWhatsApp = "WHATSAPP"

// notifyService pushes org notifications to linked WhatsApp users, honoring
// per-org quiet hours. CRITICAL notifications ignore quiet hours.
type notifyService struct {
	notifications notificationStore
	links         linkReader
	settings      settingsReader
	sender        textSender
	reports       digestReporter
	clockNow      func() time.Time
}

func NewNotifyService(notifications notificationStore, links linkReader, settings settingsReader, sender textSender, reports digestReporter) *notifyService {
	return &notifyService{
		notifications: notifications,
		links:         links,
		settings:      settings,
		sender:        sender,
		reports:       reports,
		clockNow:      time.Now,
	}
}

// DispatchOrg sends the org's notifications from the last 24h that each
// linked user has not received yet.
func (s *notifyService) DispatchOrg(ctx context.Context, orgID string) (dto.NotifyRunResult, error) {
	log := logger.FromContext(ctx)
	now := s.clockNow()

	settings, err := s.settings.Get(ctx, orgID)
	if err != nil {
		return dto.NotifyRunResult{}, err
	}

	pending, err := s.notifications.ListSince(ctx, orgID, now.Add(-24*time.Hour))
	if err != nil {
		return dto.NotifyRunResult{}, err
	}
	if len(pending) == 0 {
		return dto.NotifyRunResult{}, nil
	}

	users, err := s.links.ListActiveByOrg(ctx, orgID)
	if err != nil {
		return dto.NotifyRunResult{}, err
	}

	var result dto.NotifyRunResult
	for _, user := range users {
		delivered, err := s.notifications.ListDeliveries(ctx, orgID, user.UserID, channelWhatsApp)
		if err != nil {
			log.Warn("delivery lookup failed", "userId", user.UserID, "error", err)
			result.Failed++
			continue
		}

		for _, notification := range pending {
			if existing, ok := delivered[notification.NotificationID]; ok && existing.Status == "SENT" {
				continue
			}
			if notification.Severity != models.SeverityCritical && s.inQuietHours(settings, now) {
				result.Skipped++
				continue
			}

			body := fmt.Sprintf("🔔 *%s*\n%s", notification.Title, notification.Body)
			_, sendErr := s.sender.SendText(ctx, orgID, "", user.PhoneE164, body)

			delivery := models.NotificationDelivery{
				NotificationID: notification.NotificationID,
				UserID:         user.UserID,
				Channel:        channelWhatsApp,
				Status:         "SENT",
				SentAt:         s.clockNow(),
			}
			if sendErr != nil {
				delivery.Status = "FAILED"
				delivery.Error = sendErr.Error()
				result.Failed++
			} else {
				result.Sent++
			}
			if err := s.notifications.UpsertDelivery(ctx, orgID, delivery); err != nil {
				log.Warn("delivery record failed", "notificationId", notification.NotificationID, "error", err)
			}
		}
	}
	return result, nil
}

// DispatchAll runs DispatchOrg for every org with assistant settings. One
// org failing does not stop the sweep.
func (s *notifyService) DispatchAll(ctx context.Context) (dto.NotifyRunResult, error) {
	orgs, err := s.settings.List(ctx)
	if err != nil {
		return dto.NotifyRunResult{}, err
	}

	var total dto.NotifyRunResult
	for _, org := range orgs {
		result, err := s.DispatchOrg(ctx, org.OrgID)
		if err != nil {
			logger.FromContext(ctx).Error("notification dispatch failed", "orgId", org.OrgID, "error", err)
			total.Failed++
			continue
		}
		total.Sent += result.Sent
		total.Skipped += result.Skipped
		total.Failed += result.Failed
	}
	return total, nil
}

// SendDailyDigests sends the daily summary to orgs whose digest time matches
// the current hour and minute window.
func (s *notifyService) SendDailyDigests(ctx context.Context) (int, error) {
	orgs, err := s.settings.List(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clockNow()
	sent := 0
	for _, org := range orgs {
		if org.DailyDigestTime == "" || !sameMinuteOfDay(org.DailyDigestTime, now) {
			continue
		}
		if err := s.sendDigest(ctx, org.OrgID); err != nil {
			logger.FromContext(ctx).Error("daily digest failed", "orgId", org.OrgID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *notifyService) sendDigest(ctx context.Context, orgID string) error {
	now := s.clockNow()
	dre, err := s.reports.DRESummary(ctx, orgID, now.Format("2006-01"))
	if err != nil {
		return err
	}
	cashflow, err := s.reports.CashflowSummary(ctx, orgID, 30)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"📊 *Resumo diário*\nReceita do mês: %s\nDespesas do mês: %s\nResultado: %s\nSaldo atual: %s",
		FormatCents(dre.RevenueCents),
		FormatCents(dre.ExpensesCents),
		FormatCents(dre.ProfitCents),
		FormatCents(cashflow.CurrentBalanceCents),
	)

	users, err := s.links.ListActiveByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	for _, user := range users {
		if _, err := s.sender.SendText(ctx, orgID, "", user.PhoneE164, body); err != nil {
			logger.FromContext(ctx).Warn("digest send failed", "userId", user.UserID, "error", err)
		}
	}
	return nil
}

// inQuietHours handles windows that cross midnight, e.g. 22:00 to 07:00.
func (s *notifyService) inQuietHours(settings *models.AssistantSettings, now time.Time) bool {
	if settings == nil || settings.QuietHoursStart == "" || settings.QuietHoursEnd == "" {
		return false
	}
	start, err := minuteOfDay(settings.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := minuteOfDay(settings.QuietHoursEnd)
	if err != nil {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	if start <= end {
		return current >= start && current < end
	}
	return current >= start || current < end
}

func minuteOfDay(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func sameMinuteOfDay(value string, now time.Time) bool {
	target, err := minuteOfDay(value)
	if err != nil {
		return false
	}
	return now.Hour()*60+now.Minute() == target
}
