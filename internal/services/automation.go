package services

import (
	"context"
	"strings"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type notificationReader interface {
	ListRecent(ctx context.Context, orgID string, limit int) ([]models.Notification, error)
}

type recurrenceStore interface {
	List(ctx context.Context, orgID string) ([]models.Recurrence, error)
	Create(ctx context.Context, orgID string, recurrence models.Recurrence) (string, error)
}

type automationService struct {
	notifications notificationReader
	recurrences   recurrenceStore
	clockNow      func() time.Time
}

func NewAutomationService(notifications notificationReader, recurrences recurrenceStore) *automationService {
	return &automationService{
		notifications: notifications,
		recurrences:   recurrences,
		clockNow:      time.Now,
	}
}

func (s *automationService) ListNotifications(ctx context.Context, orgID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	items, err := s.notifications.ListRecent(ctx, orgID, limit*2)
	if err != nil {
		return nil, err
	}
	if !unreadOnly {
		if len(items) > limit {
			items = items[:limit]
		}
		return items, nil
	}

	unread := items[:0:0]
	for _, item := range items {
		if !item.Read {
			unread = append(unread, item)
		}
		if len(unread) == limit {
			break
		}
	}
	return unread, nil
}

func (s *automationService) ListRecurrences(ctx context.Context, orgID string) ([]models.Recurrence, error) {
	return s.recurrences.List(ctx, orgID)
}

func (s *automationService) CreateRecurrence(ctx context.Context, orgID string, args dto.CreateRecurrenceArgs) (models.Recurrence, error) {
	if strings.TrimSpace(args.Name) == "" {
		return models.Recurrence{}, errs.NewValidationError("nome é obrigatório")
	}
	frequency := strings.ToUpper(args.Frequency)
	switch frequency {
	case "DAILY", "WEEKLY", "MONTHLY":
	default:
		return models.Recurrence{}, errs.NewValidationError("frequência deve ser DAILY, WEEKLY ou MONTHLY")
	}
	if args.AmountCents <= 0 {
		return models.Recurrence{}, errs.NewValidationError("valor deve ser maior que zero")
	}
	if _, err := time.Parse("2006-01-02", args.NextRunAt); err != nil {
		return models.Recurrence{}, errs.NewValidationError("próxima execução inválida, use AAAA-MM-DD")
	}
	recurrenceType := models.TransactionType(strings.ToUpper(args.Type))
	if recurrenceType != models.TransactionIn && recurrenceType != models.TransactionOut {
		return models.Recurrence{}, errs.NewValidationError("tipo deve ser IN ou OUT")
	}

	recurrence := models.Recurrence{
		Name:        strings.TrimSpace(args.Name),
		Frequency:   frequency,
		NextRunAt:   args.NextRunAt,
		Type:        recurrenceType,
		AmountCents: args.AmountCents,
		Description: args.Description,
		AccountID:   args.AccountID,
		CreatedAt:   s.clockNow(),
	}
	id, err := s.recurrences.Create(ctx, orgID, recurrence)
	if err != nil {
		return models.Recurrence{}, err
	}
	recurrence.RecurrenceID = id
	return recurrence, nil
}
