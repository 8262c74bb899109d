package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type reportTransactionStore interface {
	ListByDateRange(ctx context.Context, orgID, from, to string, limit int) ([]models.Transaction, error)
	ListRecent(ctx context.Context, orgID string, limit int) ([]models.Transaction, error)
}

type reportRecurrenceStore interface {
	List(ctx context.Context, orgID string) ([]models.Recurrence, error)
}

type reportsService struct {
	transactions reportTransactionStore
	recurrences  reportRecurrenceStore
	clockNow     func() time.Time
}

func NewReportsService(transactions reportTransactionStore, recurrences reportRecurrenceStore) *reportsService {
	return &reportsService{
		transactions: transactions,
		recurrences:  recurrences,
		clockNow:     time.Now,
	}
}

// DRESummary aggregates revenue and expenses over one month.
func (s *reportsService) DRESummary(ctx context.Context, orgID, month string) (dto.DRESummaryResult, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return dto.DRESummaryResult{}, errs.NewValidationError("mês inválido, use AAAA-MM")
	}
	from := start.Format("2006-01-02")
	to := start.AddDate(0, 1, -1).Format("2006-01-02")

	items, err := s.transactions.ListByDateRange(ctx, orgID, from, to, 0)
	if err != nil {
		return dto.DRESummaryResult{}, err
	}

	var revenue, expenses int64
	groups := map[string]int64{}
	for _, item := range items {
		switch item.Type {
		case models.TransactionIn:
			revenue += item.AmountCents
		case models.TransactionOut:
			expenses += item.AmountCents
			category := item.CategoryID
			if category == "" {
				category = "sem_categoria"
			}
			groups[category] += item.AmountCents
		}
	}

	top := make([]dto.CategorySpend, 0, len(groups))
	for category, total := range groups {
		top = append(top, dto.CategorySpend{CategoryID: category, Name: category, TotalCents: total})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].TotalCents > top[j].TotalCents })
	if len(top) > 5 {
		top = top[:5]
	}

	return dto.DRESummaryResult{
		Period:        month,
		RevenueCents:  revenue,
		ExpensesCents: expenses,
		ProfitCents:   revenue - expenses,
		TopGroups:     top,
	}, nil
}

// CashflowSummary projects the daily balance forward using scheduled
// recurrences on top of the realized balance.
func (s *reportsService) CashflowSummary(ctx context.Context, orgID string, projectionDays int) (dto.CashflowSummaryResult, error) {
	if projectionDays <= 0 {
		projectionDays = 30
	}
	if projectionDays > 90 {
		projectionDays = 90
	}

	now := s.clockNow()
	realized, err := s.transactions.ListByDateRange(ctx, orgID, now.AddDate(-1, 0, 0).Format("2006-01-02"), now.Format("2006-01-02"), 0)
	if err != nil {
		return dto.CashflowSummaryResult{}, err
	}

	var balance int64
	for _, item := range realized {
		switch item.Type {
		case models.TransactionIn:
			balance += item.AmountCents
		case models.TransactionOut:
			balance -= item.AmountCents
		}
	}

	scheduled, err := s.recurrences.List(ctx, orgID)
	if err != nil {
		return dto.CashflowSummaryResult{}, err
	}

	byDate := map[string]int64{}
	horizon := now.AddDate(0, 0, projectionDays)
	for _, recurrence := range scheduled {
		next, err := time.Parse("2006-01-02", recurrence.NextRunAt)
		if err != nil {
			continue
		}
		for !next.After(horizon) {
			if !next.Before(now.Truncate(24 * time.Hour)) {
				delta := recurrence.AmountCents
				if recurrence.Type == models.TransactionOut {
					delta = -delta
				}
				byDate[next.Format("2006-01-02")] += delta
			}
			switch recurrence.Frequency {
			case "DAILY":
				next = next.AddDate(0, 0, 1)
			case "WEEKLY":
				next = next.AddDate(0, 0, 7)
			default:
				next = next.AddDate(0, 1, 0)
			}
		}
	}

	result := dto.CashflowSummaryResult{
		CurrentBalanceCents: balance,
		MinBalanceCents:     balance,
		MaxBalanceCents:     balance,
		ProjectionDays:      projectionDays,
	}
	running := balance
	for day := 0; day < projectionDays; day++ {
		date := now.AddDate(0, 0, day+1).Format("2006-01-02")
		running += byDate[date]
		if running < result.MinBalanceCents {
			result.MinBalanceCents = running
		}
		if running > result.MaxBalanceCents {
			result.MaxBalanceCents = running
		}
		if running < 0 {
			result.CriticalDays = append(result.CriticalDays, dto.CashflowDay{
				Date:         date,
				BalanceCents: running,
			})
		}
	}
	return result, nil
}

// GrowthOverview derives recurring-revenue figures from monthly inbound
// recurrences and the current month's result.
func (s *reportsService) GrowthOverview(ctx context.Context, orgID string) (dto.GrowthOverviewResult, error) {
	scheduled, err := s.recurrences.List(ctx, orgID)
	if err != nil {
		return dto.GrowthOverviewResult{}, err
	}

	var mrr int64
	var active int
	for _, recurrence := range scheduled {
		if recurrence.Type != models.TransactionIn {
			continue
		}
		active++
		switch recurrence.Frequency {
		case "MONTHLY":
			mrr += recurrence.AmountCents
		case "WEEKLY":
			mrr += recurrence.AmountCents * 4
		case "DAILY":
			mrr += recurrence.AmountCents * 30
		}
	}

	month := s.clockNow().Format("2006-01")
	dre, err := s.DRESummary(ctx, orgID, month)
	if err != nil {
		return dto.GrowthOverviewResult{}, err
	}

	return dto.GrowthOverviewResult{
		ActiveClients:  active,
		MRRCents:       mrr,
		ARRCents:       mrr * 12,
		NetProfitCents: dre.ProfitCents,
	}, nil
}

// FormatCents renders an integer cent amount as "R$ 1.234,56".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	reais := cents / 100
	rest := cents % 100

	digits := fmt.Sprintf("%d", reais)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped, rest)
}
