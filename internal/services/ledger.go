package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

type transactionStore interface {
	Create(ctx context.Context, orgID string, transaction models.Transaction) (string, error)
	Get(ctx context.Context, orgID, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, orgID, transactionID string, updates []firestore.Update) error
	ListByDateRange(ctx context.Context, orgID, from, to string, limit int) ([]models.Transaction, error)
	ListRecent(ctx context.Context, orgID string, limit int) ([]models.Transaction, error)
	TouchUpdatedAt(ctx context.Context, orgID, transactionID string, now time.Time) error
}

type ledgerService struct {
	store    transactionStore
	clockNow func() time.Time
}

func NewLedgerService(store transactionStore) *ledgerService {
	return &ledgerService{store: store, clockNow: time.Now}
}

const defaultPageSize = 20

func (s *ledgerService) ListTransactions(ctx context.Context, orgID string, args dto.ListTransactionsArgs) (dto.ListTransactionsResult, error) {
	var (
		items []models.Transaction
		err   error
	)
	if args.From != "" && args.To != "" {
		items, err = s.store.ListByDateRange(ctx, orgID, args.From, args.To, 0)
	} else {
		items, err = s.store.ListRecent(ctx, orgID, 500)
	}
	if err != nil {
		return dto.ListTransactionsResult{}, err
	}

	filtered := items[:0:0]
	query := strings.ToLower(strings.TrimSpace(args.Query))
	for _, item := range items {
		if args.Type != "" && string(item.Type) != args.Type {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		filtered = append(filtered, item)
	}

	total := len(filtered)
	pageSize := args.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	page := args.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return dto.ListTransactionsResult{Items: filtered[start:end], Total: total}, nil
}

func (s *ledgerService) CreateTransaction(ctx context.Context, orgID string, args dto.CreateTransactionArgs) (models.Transaction, error) {
	if args.AmountCents <= 0 {
		return models.Transaction{}, errs.NewValidationError("valor deve ser maior que zero")
	}
	if strings.TrimSpace(args.Description) == "" {
		return models.Transaction{}, errs.NewValidationError("descrição é obrigatória")
	}
	transactionType := models.TransactionType(strings.ToUpper(args.Type))
	if transactionType != models.TransactionIn && transactionType != models.TransactionOut {
		return models.Transaction{}, errs.NewValidationError("tipo deve ser IN ou OUT")
	}

	now := s.clockNow()
	date := args.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return models.Transaction{}, errs.NewValidationError("data inválida, use AAAA-MM-DD")
	}

	transaction := models.Transaction{
		Type:        transactionType,
		Status:      "CLEARED",
		Date:        date,
		AmountCents: args.AmountCents,
		Description: strings.TrimSpace(args.Description),
		AccountID:   args.AccountID,
		CategoryID:  args.CategoryID,
		Source:      "whatsapp",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.store.Create(ctx, orgID, transaction)
	if err != nil {
		return models.Transaction{}, err
	}
	transaction.TransactionID = id
	return transaction, nil
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, orgID string, args dto.UpdateTransactionArgs) (models.Transaction, error) {
	if args.ID == "" {
		return models.Transaction{}, errs.NewValidationError("id é obrigatório")
	}

	updates := []firestore.Update{
		{Path: "updatedAt", Value: s.clockNow()},
	}
	if args.Description != "" {
		updates = append(updates, firestore.Update{Path: "description", Value: args.Description})
	}
	if args.CategoryID != "" {
		updates = append(updates, firestore.Update{Path: "categoryId", Value: args.CategoryID})
	}
	if args.AmountCents > 0 {
		updates = append(updates, firestore.Update{Path: "amountCents", Value: args.AmountCents})
	}
	if len(updates) == 1 {
		return models.Transaction{}, errs.NewValidationError("nenhum campo para atualizar")
	}

	if err := s.store.Update(ctx, orgID, args.ID, updates); err != nil {
		return models.Transaction{}, err
	}
	updated, err := s.store.Get(ctx, orgID, args.ID)
	if err != nil {
		return models.Transaction{}, err
	}
	return *updated, nil
}

// SpendByCategory sums OUT transactions per category inside [from, to].
func (s *ledgerService) SpendByCategory(ctx context.Context, orgID, from, to string) (dto.SpendByCategoryResult, error) {
	items, err := s.store.ListByDateRange(ctx, orgID, from, to, 0)
	if err != nil {
		return dto.SpendByCategoryResult{}, err
	}

	totals := map[string]int64{}
	for _, item := range items {
		if item.Type != models.TransactionOut {
			continue
		}
		category := item.CategoryID
		if category == "" {
			category = "sem_categoria"
		}
		totals[category] += item.AmountCents
	}

	categories := make([]dto.CategorySpend, 0, len(totals))
	for category, total := range totals {
		categories = append(categories, dto.CategorySpend{
			CategoryID: category,
			Name:       category,
			TotalCents: total,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].TotalCents > categories[j].TotalCents
	})

	return dto.SpendByCategoryResult{From: from, To: to, Categories: categories}, nil
}

// CreateFromBankRecord promotes an unmatched bank record into a ledger
// transaction, carrying the provider ID for traceability.
func (s *ledgerService) CreateFromBankRecord(ctx context.Context, orgID string, record models.BankTransaction) (models.Transaction, error) {
	transactionType := models.TransactionIn
	amount := record.AmountCents
	if amount < 0 {
		transactionType = models.TransactionOut
		amount = -amount
	}

	now := s.clockNow()
	transaction := models.Transaction{
		Type:        transactionType,
		Status:      "CLEARED",
		Date:        record.PostedAt.Format("2006-01-02"),
		AmountCents: amount,
		Description: record.Description,
		Source:      "integration",
		ExternalID:  record.ExternalID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.store.Create(ctx, orgID, transaction)
	if err != nil {
		return models.Transaction{}, err
	}
	transaction.TransactionID = id
	return transaction, nil
}

// ListByDateRange exposes the raw range query for the match engine.
func (s *ledgerService) ListByDateRange(ctx context.Context, orgID, from, to string, limit int) ([]models.Transaction, error) {
	return s.store.ListByDateRange(ctx, orgID, from, to, limit)
}

func (s *ledgerService) TouchUpdatedAt(ctx context.Context, orgID, transactionID string, now time.Time) error {
	return s.store.TouchUpdatedAt(ctx, orgID, transactionID, now)
}
