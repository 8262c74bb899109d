package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/helpers"
)

type fakeTransactionStore struct {
	transactions []models.Transaction
	nextID       int
	updates      map[string][]firestore.Update
}

func newFakeTransactionStore(transactions ...models.Transaction) *fakeTransactionStore {
	return &fakeTransactionStore{transactions: transactions, updates: map[string][]firestore.Update{}}
}

func (f *fakeTransactionStore) Create(ctx context.Context, orgID string, transaction models.Transaction) (string, error) {
	f.nextID++
	transaction.TransactionID = fmt.Sprintf("t%d", f.nextID)
	f.transactions = append(f.transactions, transaction)
	return transaction.TransactionID, nil
}

func (f *fakeTransactionStore) Get(ctx context.Context, orgID, id string) (*models.Transaction, error) {
	for i := range f.transactions {
		if f.transactions[i].TransactionID == id {
			return &f.transactions[i], nil
		}
	}
	return nil, errs.NewNotFoundError("lançamento não encontrado")
}

func (f *fakeTransactionStore) Update(ctx context.Context, orgID, id string, updates []firestore.Update) error {
	f.updates[id] = updates
	return nil
}

func (f *fakeTransactionStore) ListByDateRange(ctx context.Context, orgID, from, to string, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, transaction := range f.transactions {
		if transaction.Date >= from && transaction.Date <= to {
			out = append(out, transaction)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) ListRecent(ctx context.Context, orgID string, limit int) ([]models.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeTransactionStore) TouchUpdatedAt(ctx context.Context, orgID, id string, now time.Time) error {
	return nil
}

func TestCreateTransactionDefaults(t *testing.T) {
	store := newFakeTransactionStore()
	svc := NewLedgerService(store)
	svc.clockNow = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }

	created, err := svc.CreateTransaction(helpers.TestCtx(), "org", dto.CreateTransactionArgs{
		Type:        "out",
		AmountCents: 4590,
		Description: " mercado ",
	})
	if err != nil {
		t.Fatalf("CreateTransaction error: %v", err)
	}
	if created.Date != "2025-03-15" {
		t.Fatalf("default date mismatch: %q", created.Date)
	}
	if created.Description != "mercado" {
		t.Fatalf("description not trimmed: %q", created.Description)
	}
	if created.Source != "whatsapp" {
		t.Fatalf("source mismatch: %q", created.Source)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	svc := NewLedgerService(newFakeTransactionStore())
	ctx := helpers.TestCtx()

	cases := []dto.CreateTransactionArgs{
		{Type: "OUT", AmountCents: 0, Description: "x"},
		{Type: "OUT", AmountCents: 100, Description: "  "},
		{Type: "SIDEWAYS", AmountCents: 100, Description: "x"},
		{Type: "OUT", AmountCents: 100, Description: "x", Date: "15/03/2025"},
	}
	for i, args := range cases {
		if _, err := svc.CreateTransaction(ctx, "org", args); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestSpendByCategoryGroupsAndSorts(t *testing.T) {
	store := newFakeTransactionStore(
		models.Transaction{Type: models.TransactionOut, Date: "2025-03-01", AmountCents: 100, CategoryID: "ads"},
		models.Transaction{Type: models.TransactionOut, Date: "2025-03-02", AmountCents: 900, CategoryID: "payroll"},
		models.Transaction{Type: models.TransactionOut, Date: "2025-03-03", AmountCents: 50},
		models.Transaction{Type: models.TransactionIn, Date: "2025-03-04", AmountCents: 5000, CategoryID: "sales"},
	)
	svc := NewLedgerService(store)

	result, err := svc.SpendByCategory(helpers.TestCtx(), "org", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("SpendByCategory error: %v", err)
	}
	if len(result.Categories) != 3 {
		t.Fatalf("category count mismatch: %+v", result.Categories)
	}
	if result.Categories[0].CategoryID != "payroll" {
		t.Fatalf("sorting mismatch: %+v", result.Categories)
	}
	if result.Categories[2].CategoryID != "sem_categoria" {
		t.Fatalf("uncategorized bucket missing: %+v", result.Categories)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	store := newFakeTransactionStore(
		models.Transaction{TransactionID: "t1", Type: models.TransactionOut, Date: "2025-03-01", Description: "Meta Ads"},
		models.Transaction{TransactionID: "t2", Type: models.TransactionIn, Date: "2025-03-02", Description: "cliente x"},
	)
	svc := NewLedgerService(store)

	result, err := svc.ListTransactions(helpers.TestCtx(), "org", dto.ListTransactionsArgs{Query: "ads"})
	if err != nil {
		t.Fatalf("ListTransactions error: %v", err)
	}
	if result.Total != 1 || result.Items[0].TransactionID != "t1" {
		t.Fatalf("filter mismatch: %+v", result)
	}

	result, _ = svc.ListTransactions(helpers.TestCtx(), "org", dto.ListTransactionsArgs{Type: "IN"})
	if result.Total != 1 || result.Items[0].TransactionID != "t2" {
		t.Fatalf("type filter mismatch: %+v", result)
	}
}

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{
		0:        "R$ 0,00",
		4590:     "R$ 45,90",
		120000:   "R$ 1.200,00",
		-4590:    "-R$ 45,90",
		98765432: "R$ 987.654,32",
	}
	for cents, want := range cases {
		if got := FormatCents(cents); got != want {
			t.Fatalf("FormatCents(%d) = %q, want %q", cents, got, want)
		}
	}
}
