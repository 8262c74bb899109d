package dto

import (
	"github.com/cfoia/backend/internal/models"
)

type ListTransactionsArgs struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Type     string `json:"type,omitempty"`
	Query    string `json:"q,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

type ListTransactionsResult struct {
	Items []models.Transaction `json:"items"`
	Total int                  `json:"total"`
}

type CreateTransactionArgs struct {
	Type        string `json:"type"`
	Date        string `json:"date"`
	AmountCents int64  `json:"amountCents"`
	Description string `json:"description"`
	AccountID   string `json:"accountId,omitempty"`
	AccountName string `json:"accountName,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
}

type UpdateTransactionArgs struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
	AmountCents int64  `json:"amountCents,omitempty"`
}

type SpendByCategoryArgs struct {
	Month string `json:"month,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

type CategorySpend struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	TotalCents int64  `json:"totalCents"`
}

type SpendByCategoryResult struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Categories []CategorySpend `json:"categories"`
}

type DRESummaryArgs struct {
	Month string `json:"month"`
}

type DRESummaryResult struct {
	Period        string          `json:"period"`
	RevenueCents  int64           `json:"revenueCents"`
	ExpensesCents int64           `json:"expensesCents"`
	ProfitCents   int64           `json:"profitCents"`
	TopGroups     []CategorySpend `json:"topGroups"`
}

type CashflowSummaryArgs struct {
	ProjectionDays int `json:"projectionDays,omitempty"`
}

type CashflowDay struct {
	Date         string `json:"date"`
	BalanceCents int64  `json:"balanceCents"`
}

type CashflowSummaryResult struct {
	CurrentBalanceCents int64         `json:"currentBalanceCents"`
	MinBalanceCents     int64         `json:"minBalanceCents"`
	MaxBalanceCents     int64         `json:"maxBalanceCents"`
	CriticalDays        []CashflowDay `json:"criticalDays"`
	ProjectionDays      int           `json:"projectionDays"`
}

type GrowthOverviewResult struct {
	ActiveClients  int     `json:"activeClients"`
	MRRCents       int64   `json:"mrrCents"`
	ARRCents       int64   `json:"arrCents"`
	ChurnRate      float64 `json:"churnRate"`
	NetProfitCents int64   `json:"netProfitCents"`
}

type ListNotificationsArgs struct {
	UnreadOnly bool `json:"unreadOnly,omitempty"`
}

type CreateRecurrenceArgs struct {
	Name        string `json:"name"`
	Frequency   string `json:"frequency"`
	NextRunAt   string `json:"nextRunAt"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amountCents"`
	Description string `json:"description"`
	AccountID   string `json:"accountId"`
}
