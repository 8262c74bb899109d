package tools

import (
	"context"
	"regexp"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

// Service surfaces the catalog needs, one small interface per concern.

type ledgerToolService interface {
	ListTransactions(ctx context.Context, orgID string, args dto.ListTransactionsArgs) (dto.ListTransactionsResult, error)
	CreateTransaction(ctx context.Context, orgID string, args dto.CreateTransactionArgs) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, orgID string, args dto.UpdateTransactionArgs) (models.Transaction, error)
	SpendByCategory(ctx context.Context, orgID, from, to string) (dto.SpendByCategoryResult, error)
}

type reportsToolService interface {
	DRESummary(ctx context.Context, orgID, month string) (dto.DRESummaryResult, error)
	CashflowSummary(ctx context.Context, orgID string, projectionDays int) (dto.CashflowSummaryResult, error)
	GrowthOverview(ctx context.Context, orgID string) (dto.GrowthOverviewResult, error)
}

type automationToolService interface {
	ListNotifications(ctx context.Context, orgID string, unreadOnly bool, limit int) ([]models.Notification, error)
	ListRecurrences(ctx context.Context, orgID string) ([]models.Recurrence, error)
	CreateRecurrence(ctx context.Context, orgID string, args dto.CreateRecurrenceArgs) (models.Recurrence, error)
}

var reToolMonth = regexp.MustCompile(`^\d{4}-\d{2}$`)

// NewCatalog builds the full tool table. Plain tools wrap ledger and
// automation operations; the extended summary tools wrap reports.
func NewCatalog(ledger ledgerToolService, reports reportsToolService, automation automationToolService) []Tool {
	return []Tool{
		{
			Name:        "listTransactions",
			Description: "Lista transações financeiras com filtros opcionais",
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"from":     {Type: "string", Description: "YYYY-MM-DD data inicial."},
					"to":       {Type: "string", Description: "YYYY-MM-DD data final."},
					"type":     {Type: "string", Enum: []string{"IN", "OUT"}},
					"q":        {Type: "string", Description: "Busca textual na descrição."},
					"page":     {Type: "integer"},
					"pageSize": {Type: "integer"},
				},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.ListTransactionsArgs](input)
				if err != nil {
					return nil, err
				}
				if args.Type != "" && args.Type != "IN" && args.Type != "OUT" {
					return nil, errs.NewValidationError("type deve ser IN ou OUT")
				}
				return ledger.ListTransactions(ctx, orgID, args)
			},
		},
		{
			Name:        "createTransaction",
			Description: "Cria uma nova transação financeira",
			Mutating:    true,
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"type":        {Type: "string", Enum: []string{"IN", "OUT"}},
					"date":        {Type: "string", Description: "YYYY-MM-DD"},
					"amountCents": {Type: "integer", Description: "Valor em centavos, mínimo 1."},
					"description": {Type: "string"},
					"accountId":   {Type: "string"},
					"categoryId":  {Type: "string"},
				},
				Required: []string{"type", "date", "amountCents", "description"},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.CreateTransactionArgs](input)
				if err != nil {
					return nil, err
				}
				if args.Type != "IN" && args.Type != "OUT" {
					return nil, errs.NewValidationError("type deve ser IN ou OUT")
				}
				if args.AmountCents < 1 {
					return nil, errs.NewValidationError("amountCents deve ser maior que zero")
				}
				if args.Description == "" {
					return nil, errs.NewValidationError("description é obrigatória")
				}
				if args.Date == "" {
					return nil, errs.NewValidationError("date é obrigatória")
				}
				return ledger.CreateTransaction(ctx, orgID, args)
			},
		},
		{
			Name:        "updateTransaction",
			Description: "Atualiza uma transação existente",
			Mutating:    true,
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"id":          {Type: "string"},
					"description": {Type: "string"},
					"categoryId":  {Type: "string"},
					"amountCents": {Type: "integer"},
				},
				Required: []string{"id"},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.UpdateTransactionArgs](input)
				if err != nil {
					return nil, err
				}
				if args.ID == "" {
					return nil, errs.NewValidationError("id é obrigatório")
				}
				return ledger.UpdateTransaction(ctx, orgID, args)
			},
		},
		{
			Name:        "spendByCategory",
			Description: "Retorna gastos agrupados por categoria em um período",
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"month": {Type: "string", Description: "Mês YYYY-MM; alternativa a from/to."},
					"from":  {Type: "string", Description: "YYYY-MM-DD"},
					"to":    {Type: "string", Description: "YYYY-MM-DD"},
				},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.SpendByCategoryArgs](input)
				if err != nil {
					return nil, err
				}
				from, to := args.From, args.To
				if args.Month != "" {
					if !reToolMonth.MatchString(args.Month) {
						return nil, errs.NewValidationError("month deve estar no formato YYYY-MM")
					}
					from, to = monthRange(args.Month)
				}
				if from == "" || to == "" {
					return nil, errs.NewValidationError("informe month ou from/to")
				}
				return ledger.SpendByCategory(ctx, orgID, from, to)
			},
		},
		{
			Name:        "listNotifications",
			Description: "Lista notificações do sistema (recorrências, alertas, etc)",
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"unreadOnly": {Type: "boolean"},
				},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.ListNotificationsArgs](input)
				if err != nil {
					return nil, err
				}
				return automation.ListNotifications(ctx, orgID, args.UnreadOnly, 20)
			},
		},
		{
			Name:        "listRecurrences",
			Description: "Lista recorrências cadastradas",
			Parameters:  &dto.Schema{Type: "object"},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				return automation.ListRecurrences(ctx, orgID)
			},
		},
		{
			Name:        "createRecurrence",
			Description: "Cria uma nova recorrência (despesa/receita recorrente)",
			Mutating:    true,
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"name":        {Type: "string"},
					"frequency":   {Type: "string", Enum: []string{"DAILY", "WEEKLY", "MONTHLY"}},
					"nextRunAt":   {Type: "string", Description: "YYYY-MM-DD"},
					"type":        {Type: "string", Enum: []string{"IN", "OUT"}},
					"amountCents": {Type: "integer"},
					"description": {Type: "string"},
					"accountId":   {Type: "string"},
				},
				Required: []string{"name", "frequency", "nextRunAt", "type", "amountCents", "description", "accountId"},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.CreateRecurrenceArgs](input)
				if err != nil {
					return nil, err
				}
				if args.Name == "" || args.Frequency == "" || args.NextRunAt == "" || args.AccountID == "" {
					return nil, errs.NewValidationError("name, frequency, nextRunAt e accountId são obrigatórios")
				}
				if args.AmountCents < 1 {
					return nil, errs.NewValidationError("amountCents deve ser maior que zero")
				}
				return automation.CreateRecurrence(ctx, orgID, args)
			},
		},
		{
			Name:        "dreSummary",
			Description: "Resumo DRE (Demonstrativo de Resultado) do período",
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"month": {Type: "string", Description: "Mês no formato YYYY-MM"},
				},
				Required: []string{"month"},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.DRESummaryArgs](input)
				if err != nil {
					return nil, err
				}
				if !reToolMonth.MatchString(args.Month) {
					return nil, errs.NewValidationError("month deve estar no formato YYYY-MM")
				}
				return reports.DRESummary(ctx, orgID, args.Month)
			},
		},
		{
			Name:        "cashflowSummary",
			Description: "Resumo de fluxo de caixa projetado",
			Parameters: &dto.Schema{
				Type: "object",
				Properties: map[string]*dto.Schema{
					"projectionDays": {Type: "integer", Description: "Número de dias para projeção (padrão: 30)"},
				},
			},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				args, err := decodeArgs[dto.CashflowSummaryArgs](input)
				if err != nil {
					return nil, err
				}
				if args.ProjectionDays == 0 {
					args.ProjectionDays = 30
				}
				return reports.CashflowSummary(ctx, orgID, args.ProjectionDays)
			},
		},
		{
			Name:        "growthOverview",
			Description: "Visão geral de crescimento (MRR, ARR, clientes, churn)",
			Parameters:  &dto.Schema{Type: "object"},
			Run: func(ctx context.Context, orgID string, input map[string]any) (any, error) {
				return reports.GrowthOverview(ctx, orgID)
			},
		},
	}
}

func monthRange(month string) (string, string) {
	return month + "-01", lastDayOfMonth(month)
}
