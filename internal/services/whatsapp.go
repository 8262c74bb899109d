package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/intent"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/logger"
)

type decisionProvider interface {
	Decide(ctx context.Context, message string, msgCtx dto.MessageContext) (dto.Decision, error)
}

type conversationStore interface {
	FindOrCreate(ctx context.Context, orgID, userID, channel string, now time.Time) (*models.Conversation, error)
	SaveMessage(ctx context.Context, orgID, conversationID string, message models.ConversationMessage) error
	ListRecentMessages(ctx context.Context, orgID, conversationID string, limit int) ([]models.ConversationMessage, error)
}

type phoneLinkReader interface {
	FindByPhone(ctx context.Context, phone string) (*models.UserLink, error)
}

type settingsByPhoneReader interface {
	FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.AssistantSettings, error)
}

type pendingActions interface {
	Create(ctx context.Context, orgID, userID, conversationID, toolName string, toolInput map[string]any) (models.PendingAction, error)
	Confirm(ctx context.Context, orgID, userID, conversationID string) (*models.PendingAction, error)
	Cancel(ctx context.Context, orgID, userID, conversationID string) (bool, error)
}

type toolExecutor interface {
	Execute(ctx context.Context, orgID, userID, conversationID, toolName string, input map[string]any) (any, error)
}

type mutationChecker interface {
	IsMutating(name string) bool
}

// whatsappService turns inbound WhatsApp messages into tool executions and
// replies. Mutating tools go through the pending-confirmation flow.
type whatsappService struct {
	settings      settingsByPhoneReader
	links         phoneLinkReader
	conversations conversationStore
	pending       pendingActions
	provider      decisionProvider
	executor      toolExecutor
	registry      mutationChecker
	sender        textSender
	clockNow      func() time.Time
}

func NewWhatsAppService(
	settings settingsByPhoneReader,
	links phoneLinkReader,
	conversations conversationStore,
	pending pendingActions,
	provider decisionProvider,
	executor toolExecutor,
	registry mutationChecker,
	sender textSender,
) *whatsappService {
	return &whatsappService{
		settings:      settings,
		links:         links,
		conversations: conversations,
		pending:       pending,
		provider:      provider,
		executor:      executor,
		registry:      registry,
		sender:        sender,
		clockNow:      time.Now,
	}
}

// HandleInbound processes one webhook message end to end. Duplicate webhook
// deliveries are dropped on the stored provider message ID.
func (s *whatsappService) HandleInbound(ctx context.Context, phoneNumberID string, message dto.WebhookMessage) error {
	log := logger.FromContext(ctx)

	if message.Text == nil {
		log.Warn("text message without body", "providerMessageId", message.ID)
		return nil
	}

	settings, err := s.settings.FindByPhoneNumberID(ctx, phoneNumberID)
	if err != nil {
		return err
	}
	if settings == nil {
		log.Warn("no org for phone number", "phoneNumberId", phoneNumberID)
		return nil
	}
	orgID := settings.OrgID

	link, err := s.links.FindByPhone(ctx, message.From)
	if err != nil {
		return err
	}
	if link == nil {
		_, err := s.sender.SendText(ctx, orgID, "", message.From,
			"Não encontrei seu cadastro. Peça a um administrador para vincular seu número.")
		return err
	}

	conversation, err := s.conversations.FindOrCreate(ctx, orgID, link.UserID, channelWhatsApp, s.clockNow())
	if err != nil {
		return err
	}

	inbound := models.ConversationMessage{
		MessageID:      message.ID,
		ConversationID: conversation.ConversationID,
		Direction:      models.DirectionIn,
		Text:           message.Text.Body,
		CreatedAt:      s.clockNow(),
	}
	if err := s.conversations.SaveMessage(ctx, orgID, conversation.ConversationID, inbound); err != nil {
		if errs.IsAlreadyExists(err) {
			log.Info("duplicate webhook delivery dropped", "providerMessageId", message.ID)
			return nil
		}
		return err
	}

	reply := s.respond(ctx, orgID, link.UserID, conversation.ConversationID, message.Text.Body)
	if reply == "" {
		return nil
	}
	_, err = s.sender.SendText(ctx, orgID, conversation.ConversationID, message.From, reply)
	return err
}

func (s *whatsappService) respond(ctx context.Context, orgID, userID, conversationID, text string) string {
	trimmed := strings.TrimSpace(strings.ToLower(text))

	switch {
	case isConfirmation(trimmed):
		return s.confirm(ctx, orgID, userID, conversationID)
	case isCancellation(trimmed):
		return s.cancel(ctx, orgID, userID, conversationID)
	}

	decision, err := s.provider.Decide(ctx, text, dto.MessageContext{
		OrgID:          orgID,
		UserID:         userID,
		ConversationID: conversationID,
		RecentMessages: s.recentMessages(ctx, orgID, conversationID),
	})
	if err != nil {
		logger.FromContext(ctx).Error("decision failed", "error", err)
		return "Não consegui processar sua mensagem agora. Tente novamente em instantes."
	}

	switch decision.Kind {
	case dto.DecisionHelp:
		return helpText
	case dto.DecisionTool:
		return s.runTool(ctx, orgID, userID, conversationID, decision)
	default:
		return s.unknownReply(trimmed)
	}
}

func (s *whatsappService) confirm(ctx context.Context, orgID, userID, conversationID string) string {
	action, err := s.pending.Confirm(ctx, orgID, userID, conversationID)
	if err != nil {
		if errs.IsNotFound(err) {
			return "Nenhuma ação pendente para confirmar."
		}
		logger.FromContext(ctx).Error("confirm failed", "error", err)
		return "Não consegui confirmar a ação. Tente novamente."
	}

	result, err := s.executor.Execute(ctx, orgID, userID, conversationID, action.ToolName, action.ToolInput)
	if err != nil {
		return errorReply(err)
	}
	return "✅ Confirmado!\n" + formatResult(action.ToolName, result)
}

func (s *whatsappService) cancel(ctx context.Context, orgID, userID, conversationID string) string {
	cancelled, err := s.pending.Cancel(ctx, orgID, userID, conversationID)
	if err != nil {
		logger.FromContext(ctx).Error("cancel failed", "error", err)
		return "Não consegui cancelar a ação. Tente novamente."
	}
	if !cancelled {
		return "Nenhuma ação pendente para cancelar."
	}
	return "❌ Ação cancelada."
}

func (s *whatsappService) runTool(ctx context.Context, orgID, userID, conversationID string, decision dto.Decision) string {
	if s.registry.IsMutating(decision.ToolName) {
		action, err := s.pending.Create(ctx, orgID, userID, conversationID, decision.ToolName, decision.ToolInput)
		if err != nil {
			logger.FromContext(ctx).Error("pending create failed", "error", err)
			return "Não consegui registrar a ação. Tente novamente."
		}
		return confirmationPrompt(action)
	}

	result, err := s.executor.Execute(ctx, orgID, userID, conversationID, decision.ToolName, decision.ToolInput)
	if err != nil {
		return errorReply(err)
	}
	return formatResult(decision.ToolName, result)
}

func (s *whatsappService) recentMessages(ctx context.Context, orgID, conversationID string) []dto.RecentMessage {
	history, err := s.conversations.ListRecentMessages(ctx, orgID, conversationID, 10)
	if err != nil {
		logger.FromContext(ctx).Warn("history load failed", "conversationId", conversationID, "error", err)
		return nil
	}

	out := make([]dto.RecentMessage, 0, len(history))
	for _, item := range history {
		out = append(out, dto.RecentMessage{
			Direction: string(item.Direction),
			Text:      item.Text,
			CreatedAt: item.CreatedAt,
		})
	}
	return out
}

func (s *whatsappService) unknownReply(trimmed string) string {
	if strings.HasPrefix(trimmed, "/") {
		command := strings.Fields(trimmed)[0]
		if suggestion := intent.SuggestCommand(command); suggestion != "" {
			return fmt.Sprintf("Não reconheci %s. Você quis dizer %s? Envie /ajuda para ver os comandos.", command, suggestion)
		}
	}
	return "Não entendi. Envie /ajuda para ver o que posso fazer."
}

func isConfirmation(trimmed string) bool {
	switch trimmed {
	case "/confirmar", "/sim", "/confirm", "/yes", "confirmar", "sim", "s", "yes", "ok":
		return true
	}
	return false
}

func isCancellation(trimmed string) bool {
	switch trimmed {
	case "/cancelar", "/não", "/nao", "/cancel", "/no", "cancelar", "não", "nao", "n":
		return true
	}
	return false
}

func confirmationPrompt(action models.PendingAction) string {
	var b strings.Builder
	b.WriteString("Confirmar a ação?\n")
	switch action.ToolName {
	case "createTransaction":
		amount := inputAmountCents(action.ToolInput["amountCents"])
		description, _ := action.ToolInput["description"].(string)
		kind := "Saída"
		if t, _ := action.ToolInput["type"].(string); strings.EqualFold(t, "IN") {
			kind = "Entrada"
		}
		fmt.Fprintf(&b, "%s de %s: %s\n", kind, FormatCents(amount), description)
	default:
		fmt.Fprintf(&b, "%s\n", action.ToolName)
	}
	b.WriteString("Responda *sim* para confirmar ou *não* para cancelar.")
	return b.String()
}

// inputAmountCents reads the amount regardless of how the tool input was
// produced: parsed commands store int64, JSON round-trips yield float64.
func inputAmountCents(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	}
	return 0
}

func errorReply(err error) string {
	var validation *errs.ValidationError
	var denied *errs.PermissionDeniedError
	var notFound *errs.ToolNotFoundError
	switch {
	case errors.As(err, &validation):
		return "⚠️ " + validation.Message
	case errors.As(err, &denied):
		return "🚫 " + denied.Message
	case errors.As(err, &notFound):
		return "⚠️ " + notFound.Message
	default:
		return "Algo deu errado ao executar a ação. Tente novamente."
	}
}

const helpText = `🤖 *CFO IA* — comandos disponíveis:

/mrr — receita recorrente e crescimento
/dre — resultado do mês
/gastos [AAAA-MM] — gastos por categoria
/caixa — fluxo de caixa projetado
/lancar <valor> <descrição> — registrar lançamento
/notifs — notificações recentes
/confirmar — confirmar ação pendente
/cancelar — cancelar ação pendente
/ajuda — esta mensagem

Você também pode escrever naturalmente, por exemplo:
"gastei 45,90 no mercado hoje"`

func formatResult(toolName string, result any) string {
	switch value := result.(type) {
	case models.Transaction:
		kind := "Saída"
		if value.Type == models.TransactionIn {
			kind = "Entrada"
		}
		return fmt.Sprintf("💰 %s registrada: %s — %s (%s)", kind, FormatCents(value.AmountCents), value.Description, value.Date)
	case dto.ListTransactionsResult:
		if len(value.Items) == 0 {
			return "Nenhum lançamento encontrado."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📒 Últimos lançamentos (%d no total):\n", value.Total)
		for _, item := range value.Items {
			sign := "-"
			if item.Type == models.TransactionIn {
				sign = "+"
			}
			fmt.Fprintf(&b, "%s %s %s — %s\n", item.Date, sign, FormatCents(item.AmountCents), item.Description)
		}
		return strings.TrimRight(b.String(), "\n")
	case dto.SpendByCategoryResult:
		if len(value.Categories) == 0 {
			return "Nenhum gasto no período."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📊 Gastos de %s a %s:\n", value.From, value.To)
		for _, category := range value.Categories {
			fmt.Fprintf(&b, "• %s: %s\n", category.Name, FormatCents(category.TotalCents))
		}
		return strings.TrimRight(b.String(), "\n")
	case dto.DRESummaryResult:
		return fmt.Sprintf("📈 *DRE %s*\nReceita: %s\nDespesas: %s\nResultado: %s",
			value.Period, FormatCents(value.RevenueCents), FormatCents(value.ExpensesCents), FormatCents(value.ProfitCents))
	case dto.CashflowSummaryResult:
		reply := fmt.Sprintf("💵 *Fluxo de caixa*\nSaldo atual: %s\nMínimo projetado (%dd): %s",
			FormatCents(value.CurrentBalanceCents), value.ProjectionDays, FormatCents(value.MinBalanceCents))
		if len(value.CriticalDays) > 0 {
			reply += fmt.Sprintf("\n⚠️ Saldo negativo previsto em %s", value.CriticalDays[0].Date)
		}
		return reply
	case dto.GrowthOverviewResult:
		return fmt.Sprintf("🚀 *Crescimento*\nMRR: %s\nARR: %s\nClientes ativos: %d\nResultado do mês: %s",
			FormatCents(value.MRRCents), FormatCents(value.ARRCents), value.ActiveClients, FormatCents(value.NetProfitCents))
	case []models.Notification:
		if len(value) == 0 {
			return "Nenhuma notificação recente."
		}
		var b strings.Builder
		b.WriteString("🔔 Notificações:\n")
		for _, notification := range value {
			fmt.Fprintf(&b, "• [%s] %s\n", notification.Severity, notification.Title)
		}
		return strings.TrimRight(b.String(), "\n")
	case []models.Recurrence:
		if len(value) == 0 {
			return "Nenhuma recorrência cadastrada."
		}
		var b strings.Builder
		b.WriteString("🔁 Recorrências:\n")
		for _, recurrence := range value {
			fmt.Fprintf(&b, "• %s: %s (%s, próxima %s)\n",
				recurrence.Name, FormatCents(recurrence.AmountCents), recurrence.Frequency, recurrence.NextRunAt)
		}
		return strings.TrimRight(b.String(), "\n")
	case models.Recurrence:
		return fmt.Sprintf("🔁 Recorrência criada: %s, %s (%s)", value.Name, FormatCents(value.AmountCents), value.Frequency)
	default:
		return "✅ Feito."
	}
}
