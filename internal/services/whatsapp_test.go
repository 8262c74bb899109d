package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/helpers"
)

type fakePhoneSettings struct {
	settings *models.AssistantSettings
}

func (f *fakePhoneSettings) FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.AssistantSettings, error) {
	return f.settings, nil
}

type fakePhoneLinks struct {
	link *models.UserLink
}

func (f *fakePhoneLinks) FindByPhone(ctx context.Context, phone string) (*models.UserLink, error) {
	return f.link, nil
}

type fakeConversations struct {
	conversation models.Conversation
	saved        []models.ConversationMessage
	seen         map[string]bool
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{
		conversation: models.Conversation{ConversationID: "c1", UserID: "u1", Channel: "WHATSAPP"},
		seen:         map[string]bool{},
	}
}

func (f *fakeConversations) FindOrCreate(ctx context.Context, orgID, userID, channel string, now time.Time) (*models.Conversation, error) {
	return &f.conversation, nil
}

func (f *fakeConversations) SaveMessage(ctx context.Context, orgID, conversationID string, message models.ConversationMessage) error {
	if f.seen[message.MessageID] {
		return errs.NewAlreadyExistsError("message already recorded")
	}
	f.seen[message.MessageID] = true
	f.saved = append(f.saved, message)
	return nil
}

func (f *fakeConversations) ListRecentMessages(ctx context.Context, orgID, conversationID string, limit int) ([]models.ConversationMessage, error) {
	return nil, nil
}

type fakePending struct {
	created   []models.PendingAction
	confirmed *models.PendingAction
}

func (f *fakePending) Create(ctx context.Context, orgID, userID, conversationID, toolName string, toolInput map[string]any) (models.PendingAction, error) {
	action := models.PendingAction{ActionID: "a1", UserID: userID, ConversationID: conversationID, ToolName: toolName, ToolInput: toolInput}
	f.created = append(f.created, action)
	return action, nil
}

func (f *fakePending) Confirm(ctx context.Context, orgID, userID, conversationID string) (*models.PendingAction, error) {
	if f.confirmed == nil {
		return nil, errs.NewNotFoundError("nenhuma ação pendente para confirmar")
	}
	return f.confirmed, nil
}

func (f *fakePending) Cancel(ctx context.Context, orgID, userID, conversationID string) (bool, error) {
	return f.confirmed != nil, nil
}

type fakeDecider struct {
	decision dto.Decision
}

func (f *fakeDecider) Decide(ctx context.Context, message string, msgCtx dto.MessageContext) (dto.Decision, error) {
	return f.decision, nil
}

type fakeExecutor struct {
	calls         []string
	conversations []string
	result        any
	err           error
}

func (f *fakeExecutor) Execute(ctx context.Context, orgID, userID, conversationID, toolName string, input map[string]any) (any, error) {
	f.calls = append(f.calls, toolName)
	f.conversations = append(f.conversations, conversationID)
	return f.result, f.err
}

type fakeMutationChecker struct {
	mutating map[string]bool
}

func (f *fakeMutationChecker) IsMutating(name string) bool { return f.mutating[name] }

type whatsappFixture struct {
	svc           *whatsappService
	conversations *fakeConversations
	pending       *fakePending
	executor      *fakeExecutor
	sender        *fakeTextSender
}

func newWhatsAppFixture(decision dto.Decision) *whatsappFixture {
	conversations := newFakeConversations()
	pending := &fakePending{}
	executor := &fakeExecutor{result: dto.DRESummaryResult{Period: "2025-03"}}
	sender := &fakeTextSender{}
	svc := NewWhatsAppService(
		&fakePhoneSettings{settings: &models.AssistantSettings{OrgID: "org", PhoneNumberID: "p1"}},
		&fakePhoneLinks{link: &models.UserLink{UserID: "u1", OrgID: "org", PhoneE164: "+5511999999999", IsActive: true}},
		conversations,
		pending,
		&fakeDecider{decision: decision},
		executor,
		&fakeMutationChecker{mutating: map[string]bool{"createTransaction": true}},
		sender,
	)
	return &whatsappFixture{svc: svc, conversations: conversations, pending: pending, executor: executor, sender: sender}
}

func inboundMessage(id, text string) dto.WebhookMessage {
	return dto.WebhookMessage{
		From: "+5511999999999",
		ID:   id,
		Type: "text",
		Text: &dto.WebhookText{Body: text},
	}
}

func TestHandleInboundReadTool(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionTool, ToolName: "dreSummary", ToolInput: map[string]any{"month": "2025-03"}})

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/dre")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.executor.calls) != 1 || fx.executor.calls[0] != "dreSummary" {
		t.Fatalf("executor calls mismatch: %v", fx.executor.calls)
	}
	if fx.executor.conversations[0] != "c1" {
		t.Fatalf("executor must receive the conversation: %v", fx.executor.conversations)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "DRE") {
		t.Fatalf("reply mismatch: %v", fx.sender.sent)
	}
}

func TestHandleInboundDuplicateDropped(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionTool, ToolName: "dreSummary"})

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/dre")); err != nil {
		t.Fatalf("first delivery error: %v", err)
	}
	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/dre")); err != nil {
		t.Fatalf("duplicate delivery error: %v", err)
	}
	if len(fx.executor.calls) != 1 {
		t.Fatalf("duplicate executed: %v", fx.executor.calls)
	}
	if len(fx.sender.sent) != 1 {
		t.Fatalf("duplicate replied: %v", fx.sender.sent)
	}
}

func TestHandleInboundMutatingToolGoesPending(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{
		Kind:     dto.DecisionTool,
		ToolName: "createTransaction",
		ToolInput: map[string]any{
			"amountCents": float64(120000),
			"description": "meta ads",
			"type":        "OUT",
		},
	})

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/lancar 1200 meta ads")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.executor.calls) != 0 {
		t.Fatal("mutating tool must not execute before confirmation")
	}
	if len(fx.pending.created) != 1 || fx.pending.created[0].ToolName != "createTransaction" {
		t.Fatalf("pending action mismatch: %+v", fx.pending.created)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "R$ 1.200,00") {
		t.Fatalf("confirmation prompt mismatch: %v", fx.sender.sent)
	}
}

func TestHandleInboundPromptAmountFromParsedCommand(t *testing.T) {
	// Heuristic command parsing stores the amount as int64, not float64; the
	// prompt must render it either way.
	fx := newWhatsAppFixture(dto.Decision{
		Kind:     dto.DecisionTool,
		ToolName: "createTransaction",
		ToolInput: map[string]any{
			"amountCents": int64(120000),
			"description": "meta ads",
			"type":        "OUT",
		},
	})

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/lancar 1.200,00 meta ads")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "R$ 1.200,00") {
		t.Fatalf("confirmation prompt mismatch: %v", fx.sender.sent)
	}
}

func TestHandleInboundNonTextMessage(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionUnknown})

	message := dto.WebhookMessage{From: "+5511999999999", ID: "m1", Type: "image"}
	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", message); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.executor.calls) != 0 {
		t.Fatalf("message without text must not run tools: %v", fx.executor.calls)
	}
	if len(fx.sender.sent) != 0 {
		t.Fatalf("message without text must not reply: %v", fx.sender.sent)
	}
}

func TestHandleInboundConfirm(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionUnknown})
	fx.pending.confirmed = &models.PendingAction{
		ActionID: "a1",
		UserID:   "u1",
		ToolName: "createTransaction",
		ToolInput: map[string]any{
			"amountCents": float64(4590),
			"description": "mercado",
		},
	}
	fx.executor.result = models.Transaction{Type: models.TransactionOut, AmountCents: 4590, Description: "mercado", Date: "2025-03-15"}

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "sim")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.executor.calls) != 1 || fx.executor.calls[0] != "createTransaction" {
		t.Fatalf("confirm must execute the stored tool: %v", fx.executor.calls)
	}
	if !strings.Contains(fx.sender.sent[0], "Confirmado") {
		t.Fatalf("reply mismatch: %v", fx.sender.sent)
	}
}

func TestHandleInboundConfirmNothingPending(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionUnknown})

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/confirmar")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "Nenhuma ação pendente") {
		t.Fatalf("reply mismatch: %v", fx.sender.sent)
	}
}

func TestHandleInboundUnknownSuggestsCommand(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionUnknown})

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/mmr")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "/mrr") {
		t.Fatalf("did-you-mean missing: %v", fx.sender.sent)
	}
}

func TestHandleInboundHelp(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionHelp})

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/ajuda")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "/lancar") {
		t.Fatalf("help text mismatch: %v", fx.sender.sent)
	}
}

func TestHandleInboundUnlinkedPhone(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionUnknown})
	fx.svc.links = &fakePhoneLinks{link: nil}

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "oi")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "vincular") {
		t.Fatalf("unlinked reply mismatch: %v", fx.sender.sent)
	}
	if len(fx.executor.calls) != 0 {
		t.Fatal("unlinked phone must not execute tools")
	}
}

func TestHandleInboundPermissionDeniedReply(t *testing.T) {
	fx := newWhatsAppFixture(dto.Decision{Kind: dto.DecisionTool, ToolName: "dreSummary"})
	fx.executor.err = errs.NewPermissionDeniedError("você não tem permissão para esta ação")
	fx.executor.result = nil

	if err := fx.svc.HandleInbound(helpers.TestCtx(), "p1", inboundMessage("m1", "/dre")); err != nil {
		t.Fatalf("HandleInbound error: %v", err)
	}
	if len(fx.sender.sent) != 1 || !strings.Contains(fx.sender.sent[0], "permissão") {
		t.Fatalf("denied reply mismatch: %v", fx.sender.sent)
	}
}
