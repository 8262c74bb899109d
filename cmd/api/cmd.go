package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cfoia/backend/internal/ai"
	"github.com/cfoia/backend/internal/bootstrap"
	"github.com/cfoia/backend/internal/config"
	"github.com/cfoia/backend/internal/handlers"
	"github.com/cfoia/backend/internal/response"
	"github.com/cfoia/backend/internal/router"
	"github.com/cfoia/backend/internal/services"
	"github.com/cfoia/backend/internal/store"
	"github.com/cfoia/backend/internal/tools"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	tstore := store.NewTransactionStore(bs.Firestore)
	btstore := store.NewBankTransactionStore(bs.Firestore)
	sgstore := store.NewSuggestionStore(bs.Firestore)
	pastore := store.NewPendingActionStore(bs.Firestore)
	cvstore := store.NewConversationStore(bs.Firestore)
	lkstore := store.NewLinkStore(bs.Firestore)
	mbstore := store.NewMembershipStore(bs.Firestore)
	ststore := store.NewSettingsStore(bs.Firestore)
	ntstore := store.NewNotificationStore(bs.Firestore)
	cnstore := store.NewConnectionStore(bs.Firestore)
	rcstore := store.NewRecurrenceStore(bs.Firestore)
	austore := store.NewAuditStore(bs.Firestore)

	// services
	ledger := services.NewLedgerService(tstore)
	reports := services.NewReportsService(tstore, rcstore)
	automation := services.NewAutomationService(ntstore, rcstore)
	rbac, err := services.NewRBACService(mbstore)
	exitOnError("rbac init failed", err, bs.Log)

	registry := tools.NewRegistry(tools.NewCatalog(ledger, reports, automation))
	executor := services.NewExecutorService(registry, rbac, austore)
	pending := services.NewPendingService(pastore, cfg.PendingActionTTL)
	sender := services.NewSenderService(bs.WhatsApp, cvstore)
	notify := services.NewNotifyService(ntstore, lkstore, ststore, sender, reports)
	match := services.NewMatchService(btstore, sgstore, ledger)
	banksync := services.NewBankSyncService(bs.Plaid, cnstore, btstore)
	connect := services.NewConnectService(bs.Plaid, cnstore)

	heuristic := ai.NewHeuristicProvider()
	llm := ai.NewLLMProvider(bs.LLM, cfg.LLMModel, registry.Definitions(), cfg.LLMTimeout)
	selector := ai.NewSelector(ststore, heuristic, llm, cfg.LLMAPIKey != "")

	whatsapp := services.NewWhatsAppService(ststore, lkstore, cvstore, pending, selector, executor, registry, sender)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.Firebase = bs.Firebase
	deps.WhatsAppSvc = whatsapp
	deps.MatchSvc = match
	deps.NotifySvc = notify
	deps.PendingSvc = pending
	deps.BankSyncSvc = banksync
	deps.ConnectSvc = connect
	deps.RBAC = rbac
	deps.WebhookVerifyToken = cfg.WhatsAppVerifyToken
	deps.JobToken = cfg.JobToken

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":8080", r)
	exitOnError("server start failed", err, bs.Log)
}
