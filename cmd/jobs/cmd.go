package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/cfoia/backend/internal/bootstrap"
	"github.com/cfoia/backend/internal/config"
	"github.com/cfoia/backend/internal/services"
	"github.com/cfoia/backend/internal/store"
	"github.com/cfoia/backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// One-shot runner for the scheduled sweeps, for environments that prefer a
// job container over hitting the /jobs endpoints.
func main() {
	job := flag.String("job", "", "match-sweep | bank-sync | notifications | digests | pending-cleanup")
	flag.Parse()

	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx := logger.ToContext(context.Background(), bs.Log)

	tstore := store.NewTransactionStore(bs.Firestore)
	btstore := store.NewBankTransactionStore(bs.Firestore)
	sgstore := store.NewSuggestionStore(bs.Firestore)
	pastore := store.NewPendingActionStore(bs.Firestore)
	cvstore := store.NewConversationStore(bs.Firestore)
	lkstore := store.NewLinkStore(bs.Firestore)
	ststore := store.NewSettingsStore(bs.Firestore)
	ntstore := store.NewNotificationStore(bs.Firestore)
	cnstore := store.NewConnectionStore(bs.Firestore)
	rcstore := store.NewRecurrenceStore(bs.Firestore)

	ledger := services.NewLedgerService(tstore)
	reports := services.NewReportsService(tstore, rcstore)
	sender := services.NewSenderService(bs.WhatsApp, cvstore)
	notify := services.NewNotifyService(ntstore, lkstore, ststore, sender, reports)
	match := services.NewMatchService(btstore, sgstore, ledger)
	banksync := services.NewBankSyncService(bs.Plaid, cnstore, btstore)
	pending := services.NewPendingService(pastore, cfg.PendingActionTTL)

	switch *job {
	case "match-sweep":
		result, err := match.RunAll(ctx)
		exitOnError("match sweep failed", err, bs.Log)
		bs.Log.Info("match sweep done", "orgs", result.Orgs, "generated", result.Generated, "autoMatched", result.AutoMatched, "errors", result.Errors)
	case "bank-sync":
		result, err := banksync.SyncAll(ctx)
		exitOnError("bank sync failed", err, bs.Log)
		bs.Log.Info("bank sync done", "connections", result.ConnectionsOK, "imported", result.RecordsImported, "errors", result.Errors)
	case "notifications":
		result, err := notify.DispatchAll(ctx)
		exitOnError("notification dispatch failed", err, bs.Log)
		bs.Log.Info("notifications done", "sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	case "digests":
		sent, err := notify.SendDailyDigests(ctx)
		exitOnError("digest run failed", err, bs.Log)
		bs.Log.Info("digests done", "sent", sent)
	case "pending-cleanup":
		removed, err := pending.CleanupExpired(ctx)
		exitOnError("pending cleanup failed", err, bs.Log)
		bs.Log.Info("pending cleanup done", "removed", removed)
	default:
		bs.Log.Error("unknown job", "job", *job)
		os.Exit(2)
	}
}
