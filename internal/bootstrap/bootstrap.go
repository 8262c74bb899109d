package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	anthropicclient "github.com/cfoia/backend/internal/client/anthropic"
	openaiclient "github.com/cfoia/backend/internal/client/openai"
	plaidclient "github.com/cfoia/backend/internal/client/plaid"
	whatsappclient "github.com/cfoia/backend/internal/client/whatsapp"
	"github.com/cfoia/backend/internal/config"
	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/pkg/logger"
)

type llmClient interface {
	Complete(ctx context.Context, req dto.LLMRequest) (dto.LLMResponse, error)
}

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client

	Plaid    *plaidclient.Adapter
	WhatsApp *whatsappclient.Adapter
	LLM      llmClient
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, func(level slog.Level) slog.Handler {
		return logger.NewCloudRunHandler(level)
	})
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx)
	if err != nil {
		return bs, err
	}

	bs.Plaid = plaidclient.NewAdapter(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnvironment)
	bs.WhatsApp = whatsappclient.NewAdapter(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneID, cfg.WhatsAppAccessToken)

	switch cfg.LLMProvider {
	case "anthropic":
		bs.LLM = anthropicclient.NewAdapter(cfg.LLMAPIKey, cfg.LLMAPIURL)
	default:
		bs.LLM = openaiclient.NewAdapter(cfg.LLMAPIURL, cfg.LLMAPIKey)
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
}
