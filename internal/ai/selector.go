package ai

import (
	"context"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/logger"
)

type settingsReader interface {
	Get(ctx context.Context, orgID string) (*models.AssistantSettings, error)
}

// Selector picks the provider per tenant and owns the fallback policy: any
// LLM-path failure is converted into a heuristic decision on the same
// message, so callers never see a provider outage.
type Selector struct {
	settings  settingsReader
	heuristic Provider
	llm       Provider
	apiKeySet bool
}

func NewSelector(settings settingsReader, heuristic, llm Provider, apiKeySet bool) *Selector {
	return &Selector{
		settings:  settings,
		heuristic: heuristic,
		llm:       llm,
		apiKeySet: apiKeySet,
	}
}

func (s *Selector) Decide(ctx context.Context, message string, msgCtx dto.MessageContext) (dto.Decision, error) {
	log := logger.FromContext(ctx)

	provider := s.heuristic
	if s.llm != nil && s.apiKeySet {
		settings, err := s.settings.Get(ctx, msgCtx.OrgID)
		if err != nil {
			log.Warn("assistant settings lookup failed, using heuristic provider",
				"org_id", msgCtx.OrgID, "error", err)
		} else if settings != nil && settings.LLMEnabled && settings.Provider == "llm" {
			provider = s.llm
		}
	}

	decision, err := provider.Decide(ctx, message, msgCtx)
	if err == nil {
		return decision, nil
	}
	if provider == s.heuristic {
		return dto.Decision{}, err
	}

	// LLM failures (timeout, transport, parse) stay local: warn and fall back
	// to the heuristic on the original message.
	log.Warn("ai provider failed, using heuristic fallback",
		"org_id", msgCtx.OrgID, "error", err)
	return s.heuristic.Decide(ctx, message, msgCtx)
}
