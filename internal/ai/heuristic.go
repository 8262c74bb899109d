package ai

import (
	"context"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/intent"
)

// HeuristicProvider is the no-external-call decision source. It delegates to
// the intent router and is also the fallback when the LLM path fails.
type HeuristicProvider struct {
	clockNow func() time.Time
}

func NewHeuristicProvider() *HeuristicProvider {
	return &HeuristicProvider{clockNow: time.Now}
}

func (p *HeuristicProvider) Decide(ctx context.Context, message string, msgCtx dto.MessageContext) (dto.Decision, error) {
	parsed, err := intent.Parse(message, p.clockNow())
	if err != nil {
		return dto.Decision{}, err
	}

	if parsed == nil {
		return dto.Decision{Kind: dto.DecisionUnknown}, nil
	}

	if parsed.Tool == "help" {
		return dto.Decision{Kind: dto.DecisionHelp}, nil
	}

	return dto.Decision{
		Kind:       dto.DecisionTool,
		ToolName:   parsed.Tool,
		ToolInput:  parsed.Input,
		Confidence: 0.8,
		Reason:     "parsed via heuristic patterns",
	}, nil
}
