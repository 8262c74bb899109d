package ai

import (
	"context"

	"github.com/cfoia/backend/internal/dto"
)

// Provider is a polymorphic decision source: given a message and its
// conversation context, pick one tool (or help/unknown).
type Provider interface {
	Decide(ctx context.Context, message string, msgCtx dto.MessageContext) (dto.Decision, error)
}
