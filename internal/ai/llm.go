package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/pkg/logger"
)

const maxContextMessages = 10

type llmClient interface {
	Complete(ctx context.Context, req dto.LLMRequest) (dto.LLMResponse, error)
}

// LLMProvider decides through function calling against a chat backend. The
// tool definitions are derived from the registry, and the system prompt
// constrains the model to exactly one call from that catalog.
type LLMProvider struct {
	client  llmClient
	model   string
	defs    []dto.ToolDefinition
	timeout time.Duration
}

func NewLLMProvider(client llmClient, model string, defs []dto.ToolDefinition, timeout time.Duration) *LLMProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LLMProvider{
		client:  client,
		model:   model,
		defs:    defs,
		timeout: timeout,
	}
}

func (p *LLMProvider) Decide(ctx context.Context, message string, msgCtx dto.MessageContext) (dto.Decision, error) {
	log := logger.FromContext(ctx)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Complete(callCtx, dto.LLMRequest{
		Model:       p.model,
		System:      systemPrompt,
		Messages:    buildMessages(msgCtx.RecentMessages, message),
		Tools:       p.defs,
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("llm request timeout", "timeout", p.timeout.String())
			return dto.Decision{}, errs.NewProviderTimeoutError("llm request timeout")
		}
		return dto.Decision{}, errs.NewProviderError(fmt.Sprintf("llm call failed: %s", err.Error()))
	}

	if resp.ToolCall != nil {
		return dto.Decision{
			Kind:       dto.DecisionTool,
			ToolName:   resp.ToolCall.Name,
			ToolInput:  resp.ToolCall.Args,
			Confidence: 0.9,
			Reason:     "llm function calling",
		}, nil
	}

	// No tool call: downgrade based on the text reply.
	content := strings.ToLower(resp.Text)
	if strings.Contains(content, "help") || strings.Contains(content, "ajuda") {
		return dto.Decision{Kind: dto.DecisionHelp}, nil
	}
	return dto.Decision{Kind: dto.DecisionUnknown}, nil
}

func buildMessages(recent []dto.RecentMessage, current string) []dto.LLMMessage {
	if len(recent) > maxContextMessages {
		recent = recent[len(recent)-maxContextMessages:]
	}

	messages := make([]dto.LLMMessage, 0, len(recent)+1)
	for _, msg := range recent {
		role := "assistant"
		if msg.Direction == "IN" {
			role = "user"
		}
		messages = append(messages, dto.LLMMessage{Role: role, Content: msg.Text})
	}
	return append(messages, dto.LLMMessage{Role: "user", Content: current})
}

const systemPrompt = `Você é um assistente financeiro via WhatsApp. Sua função é:
1. Analisar a mensagem do usuário
2. Escolher UMA ferramenta (tool) apropriada da lista disponível
3. Preencher os parâmetros da ferramenta conforme o schema
4. NUNCA inventar IDs ou valores que não foram mencionados
5. Se não souber qual tool usar ou faltar informação crítica, retornar "help" ou "unknown"

REGRAS CRÍTICAS:
- Retorne APENAS uma function_call por vez
- NUNCA escreva texto livre como resposta principal
- Se a ação for de escrita (create/update/delete), a confirmação será pedida depois
- Use valores exatos mencionados pelo usuário, não invente nada`
