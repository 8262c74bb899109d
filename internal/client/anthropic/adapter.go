package anthropicclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/cfoia/backend/internal/dto"
)

// Adapter wraps the Anthropic SDK behind the same Complete contract as the
// OpenAI adapter, parsing the first tool_use block of the response.
type Adapter struct {
	client anthropic.Client
}

func NewAdapter(apiKey, apiURL string) *Adapter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if apiURL != "" {
		opts = append(opts, option.WithBaseURL(apiURL))
	}
	return &Adapter{client: anthropic.NewClient(opts...)}
}

func (a *Adapter) Complete(ctx context.Context, req dto.LLMRequest) (dto.LLMResponse, error) {
	out := dto.LLMResponse{}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  toMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = toTools(req.Tools)
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return out, err
	}

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Text += block.Text
		case "tool_use":
			if out.ToolCall != nil {
				continue
			}
			args := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return out, fmt.Errorf("tool use input decode failed: %w", err)
				}
			}
			out.ToolCall = &dto.LLMToolCall{Name: block.Name, Args: args}
		}
	}

	return out, nil
}

func toMessages(messages []dto.LLMMessage) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "assistant" {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			continue
		}
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
	}
	return out
}

func toTools(defs []dto.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		schema := anthropic.ToolInputSchemaParam{}
		if def.Parameters != nil {
			schema.Properties = def.Parameters.Properties
			schema.Required = def.Parameters.Required
		}
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: schema,
			},
		})
	}
	return out
}
