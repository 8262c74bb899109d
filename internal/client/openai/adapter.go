package openaiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cfoia/backend/internal/dto"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// Adapter speaks the OpenAI chat-completions wire format. Only the pieces the
// assistant needs are modeled: one request, tool_choice auto, first tool call.
type Adapter struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

func NewAdapter(apiURL, apiKey string) *Adapter {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Adapter{
		httpClient: &http.Client{},
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *dto.Schema `json:"parameters"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *Adapter) Complete(ctx context.Context, req dto.LLMRequest) (dto.LLMResponse, error) {
	out := dto.LLMResponse{}

	if a.apiKey == "" {
		return out, fmt.Errorf("llm api key is not configured")
	}

	messages := make([]chatMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, msg := range req.Messages {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	body := chatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, tool := range req.Tools {
		body.Tools = append(body.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	if len(body.Tools) > 0 {
		body.ToolChoice = "auto"
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return out, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(raw))
	if err != nil {
		return out, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("llm api error: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return out, fmt.Errorf("llm response decode failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return out, nil
	}

	message := parsed.Choices[0].Message
	out.Text = message.Content
	if len(message.ToolCalls) > 0 {
		call := message.ToolCalls[0]
		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return out, fmt.Errorf("tool call arguments decode failed: %w", err)
			}
		}
		out.ToolCall = &dto.LLMToolCall{Name: call.Function.Name, Args: args}
	}

	return out, nil
}
