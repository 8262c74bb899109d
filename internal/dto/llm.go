package dto

type LLMMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ToolDefinition is the function-calling schema handed to the LLM backend.
// It mirrors the tool catalog, which is the assistant's stable API surface.
type ToolDefinition struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters"`
}

type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

type LLMRequest struct {
	Model       string
	System      string
	Messages    []LLMMessage
	Tools       []ToolDefinition
	Temperature float64
	MaxTokens   int
}

type LLMToolCall struct {
	Name string
	Args map[string]any
}

type LLMResponse struct {
	Text     string
	ToolCall *LLMToolCall
}
