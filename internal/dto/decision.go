package dto

import (
	"time"
)

// ParsedIntent is the intent router's structured reading of a message.
type ParsedIntent struct {
	Tool                 string
	Input                map[string]any
	RequiresConfirmation bool
}

type DecisionKind string

const (
	DecisionTool    DecisionKind = "tool"
	DecisionHelp    DecisionKind = "help"
	DecisionUnknown DecisionKind = "unknown"
)

// Decision is the tagged union produced by an AI provider.
type Decision struct {
	Kind       DecisionKind
	ToolName   string
	ToolInput  map[string]any
	Confidence float64
	Reason     string
}

type RecentMessage struct {
	Direction string // "IN" or "OUT"
	Text      string
	CreatedAt time.Time
}

// MessageContext carries conversation state into a provider decision.
type MessageContext struct {
	OrgID          string
	UserID         string
	ConversationID string
	RecentMessages []RecentMessage
}
