package models

import (
	"time"
)

// PendingAction holds a mutating intent until the user confirms or cancels it.
// Terminal states are deletions, not stored statuses.
type PendingAction struct {
	ActionID       string         `firestore:"actionId" json:"actionId"`
	UserID         string         `firestore:"userId" json:"userId"`
	ConversationID string         `firestore:"conversationId" json:"conversationId"`
	ToolName       string         `firestore:"toolName" json:"toolName"`
	ToolInput      map[string]any `firestore:"toolInput" json:"toolInput"`
	CreatedAt      time.Time      `firestore:"createdAt" json:"createdAt"`
	ExpiresAt      time.Time      `firestore:"expiresAt" json:"expiresAt"`
}
