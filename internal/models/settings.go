package models

import (
	"time"
)

// AssistantSettings is per-org configuration for the WhatsApp assistant.
type AssistantSettings struct {
	OrgID           string    `firestore:"orgId" json:"orgId"`
	PhoneNumberID   string    `firestore:"phoneNumberId" json:"phoneNumberId"`
	LLMEnabled      bool      `firestore:"llmEnabled" json:"llmEnabled"`
	Provider        string    `firestore:"provider" json:"provider"`                         // "heuristic" or "llm"
	QuietHoursStart string    `firestore:"quietHoursStart" json:"quietHoursStart,omitempty"` // "HH:MM"
	QuietHoursEnd   string    `firestore:"quietHoursEnd" json:"quietHoursEnd,omitempty"`     // "HH:MM"
	DailyDigestTime string    `firestore:"dailyDigestTime" json:"dailyDigestTime,omitempty"` // "HH:MM"
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}
