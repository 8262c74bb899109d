package models

import (
	"time"
)

type MessageDirection string

const (
	DirectionIn  MessageDirection = "IN"
	DirectionOut MessageDirection = "OUT"
)

type Conversation struct {
	ConversationID string    `firestore:"conversationId" json:"conversationId"`
	UserID         string    `firestore:"userId" json:"userId"`
	Channel        string    `firestore:"channel" json:"channel"` // "WHATSAPP"
	Status         string    `firestore:"status" json:"status"`   // "OPEN", "CLOSED"
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// ConversationMessage is keyed by the provider message ID so duplicate webhook
// deliveries collapse into a single record.
type ConversationMessage struct {
	MessageID      string           `firestore:"messageId" json:"messageId"`
	ConversationID string           `firestore:"conversationId" json:"conversationId"`
	Direction      MessageDirection `firestore:"direction" json:"direction"`
	Text           string           `firestore:"text" json:"text"`
	CreatedAt      time.Time        `firestore:"createdAt" json:"createdAt"`
}

// UserLink binds a WhatsApp phone number to an org user.
type UserLink struct {
	LinkID    string    `firestore:"linkId" json:"linkId"`
	OrgID     string    `firestore:"orgId" json:"orgId"`
	UserID    string    `firestore:"userId" json:"userId"`
	PhoneE164 string    `firestore:"phoneE164" json:"phoneE164"`
	IsActive  bool      `firestore:"isActive" json:"isActive"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
