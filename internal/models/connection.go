package models

import (
	"time"
)

const (
	ConnectionStatusActive   = "active"
	ConnectionStatusInactive = "inactive"
)

// Connection is a linked bank-feed source (one Plaid item).
type Connection struct {
	ConnectionID string    `firestore:"connectionId" json:"connectionId"`
	Institution  string    `firestore:"institution" json:"institution"`
	Status       string    `firestore:"status" json:"status"` // "active", "inactive"
	AccessToken  string    `firestore:"accessToken" json:"-"`
	Cursor       string    `firestore:"cursor" json:"-"`
	LastError    string    `firestore:"lastError" json:"lastError,omitempty"`
	LastSyncedAt time.Time `firestore:"lastSyncedAt" json:"lastSyncedAt,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
