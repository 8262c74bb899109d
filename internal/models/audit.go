package models

import (
	"time"
)

type AuditEntry struct {
	EntryID   string         `firestore:"entryId" json:"entryId"`
	UserID    string         `firestore:"userId" json:"userId"`
	Action    string         `firestore:"action" json:"action"`
	Entity    string         `firestore:"entity" json:"entity"`
	EntityID  string         `firestore:"entityId" json:"entityId"`
	Metadata  map[string]any `firestore:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `firestore:"createdAt" json:"createdAt"`
}
