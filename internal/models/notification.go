package models

import (
	"time"
)

type NotificationSeverity string

const (
	SeverityInfo     NotificationSeverity = "INFO"
	SeverityWarning  NotificationSeverity = "WARNING"
	SeverityCritical NotificationSeverity = "CRITICAL"
)

type Notification struct {
	NotificationID string               `firestore:"notificationId" json:"notificationId"`
	Title          string               `firestore:"title" json:"title"`
	Body           string               `firestore:"body" json:"body"`
	Severity       NotificationSeverity `firestore:"severity" json:"severity"`
	Read           bool                 `firestore:"read" json:"read"`
	CreatedAt      time.Time            `firestore:"createdAt" json:"createdAt"`
}

// NotificationDelivery tracks one notification sent to one user on one channel.
// Keyed by notificationId_userId_channel for idempotent upserts.
type NotificationDelivery struct {
	NotificationID string    `firestore:"notificationId" json:"notificationId"`
	UserID         string    `firestore:"userId" json:"userId"`
	Channel        string    `firestore:"channel" json:"channel"` // "WHATSAPP"
	Status         string    `firestore:"status" json:"status"`   // "SENT", "FAILED"
	Error          string    `firestore:"error" json:"error,omitempty"`
	SentAt         time.Time `firestore:"sentAt" json:"sentAt,omitempty"`
}
