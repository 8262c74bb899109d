package models

import (
	"time"
)

type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

type Transaction struct {
	TransactionID string          `firestore:"transactionId" json:"transactionId"`
	Type          TransactionType `firestore:"type" json:"type"`
	Status        string          `firestore:"status" json:"status"` // e.g. "CLEARED", "PENDING"
	Date          string          `firestore:"date" json:"date"`     // YYYY-MM-DD
	AmountCents   int64           `firestore:"amountCents" json:"amountCents"`
	Description   string          `firestore:"description" json:"description"`
	AccountID     string          `firestore:"accountId" json:"accountId,omitempty"`
	CategoryID    string          `firestore:"categoryId" json:"categoryId,omitempty"`
	Source        string          `firestore:"source" json:"source,omitempty"` // "manual", "whatsapp", "integration"
	ExternalID    string          `firestore:"externalId" json:"externalId,omitempty"`
	CreatedAt     time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `firestore:"updatedAt" json:"updatedAt"`
}
