package models

import (
	"time"
)

type Recurrence struct {
	RecurrenceID string          `firestore:"recurrenceId" json:"recurrenceId"`
	Name         string          `firestore:"name" json:"name"`
	Frequency    string          `firestore:"frequency" json:"frequency"` // "DAILY", "WEEKLY", "MONTHLY"
	NextRunAt    string          `firestore:"nextRunAt" json:"nextRunAt"` // YYYY-MM-DD
	Type         TransactionType `firestore:"type" json:"type"`
	AmountCents  int64           `firestore:"amountCents" json:"amountCents"`
	Description  string          `firestore:"description" json:"description"`
	AccountID    string          `firestore:"accountId" json:"accountId"`
	CreatedAt    time.Time       `firestore:"createdAt" json:"createdAt"`
}
