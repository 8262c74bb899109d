package models

import (
	"time"
)

type MatchReason struct {
	AmountMatch           bool    `firestore:"amountMatch" json:"amountMatch"`
	DateMatch             bool    `firestore:"dateMatch" json:"dateMatch"`
	DescriptionSimilarity float64 `firestore:"descriptionSimilarity" json:"descriptionSimilarity"`
}

type MatchSuggestion struct {
	SuggestionID      string      `firestore:"suggestionId" json:"suggestionId"`
	BankTransactionID string      `firestore:"bankTransactionId" json:"bankTransactionId"`
	TransactionID     string      `firestore:"transactionId" json:"transactionId"`
	Score             int         `firestore:"score" json:"score"` // 0-100
	Reason            MatchReason `firestore:"reason" json:"reason"`
	CreatedAt         time.Time   `firestore:"createdAt" json:"createdAt"`
}
