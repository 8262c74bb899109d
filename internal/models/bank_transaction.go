package models

import (
	"time"
)

type MatchStatus string

const (
	MatchUnmatched MatchStatus = "UNMATCHED"
	MatchSuggested MatchStatus = "SUGGESTED"
	MatchMatched   MatchStatus = "MATCHED"
)

// BankTransaction is a raw imported bank-feed record. The match engine only
// ever mutates MatchStatus and MatchedTransactionID.
type BankTransaction struct {
	BankTransactionID    string      `firestore:"bankTransactionId" json:"bankTransactionId"`
	ConnectionID         string      `firestore:"connectionId" json:"connectionId"`
	ExternalID           string      `firestore:"externalId" json:"externalId"`   // idempotency key, unique per connection
	AmountCents          int64       `firestore:"amountCents" json:"amountCents"` // signed
	Description          string      `firestore:"description" json:"description"`
	PostedAt             time.Time   `firestore:"postedAt" json:"postedAt"`
	MatchStatus          MatchStatus `firestore:"matchStatus" json:"matchStatus"`
	MatchedTransactionID string      `firestore:"matchedTransactionId" json:"matchedTransactionId,omitempty"`
	CreatedAt            time.Time   `firestore:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time   `firestore:"updatedAt" json:"updatedAt"`
}
