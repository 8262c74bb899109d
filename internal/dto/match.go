package dto

import (
	"github.com/cfoia/backend/internal/models"
)

// MatchCandidate is one scored pairing for a bank transaction.
type MatchCandidate struct {
	TransactionID string             `json:"transactionId"`
	Score         int                `json:"score"`
	Reason        models.MatchReason `json:"reason"`
}

// MatchRunResult summarizes one match-engine pass over an org.
type MatchRunResult struct {
	Generated   int `json:"generated"`
	AutoMatched int `json:"autoMatched"`
	Errors      int `json:"errors"`
}

// MatchSweepResult aggregates a cross-org sweep.
type MatchSweepResult struct {
	Orgs        int `json:"orgs"`
	Generated   int `json:"generated"`
	AutoMatched int `json:"autoMatched"`
	Errors      int `json:"errors"`
}
