package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
	"github.com/cfoia/backend/pkg/logger"
)

type matchBankStore interface {
	Get(ctx context.Context, orgID, bankTransactionID string) (*models.BankTransaction, error)
	ListByStatus(ctx context.Context, orgID string, statuses []models.MatchStatus, limit int) ([]models.BankTransaction, error)
	SetMatch(ctx context.Context, orgID, bankTransactionID, transactionID string, now time.Time) error
	SetStatus(ctx context.Context, orgID, bankTransactionID string, matchStatus models.MatchStatus, now time.Time) error
	OrgsWithUnmatched(ctx context.Context) ([]string, error)
}

type matchSuggestionStore interface {
	Create(ctx context.Context, orgID string, suggestion models.MatchSuggestion) (string, error)
	Get(ctx context.Context, orgID, suggestionID string) (*models.MatchSuggestion, error)
	List(ctx context.Context, orgID string, limit int) ([]models.MatchSuggestion, error)
	DeleteExisting(ctx context.Context, orgID, suggestionID string) error
	DeleteByBankTransaction(ctx context.Context, orgID, bankTransactionID, keepID string) error
}

type matchLedger interface {
	ListByDateRange(ctx context.Context, orgID, from, to string, limit int) ([]models.Transaction, error)
	CreateFromBankRecord(ctx context.Context, orgID string, record models.BankTransaction) (models.Transaction, error)
	TouchUpdatedAt(ctx context.Context, orgID, transactionID string, now time.Time) error
}

const (
	suggestThreshold   = 60
	autoMatchThreshold = 85
	maxSuggestions     = 5
	candidateWindow    = 30 // days either side of the posted date
)

type matchService struct {
	bank        matchBankStore
	suggestions matchSuggestionStore
	ledger      matchLedger
	clockNow    func() time.Time
}

func NewMatchService(bank matchBankStore, suggestions matchSuggestionStore, ledger matchLedger) *matchService {
	return &matchService{
		bank:        bank,
		suggestions: suggestions,
		ledger:      ledger,
		clockNow:    time.Now,
	}
}

// ScoreMatch rates how well a ledger transaction explains a bank record on a
// 0-100 scale: 40 points for an exact absolute amount, up to 30 for date
// proximity within two days, up to 30 for description similarity.
func ScoreMatch(record models.BankTransaction, transaction models.Transaction) (int, models.MatchReason) {
	var reason models.MatchReason
	score := 0.0

	bankAmount := record.AmountCents
	if bankAmount < 0 {
		bankAmount = -bankAmount
	}
	if bankAmount == transaction.AmountCents {
		score += 40
		reason.AmountMatch = true
	}

	if transactionDate, err := time.Parse("2006-01-02", transaction.Date); err == nil {
		posted := record.PostedAt.UTC()
		postedDay := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)
		days := math.Abs(postedDay.Sub(transactionDate).Hours() / 24)
		if days <= 2 {
			score += 30 * (1 - days/2)
			reason.DateMatch = days <= 2
		}
	}

	similarity := descriptionSimilarity(record.Description, transaction.Description)
	reason.DescriptionSimilarity = similarity
	score += 30 * similarity

	return int(math.Round(score)), reason
}

func descriptionSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	intersection := 0
	for token := range tokensA {
		if tokensB[token] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	out := map[string]bool{}
	for _, token := range strings.Fields(text) {
		out[token] = true
	}
	return out
}

// Candidates scores ledger transactions around the bank record's posted
// date and returns the top matches at or above the suggestion threshold.
func (s *matchService) Candidates(ctx context.Context, orgID string, record models.BankTransaction) ([]dto.MatchCandidate, error) {
	from := record.PostedAt.AddDate(0, 0, -candidateWindow).Format("2006-01-02")
	to := record.PostedAt.AddDate(0, 0, candidateWindow).Format("2006-01-02")
	transactions, err := s.ledger.ListByDateRange(ctx, orgID, from, to, 0)
	if err != nil {
		return nil, err
	}

	var candidates []dto.MatchCandidate
	for _, transaction := range transactions {
		score, reason := ScoreMatch(record, transaction)
		if score < suggestThreshold {
			continue
		}
		candidates = append(candidates, dto.MatchCandidate{
			TransactionID: transaction.TransactionID,
			Score:         score,
			Reason:        reason,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return candidates, nil
}

// RunOrg processes the org's unmatched bank records. The best candidate at
// or above the auto-match threshold links directly; anything else above the
// suggestion threshold becomes a suggestion for review. A failing record is
// skipped, not fatal.
func (s *matchService) RunOrg(ctx context.Context, orgID string) (dto.MatchRunResult, error) {
	log := logger.FromContext(ctx)

	records, err := s.bank.ListByStatus(ctx, orgID, []models.MatchStatus{models.MatchUnmatched}, 0)
	if err != nil {
		return dto.MatchRunResult{}, err
	}

	var result dto.MatchRunResult
	for _, record := range records {
		candidates, err := s.Candidates(ctx, orgID, record)
		if err != nil {
			log.Warn("match candidates failed", "bankTransactionId", record.BankTransactionID, "error", err)
			result.Errors++
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		now := s.clockNow()
		if candidates[0].Score >= autoMatchThreshold {
			if err := s.link(ctx, orgID, record.BankTransactionID, candidates[0].TransactionID, now); err != nil {
				log.Warn("auto-match failed", "bankTransactionId", record.BankTransactionID, "error", err)
				result.Errors++
				continue
			}
			result.AutoMatched++
			continue
		}

		created := 0
		for _, candidate := range candidates {
			_, err := s.suggestions.Create(ctx, orgID, models.MatchSuggestion{
				BankTransactionID: record.BankTransactionID,
				TransactionID:     candidate.TransactionID,
				Score:             candidate.Score,
				Reason:            candidate.Reason,
				CreatedAt:         now,
			})
			if err != nil {
				log.Warn("suggestion create failed", "bankTransactionId", record.BankTransactionID, "error", err)
				result.Errors++
				continue
			}
			created++
		}
		if created > 0 {
			if err := s.bank.SetStatus(ctx, orgID, record.BankTransactionID, models.MatchSuggested, now); err != nil {
				log.Warn("status update failed", "bankTransactionId", record.BankTransactionID, "error", err)
				result.Errors++
				continue
			}
			result.Generated += created
		}
	}
	return result, nil
}

// RunAll sweeps every org holding unmatched records.
func (s *matchService) RunAll(ctx context.Context) (dto.MatchSweepResult, error) {
	orgs, err := s.bank.OrgsWithUnmatched(ctx)
	if err != nil {
		return dto.MatchSweepResult{}, err
	}

	var sweep dto.MatchSweepResult
	for _, orgID := range orgs {
		result, err := s.RunOrg(ctx, orgID)
		if err != nil {
			logger.FromContext(ctx).Error("match run failed", "orgId", orgID, "error", err)
			sweep.Errors++
			continue
		}
		sweep.Orgs++
		sweep.Generated += result.Generated
		sweep.AutoMatched += result.AutoMatched
		sweep.Errors += result.Errors
	}
	return sweep, nil
}

// ApproveSuggestion links the pair and discards every sibling suggestion for
// the same bank record. Approving twice surfaces NotFound.
func (s *matchService) ApproveSuggestion(ctx context.Context, orgID, suggestionID string) (*models.MatchSuggestion, error) {
	suggestion, err := s.suggestions.Get(ctx, orgID, suggestionID)
	if err != nil {
		return nil, err
	}
	if err := s.suggestions.DeleteExisting(ctx, orgID, suggestionID); err != nil {
		return nil, err
	}

	now := s.clockNow()
	if err := s.link(ctx, orgID, suggestion.BankTransactionID, suggestion.TransactionID, now); err != nil {
		return nil, err
	}
	if err := s.suggestions.DeleteByBankTransaction(ctx, orgID, suggestion.BankTransactionID, ""); err != nil {
		logger.FromContext(ctx).Warn("sibling cleanup failed", "bankTransactionId", suggestion.BankTransactionID, "error", err)
	}
	return suggestion, nil
}

// RejectSuggestion discards one suggestion. The bank record keeps its status
// so the sweep does not regenerate the same pairing.
func (s *matchService) RejectSuggestion(ctx context.Context, orgID, suggestionID string) error {
	if _, err := s.suggestions.Get(ctx, orgID, suggestionID); err != nil {
		return err
	}
	return s.suggestions.DeleteExisting(ctx, orgID, suggestionID)
}

// ListSuggestions returns open suggestions ordered by score.
func (s *matchService) ListSuggestions(ctx context.Context, orgID string, limit int) ([]models.MatchSuggestion, error) {
	return s.suggestions.List(ctx, orgID, limit)
}

// CreateFromBank promotes an unmatched bank record into a new ledger
// transaction and links the two.
func (s *matchService) CreateFromBank(ctx context.Context, orgID, bankTransactionID string) (*models.Transaction, error) {
	record, err := s.bank.Get(ctx, orgID, bankTransactionID)
	if err != nil {
		return nil, err
	}

	transaction, err := s.ledger.CreateFromBankRecord(ctx, orgID, *record)
	if err != nil {
		return nil, err
	}
	now := s.clockNow()
	if err := s.bank.SetMatch(ctx, orgID, bankTransactionID, transaction.TransactionID, now); err != nil {
		return nil, err
	}
	if err := s.suggestions.DeleteByBankTransaction(ctx, orgID, bankTransactionID, ""); err != nil {
		logger.FromContext(ctx).Warn("suggestion cleanup failed", "bankTransactionId", bankTransactionID, "error", err)
	}
	return &transaction, nil
}

func (s *matchService) link(ctx context.Context, orgID, bankTransactionID, transactionID string, now time.Time) error {
	if err := s.bank.SetMatch(ctx, orgID, bankTransactionID, transactionID, now); err != nil {
		return err
	}
	return s.ledger.TouchUpdatedAt(ctx, orgID, transactionID, now)
}
