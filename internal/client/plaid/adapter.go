package plaidclient

import (
	"context"
	"math"
	"time"

	"github.com/plaid/plaid-go/v24/plaid"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/models"
)

type Adapter struct {
	client *plaid.APIClient
}

func NewAdapter(clientID, secret string, env dto.PlaidEnvironment) *Adapter {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(toPlaidEnv(env))

	return &Adapter{
		client: plaid.NewAPIClient(cfg),
	}
}

func (a *Adapter) CreateLinkToken(ctx context.Context, orgID string) (string, error) {
	req := plaid.NewLinkTokenCreateRequest(
		"CFO IA",
		"pt",
		[]plaid.CountryCode{plaid.CountryCode("BR"), plaid.CountryCode("US")},
		plaid.LinkTokenCreateRequestUser{ClientUserId: orgID},
	)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, _, err := a.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", err
	}
	return resp.GetLinkToken(), nil
}

func (a *Adapter) ExchangePublicToken(ctx context.Context, publicToken string) (itemID, accessToken string, err error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := a.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", "", err
	}
	return resp.GetItemId(), resp.GetAccessToken(), nil
}

// SyncBankTransactions pulls one page of added/modified bank-feed records.
// The Plaid transaction_id becomes the record's externalId idempotency key.
func (a *Adapter) SyncBankTransactions(ctx context.Context, connectionID, accessToken string, cursor *string) (dto.PlaidSyncPage, error) {
	req := plaid.NewTransactionsSyncRequest(accessToken)
	if cursor != nil {
		req.SetCursor(*cursor)
	}
	req.SetCount(500)

	var page dto.PlaidSyncPage

	resp, _, err := a.client.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*req).Execute()
	if err != nil {
		return page, err
	}

	records := make([]models.BankTransaction, 0, len(resp.GetAdded())+len(resp.GetModified()))
	now := time.Now()

	convert := func(plaidTx plaid.Transaction) models.BankTransaction {
		postedAt, _ := time.Parse("2006-01-02", plaidTx.GetDate())
		// Plaid reports debits as positive; flip so outflows are negative.
		amountCents := -int64(math.Round(plaidTx.GetAmount() * 100))
		return models.BankTransaction{
			ConnectionID: connectionID,
			ExternalID:   plaidTx.GetTransactionId(),
			AmountCents:  amountCents,
			Description:  plaidTx.GetName(),
			PostedAt:     postedAt,
			MatchStatus:  models.MatchUnmatched,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	for _, t := range resp.GetAdded() {
		records = append(records, convert(t))
	}
	for _, t := range resp.GetModified() {
		records = append(records, convert(t))
	}

	page.Records = records
	page.Cursor = resp.GetNextCursor()
	page.HasMore = resp.GetHasMore()

	return page, nil
}

func toPlaidEnv(env dto.PlaidEnvironment) plaid.Environment {
	switch env {
	case dto.PlaidSandbox:
		return plaid.Sandbox
	case dto.PlaidDevelopment:
		return plaid.Development
	default: // dto.PlaidProduction
		return plaid.Production
	}
}
