package dto

import (
	"github.com/cfoia/backend/internal/models"
)

type PlaidEnvironment string

const (
	PlaidSandbox     PlaidEnvironment = "sandbox"
	PlaidDevelopment PlaidEnvironment = "development"
	PlaidProduction  PlaidEnvironment = "production"
)

// PlaidSyncPage is one page of bank-feed records from a transactions sync.
type PlaidSyncPage struct {
	Records []models.BankTransaction
	Cursor  string
	HasMore bool
}

type BankSyncResult struct {
	RecordsImported int `json:"recordsImported"`
	ConnectionsOK   int `json:"connectionsOk"`
	Errors          int `json:"errors"`
}
