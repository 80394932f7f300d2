package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Treasury is the persistence model for the treasuries table.
type Treasury struct {
	TreasuryID    string
	Name          string
	Type          string
	CompanyID     string
	BankName      string
	AccountNumber string
	Balance       decimal.Decimal
	IsActive      bool
	AuditFields
}

// TreasuryTransaction is the persistence model for the treasury_transactions
// table. Rows are insert-only.
type TreasuryTransaction struct {
	TransactionID         string
	TreasuryID            string
	Type                  string
	Source                string
	Amount                decimal.Decimal
	BalanceAfter          decimal.Decimal
	Description           string
	ReferenceID           string
	CounterpartTreasuryID string
	CreatedAt             time.Time
	CreatedBy             string
}
