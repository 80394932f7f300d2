package domain

import (
	"github.com/shopspring/decimal"
)

// TreasuryType classifies a money pool.
type TreasuryType string

const (
	TreasuryCompany TreasuryType = "COMPANY"
	TreasuryGeneral TreasuryType = "GENERAL"
	TreasuryBank    TreasuryType = "BANK"
)

// Treasury represents a named money pool (cash drawer, bank account) with a
// running balance in the base currency. The balance is a materialized view of
// the treasury's transaction log: it always equals the opening balance plus
// the signed sum of all transactions in creation order.
type Treasury struct {
	TreasuryID    string          `json:"treasuryID"` // Primary Key (UUID)
	Name          string          `json:"name"`
	Type          TreasuryType    `json:"type"`
	CompanyID     string          `json:"companyID"`     // Nullable owning-company reference
	BankName      string          `json:"bankName"`      // Bank metadata, only for BANK treasuries
	AccountNumber string          `json:"accountNumber"` // Bank metadata, only for BANK treasuries
	Balance       decimal.Decimal `json:"balance"`       // Base currency, signed
	IsActive      bool            `json:"isActive"`      // Soft delete flag
	AuditFields
}
