package models

import (
	"github.com/shopspring/decimal"
)

// FinancialContact is the persistence model for the financial_contacts table.
type FinancialContact struct {
	ContactID string
	Name      string
	Phone     string
	Notes     string
	IsActive  bool
	AuditFields
}

// GeneralReceipt is the persistence model for the general_receipts table.
type GeneralReceipt struct {
	ReceiptID   string
	ContactID   string
	TreasuryID  string
	Kind        string
	Amount      decimal.Decimal
	Description string
	AuditFields
}
