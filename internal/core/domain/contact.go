package domain

import (
	"github.com/shopspring/decimal"
)

// FinancialContact is an ad-hoc external party that is neither a supplier
// nor a customer, tracked through deposit/withdrawal receipts posted
// directly against a treasury.
type FinancialContact struct {
	ContactID string `json:"contactID"` // Primary Key (UUID)
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}

// ContactTotals are derived from the contact's general receipt history,
// never stored.
type ContactTotals struct {
	TotalDeposit    decimal.Decimal `json:"totalDeposit"`
	TotalWithdrawal decimal.Decimal `json:"totalWithdrawal"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"` // TotalDeposit - TotalWithdrawal
}

// GeneralReceiptKind is the direction of a general receipt.
type GeneralReceiptKind string

const (
	GeneralDeposit    GeneralReceiptKind = "DEPOSIT"
	GeneralWithdrawal GeneralReceiptKind = "WITHDRAWAL"
)

// GeneralReceipt is a deposit or withdrawal posted against a financial
// contact and a treasury simultaneously. Structurally a receipt and its
// single settling installment fused into one event: fully settled at
// creation, no partial state.
type GeneralReceipt struct {
	ReceiptID   string             `json:"receiptID"` // Primary Key (UUID)
	ContactID   string             `json:"contactID"`
	TreasuryID  string             `json:"treasuryID"`
	Kind        GeneralReceiptKind `json:"kind"`
	Amount      decimal.Decimal    `json:"amount"` // Base currency, positive
	Description string             `json:"description"`
	AuditFields
}
