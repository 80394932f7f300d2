package domain

import (
	"github.com/shopspring/decimal"
)

// CounterpartyRole distinguishes supplier and customer account ledgers.
type CounterpartyRole string

const (
	RoleSupplier CounterpartyRole = "SUPPLIER"
	RoleCustomer CounterpartyRole = "CUSTOMER"
)

// EntryDirection is the posting direction of a ledger entry.
// DEBIT increases the counterparty's outstanding balance (what a customer
// owes us, or what we owe a supplier); CREDIT decreases it.
type EntryDirection string

const (
	EntryDebit  EntryDirection = "DEBIT"
	EntryCredit EntryDirection = "CREDIT"
)

// ReferenceKind names the source document of a ledger entry.
type ReferenceKind string

const (
	RefSale       ReferenceKind = "SALE"
	RefPurchase   ReferenceKind = "PURCHASE"
	RefPayment    ReferenceKind = "PAYMENT"
	RefAdjustment ReferenceKind = "ADJUSTMENT"
	RefReturn     ReferenceKind = "RETURN"
)

// LedgerEntry is one posting in a counterparty's running account.
// Entries for one counterparty form an append-only prefix-sum sequence:
// each entry's stored Balance equals the previous entry's Balance plus or
// minus its Amount per Direction. Entries are never mutated or deleted;
// corrections are new ADJUSTMENT entries.
type LedgerEntry struct {
	EntryID          string           `json:"entryID"` // Primary Key (UUID)
	CounterpartyID   string           `json:"counterpartyID"`
	CounterpartyRole CounterpartyRole `json:"counterpartyRole"`
	Direction        EntryDirection   `json:"direction"`
	Amount           decimal.Decimal  `json:"amount"`  // Positive
	Balance          decimal.Decimal  `json:"balance"` // Running balance after this entry
	ReferenceKind    ReferenceKind    `json:"referenceKind"`
	ReferenceID      string           `json:"referenceID"`
	Description      string           `json:"description"`
	AuditFields
}

// SignedAmount returns the amount with the sign it contributes to the
// counterparty's running balance.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == EntryCredit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// LedgerSummary aggregates one counterparty's ledger for dashboard listings.
type LedgerSummary struct {
	CounterpartyID   string           `json:"counterpartyID"`
	CounterpartyRole CounterpartyRole `json:"counterpartyRole"`
	TotalDebit       decimal.Decimal  `json:"totalDebit"`
	TotalCredit      decimal.Decimal  `json:"totalCredit"`
	Balance          decimal.Decimal  `json:"balance"`
	EntryCount       int64            `json:"entryCount"`
}
