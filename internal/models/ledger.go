package models

import (
	"github.com/shopspring/decimal"
)

// LedgerEntry is the persistence model for the account_ledger_entries table.
// Rows are insert-only; corrections arrive as new ADJUSTMENT rows.
type LedgerEntry struct {
	EntryID          string
	CounterpartyID   string
	CounterpartyRole string
	Direction        string
	Amount           decimal.Decimal
	Balance          decimal.Decimal
	ReferenceKind    string
	ReferenceID      string
	Description      string
	AuditFields
}
