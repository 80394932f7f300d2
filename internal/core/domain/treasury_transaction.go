package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a treasury transaction.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// TransactionSource tags the business action that produced a transaction.
type TransactionSource string

const (
	SourceReceipt        TransactionSource = "RECEIPT"
	SourcePayment        TransactionSource = "PAYMENT"
	SourceManual         TransactionSource = "MANUAL"
	SourceTransferIn     TransactionSource = "TRANSFER_IN"
	SourceTransferOut    TransactionSource = "TRANSFER_OUT"
	SourceOpeningBalance TransactionSource = "OPENING_BALANCE"
)

// TreasuryTransaction is one append-only audit record in a treasury's log.
// Immutable once created. BalanceAfter snapshots the treasury balance
// immediately after this transaction was applied, so replaying the ordered
// log reconstructs the current balance exactly.
type TreasuryTransaction struct {
	TransactionID         string            `json:"transactionID"` // Primary Key (UUID)
	TreasuryID            string            `json:"treasuryID"`
	Type                  TransactionType   `json:"type"`
	Source                TransactionSource `json:"source"`
	Amount                decimal.Decimal   `json:"amount"` // Unsigned, base currency
	BalanceAfter          decimal.Decimal   `json:"balanceAfter"`
	Description           string            `json:"description"`
	ReferenceID           string            `json:"referenceID"`           // Originating receipt/installment/transfer, if any
	CounterpartTreasuryID string            `json:"counterpartTreasuryID"` // Other leg of a transfer, if any
	CreatedAt             time.Time         `json:"createdAt"`
	CreatedBy             string            `json:"createdBy"`
}

// SignedAmount returns the amount with the sign it contributes to the
// treasury balance: deposits positive, withdrawals negative.
func (t TreasuryTransaction) SignedAmount() decimal.Decimal {
	if t.Type == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ReplayBalance recomputes a balance by applying transactions in order on top
// of zero. The transactions must be the treasury's full log in creation
// order, opening balance included.
func ReplayBalance(transactions []TreasuryTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, txn := range transactions {
		balance = balance.Add(txn.SignedAmount())
	}
	return balance
}
