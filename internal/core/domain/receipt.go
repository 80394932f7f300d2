package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptType categorizes what a payment receipt settles.
type ReceiptType string

const (
	ReceiptMainPurchase ReceiptType = "MAIN_PURCHASE"
	ReceiptExpense      ReceiptType = "EXPENSE"
	ReceiptReturn       ReceiptType = "RETURN"
)

// ReceiptStatus is the settlement state of a payment receipt.
type ReceiptStatus string

const (
	ReceiptPending   ReceiptStatus = "PENDING"
	ReceiptPaid      ReceiptStatus = "PAID"
	ReceiptCancelled ReceiptStatus = "CANCELLED"
)

// PaymentReceipt is an obligation owed to a counterparty, denominated in its
// original currency and settled over time by installments.
// Invariants: Paid + Remaining == Total after every installment; Status is
// PAID iff Remaining is zero; CANCELLED receipts accept no installments.
type PaymentReceipt struct {
	ReceiptID      string          `json:"receiptID"` // Primary Key (UUID)
	CounterpartyID string          `json:"counterpartyID"`
	PurchaseID     string          `json:"purchaseID"` // Nullable linked purchase document
	Total          decimal.Decimal `json:"total"`      // Original currency
	CurrencyCode   string          `json:"currencyCode"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`   // Nominal rate at creation; required when currency != base
	OriginalAmount decimal.Decimal `json:"originalAmount"` // Optional original-currency figure distinct from Total
	Paid           decimal.Decimal `json:"paid"`           // Derived, original currency
	Remaining      decimal.Decimal `json:"remaining"`      // Derived = Total - Paid
	Type           ReceiptType     `json:"type"`
	Status         ReceiptStatus   `json:"status"`
	Notes          string          `json:"notes"`
	CancelReason   string          `json:"cancelReason"`
	PaidAt         *time.Time      `json:"paidAt"`
	AuditFields
}

// PaymentInstallment is one partial settlement event against a receipt.
// BaseAmount is converted at the installment's own exchange rate, which may
// differ from the receipt's nominal rate; the base-currency total withdrawn
// across installments can therefore diverge from Total * ExchangeRate when
// rates move between installments. That divergence is intentional.
type PaymentInstallment struct {
	InstallmentID   string          `json:"installmentID"` // Primary Key (UUID)
	ReceiptID       string          `json:"receiptID"`
	Amount          decimal.Decimal `json:"amount"`       // Receipt's original currency
	ExchangeRate    decimal.Decimal `json:"exchangeRate"` // Rate used for this installment
	BaseAmount      decimal.Decimal `json:"baseAmount"`   // Amount * ExchangeRate, what the treasury moved
	TreasuryID      string          `json:"treasuryID"`   // Where funds were drawn from
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes"`
	AuditFields
}
