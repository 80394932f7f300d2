package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentReceipt is the persistence model for the payment_receipts table.
type PaymentReceipt struct {
	ReceiptID      string
	CounterpartyID string
	PurchaseID     string
	Total          decimal.Decimal
	CurrencyCode   string
	ExchangeRate   decimal.Decimal
	OriginalAmount decimal.Decimal
	Paid           decimal.Decimal
	Remaining      decimal.Decimal
	Type           string
	Status         string
	Notes          string
	CancelReason   string
	PaidAt         *time.Time
	AuditFields
}

// PaymentInstallment is the persistence model for the payment_installments table.
type PaymentInstallment struct {
	InstallmentID   string
	ReceiptID       string
	Amount          decimal.Decimal
	ExchangeRate    decimal.Decimal
	BaseAmount      decimal.Decimal
	TreasuryID      string
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
	AuditFields
}
