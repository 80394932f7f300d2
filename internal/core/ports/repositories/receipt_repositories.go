package repositories

import (
	"context"
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
)

// ListReceiptsParams filters receipt listings.
type ListReceiptsParams struct {
	CounterpartyID string
	Status         domain.ReceiptStatus
	Limit          int
	NextToken      *string
}

// ReceiptRepositoryFacade owns payment receipts and their installments.
// SaveInstallment is the heart of the settlement engine: it executes the
// whole settle-one-installment unit (treasury withdrawal, installment
// insert, receipt recompute, ledger append) inside one database
// transaction.
type ReceiptRepositoryFacade interface {
	// SaveReceipt inserts the receipt and posts its obligation entry to the
	// counterparty's account ledger in one database transaction.
	SaveReceipt(ctx context.Context, receipt domain.PaymentReceipt, obligation domain.LedgerEntry) error

	FindReceiptByID(ctx context.Context, receiptID string) (*domain.PaymentReceipt, error)
	ListReceipts(ctx context.Context, params ListReceiptsParams) ([]domain.PaymentReceipt, *string, error)

	// SaveInstallment re-checks the receipt's status and remaining amount
	// under a row lock, withdraws the installment's base amount from the
	// treasury, inserts the installment, updates the receipt's
	// paid/remaining/status and appends the counterparty PAYMENT ledger
	// entry, all in one transaction. Returns the updated receipt and the
	// persisted installment.
	SaveInstallment(ctx context.Context, installment domain.PaymentInstallment, treasuryTxn domain.TreasuryTransaction, ledgerEntry domain.LedgerEntry) (*domain.PaymentReceipt, *domain.PaymentInstallment, error)

	// CancelReceipt flips a PENDING, unpaid receipt to CANCELLED.
	CancelReceipt(ctx context.Context, receiptID string, reason string, userID string, now time.Time) error

	ListInstallments(ctx context.Context, receiptID string) ([]domain.PaymentInstallment, error)
}
