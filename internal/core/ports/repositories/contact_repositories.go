package repositories

import (
	"context"
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
)

// ContactRepositoryFacade owns financial contacts and their general
// receipts. Contact totals are always derived by aggregation over the
// receipt history, never stored.
type ContactRepositoryFacade interface {
	SaveContact(ctx context.Context, contact domain.FinancialContact) error
	FindContactByID(ctx context.Context, contactID string) (*domain.FinancialContact, error)
	ListContacts(ctx context.Context, includeInactive bool) ([]domain.FinancialContact, error)
	DeactivateContact(ctx context.Context, contactID string, userID string, now time.Time) error

	// SaveGeneralReceipt inserts the receipt and applies its treasury
	// movement in one database transaction.
	SaveGeneralReceipt(ctx context.Context, receipt domain.GeneralReceipt, treasuryTxn domain.TreasuryTransaction) (*domain.GeneralReceipt, error)

	GetContactTotals(ctx context.Context, contactID string) (*domain.ContactTotals, error)
	ListGeneralReceipts(ctx context.Context, contactID string, limit int, nextToken *string) ([]domain.GeneralReceipt, *string, error)
}
