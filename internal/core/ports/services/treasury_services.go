package services

import (
	"context"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/dto"
)

// TreasurySvcFacade exposes treasury ledger operations: account lifecycle,
// the deposit/withdraw primitives, transfers and log access.
type TreasurySvcFacade interface {
	CreateTreasury(ctx context.Context, req dto.CreateTreasuryRequest, actorID string) (*domain.Treasury, error)
	GetTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error)
	ListTreasuries(ctx context.Context, includeInactive bool) ([]domain.Treasury, error)
	UpdateTreasury(ctx context.Context, treasuryID string, req dto.UpdateTreasuryRequest, actorID string) (*domain.Treasury, error)
	DeactivateTreasury(ctx context.Context, treasuryID string, actorID string) error

	// Deposit and Withdraw are the only legal way to change a balance.
	Deposit(ctx context.Context, treasuryID string, req dto.MovementRequest, source domain.TransactionSource, actorID string) (*domain.TreasuryTransaction, error)
	Withdraw(ctx context.Context, treasuryID string, req dto.MovementRequest, source domain.TransactionSource, actorID string) (*domain.TreasuryTransaction, error)

	// Transfer moves funds between two treasuries as one atomic unit and
	// returns the withdrawal and deposit legs.
	Transfer(ctx context.Context, req dto.TransferRequest, actorID string) (*domain.TreasuryTransaction, *domain.TreasuryTransaction, error)

	ListTransactions(ctx context.Context, treasuryID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// Reconcile replays the treasury's full transaction log and compares the
	// computed balance against the stored one.
	Reconcile(ctx context.Context, treasuryID string) (*dto.ReconciliationResponse, error)
}
