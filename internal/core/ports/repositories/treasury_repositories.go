package repositories

import (
	"context"
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TreasuryRepositoryFacade owns treasuries and their append-only transaction
// log. Every balance mutation goes through ApplyMovement (or its in-tx
// variant), which locks the treasury row, recomputes the balance and inserts
// the transaction row as one unit.
type TreasuryRepositoryFacade interface {
	// SaveTreasury inserts a treasury together with its synthetic
	// OPENING_BALANCE transaction in a single database transaction.
	SaveTreasury(ctx context.Context, treasury domain.Treasury, opening domain.TreasuryTransaction) error

	FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error)
	ListTreasuries(ctx context.Context, includeInactive bool) ([]domain.Treasury, error)
	UpdateTreasury(ctx context.Context, treasury domain.Treasury) error
	DeactivateTreasury(ctx context.Context, treasuryID string, userID string, now time.Time) error

	// ApplyMovement applies a deposit or withdrawal atomically: it locks the
	// treasury row, updates the materialized balance and inserts the
	// transaction row with BalanceAfter filled in. The returned transaction
	// carries the computed BalanceAfter.
	ApplyMovement(ctx context.Context, txn domain.TreasuryTransaction) (*domain.TreasuryTransaction, error)

	// ApplyMovementInTx is ApplyMovement running inside a caller-owned
	// transaction, used to compose treasury movements with receipt and
	// ledger writes in one atomic unit.
	ApplyMovementInTx(ctx context.Context, tx pgx.Tx, txn domain.TreasuryTransaction) (*domain.TreasuryTransaction, error)

	// SaveTransfer applies the withdrawal and deposit legs of a transfer in
	// one database transaction; on any failure neither treasury is mutated
	// and no transaction rows exist.
	SaveTransfer(ctx context.Context, out domain.TreasuryTransaction, in domain.TreasuryTransaction) (*domain.TreasuryTransaction, *domain.TreasuryTransaction, error)

	// ListTransactions pages a treasury's log newest-first with cursor tokens.
	ListTransactions(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryTransaction, *string, error)

	// FindAllTransactions returns the full log in creation order, for replay.
	FindAllTransactions(ctx context.Context, treasuryID string) ([]domain.TreasuryTransaction, error)
}
