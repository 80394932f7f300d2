package repositories

import (
	"context"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepositoryFacade owns the per-counterparty running-balance ledgers.
// Appends serialize per counterparty so the stored balances form an exact
// prefix-sum sequence over the entry log.
type LedgerRepositoryFacade interface {
	// AppendEntry computes the new running balance from the counterparty's
	// latest entry and persists the row, serialized per counterparty.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)

	// AppendEntryInTx is AppendEntry inside a caller-owned transaction, used
	// by receipt creation and installment settlement.
	AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error)

	// GetLastBalance returns the latest entry's stored balance, or zero when
	// the counterparty has no entries.
	GetLastBalance(ctx context.Context, counterpartyID string) (decimal.Decimal, error)

	// ListEntries pages a counterparty's statement oldest-first with cursor
	// tokens, restartable from any page.
	ListEntries(ctx context.Context, counterpartyID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// SummarizeAll aggregates debit/credit/balance per counterparty for the
	// given role.
	SummarizeAll(ctx context.Context, role domain.CounterpartyRole) ([]domain.LedgerSummary, error)
}
