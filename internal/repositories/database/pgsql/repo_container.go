package pgsql

import (
	portsrepo "github.com/ceramtrade/fincore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	treasuryRepo := newPgxTreasuryRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	receiptRepo := newPgxReceiptRepository(dbPool, treasuryRepo, ledgerRepo)
	contactRepo := newPgxContactRepository(dbPool, treasuryRepo)

	return portsrepo.RepositoryProvider{
		TreasuryRepo: treasuryRepo,
		ReceiptRepo:  receiptRepo,
		LedgerRepo:   ledgerRepo,
		ContactRepo:  contactRepo,
	}
}
