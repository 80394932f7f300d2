package services

import (
	portsrepo "github.com/ceramtrade/fincore/internal/core/ports/repositories"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Treasury = NewTreasuryService(repos.TreasuryRepo, publisher)
	container.Settlement = NewSettlementService(repos.ReceiptRepo, cfg.BaseCurrency, publisher)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Contact = NewContactService(repos.ContactRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TreasurySvcFacade   = (*treasuryService)(nil)
	_ portssvc.SettlementSvcFacade = (*settlementService)(nil)
	_ portssvc.LedgerSvcFacade     = (*ledgerService)(nil)
	_ portssvc.ContactSvcFacade    = (*contactService)(nil)
)
