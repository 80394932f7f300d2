package services

// ServiceContainer holds the service facades the handler layer depends on.
type ServiceContainer struct {
	Treasury   TreasurySvcFacade
	Settlement SettlementSvcFacade
	Ledger     LedgerSvcFacade
	Contact    ContactSvcFacade
}
