package mapping

import (
	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/models"
)

func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:          d.EntryID,
		CounterpartyID:   d.CounterpartyID,
		CounterpartyRole: string(d.CounterpartyRole),
		Direction:        string(d.Direction),
		Amount:           d.Amount,
		Balance:          d.Balance,
		ReferenceKind:    string(d.ReferenceKind),
		ReferenceID:      d.ReferenceID,
		Description:      d.Description,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:          m.EntryID,
		CounterpartyID:   m.CounterpartyID,
		CounterpartyRole: domain.CounterpartyRole(m.CounterpartyRole),
		Direction:        domain.EntryDirection(m.Direction),
		Amount:           m.Amount,
		Balance:          m.Balance,
		ReferenceKind:    domain.ReferenceKind(m.ReferenceKind),
		ReferenceID:      m.ReferenceID,
		Description:      m.Description,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
