package mapping

import (
	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/models"
)

func ToModelTreasury(d domain.Treasury) models.Treasury {
	return models.Treasury{
		TreasuryID:    d.TreasuryID,
		Name:          d.Name,
		Type:          string(d.Type),
		CompanyID:     d.CompanyID,
		BankName:      d.BankName,
		AccountNumber: d.AccountNumber,
		Balance:       d.Balance,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTreasury(m models.Treasury) domain.Treasury {
	return domain.Treasury{
		TreasuryID:    m.TreasuryID,
		Name:          m.Name,
		Type:          domain.TreasuryType(m.Type),
		CompanyID:     m.CompanyID,
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		Balance:       m.Balance,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelTreasuryTransaction(d domain.TreasuryTransaction) models.TreasuryTransaction {
	return models.TreasuryTransaction{
		TransactionID:         d.TransactionID,
		TreasuryID:            d.TreasuryID,
		Type:                  string(d.Type),
		Source:                string(d.Source),
		Amount:                d.Amount,
		BalanceAfter:          d.BalanceAfter,
		Description:           d.Description,
		ReferenceID:           d.ReferenceID,
		CounterpartTreasuryID: d.CounterpartTreasuryID,
		CreatedAt:             d.CreatedAt,
		CreatedBy:             d.CreatedBy,
	}
}

func ToDomainTreasuryTransaction(m models.TreasuryTransaction) domain.TreasuryTransaction {
	return domain.TreasuryTransaction{
		TransactionID:         m.TransactionID,
		TreasuryID:            m.TreasuryID,
		Type:                  domain.TransactionType(m.Type),
		Source:                domain.TransactionSource(m.Source),
		Amount:                m.Amount,
		BalanceAfter:          m.BalanceAfter,
		Description:           m.Description,
		ReferenceID:           m.ReferenceID,
		CounterpartTreasuryID: m.CounterpartTreasuryID,
		CreatedAt:             m.CreatedAt,
		CreatedBy:             m.CreatedBy,
	}
}

func ToDomainTreasuryTransactionSlice(ms []models.TreasuryTransaction) []domain.TreasuryTransaction {
	ds := make([]domain.TreasuryTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTreasuryTransaction(m)
	}
	return ds
}
