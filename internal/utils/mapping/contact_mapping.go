package mapping

import (
	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/models"
)

func ToModelFinancialContact(d domain.FinancialContact) models.FinancialContact {
	return models.FinancialContact{
		ContactID:   d.ContactID,
		Name:        d.Name,
		Phone:       d.Phone,
		Notes:       d.Notes,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainFinancialContact(m models.FinancialContact) domain.FinancialContact {
	return domain.FinancialContact{
		ContactID:   m.ContactID,
		Name:        m.Name,
		Phone:       m.Phone,
		Notes:       m.Notes,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelGeneralReceipt(d domain.GeneralReceipt) models.GeneralReceipt {
	return models.GeneralReceipt{
		ReceiptID:   d.ReceiptID,
		ContactID:   d.ContactID,
		TreasuryID:  d.TreasuryID,
		Kind:        string(d.Kind),
		Amount:      d.Amount,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainGeneralReceipt(m models.GeneralReceipt) domain.GeneralReceipt {
	return domain.GeneralReceipt{
		ReceiptID:   m.ReceiptID,
		ContactID:   m.ContactID,
		TreasuryID:  m.TreasuryID,
		Kind:        domain.GeneralReceiptKind(m.Kind),
		Amount:      m.Amount,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainGeneralReceiptSlice(ms []models.GeneralReceipt) []domain.GeneralReceipt {
	ds := make([]domain.GeneralReceipt, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGeneralReceipt(m)
	}
	return ds
}
