package mapping

import (
	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/models"
)

func ToModelPaymentReceipt(d domain.PaymentReceipt) models.PaymentReceipt {
	return models.PaymentReceipt{
		ReceiptID:      d.ReceiptID,
		CounterpartyID: d.CounterpartyID,
		PurchaseID:     d.PurchaseID,
		Total:          d.Total,
		CurrencyCode:   d.CurrencyCode,
		ExchangeRate:   d.ExchangeRate,
		OriginalAmount: d.OriginalAmount,
		Paid:           d.Paid,
		Remaining:      d.Remaining,
		Type:           string(d.Type),
		Status:         string(d.Status),
		Notes:          d.Notes,
		CancelReason:   d.CancelReason,
		PaidAt:         d.PaidAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainPaymentReceipt(m models.PaymentReceipt) domain.PaymentReceipt {
	return domain.PaymentReceipt{
		ReceiptID:      m.ReceiptID,
		CounterpartyID: m.CounterpartyID,
		PurchaseID:     m.PurchaseID,
		Total:          m.Total,
		CurrencyCode:   m.CurrencyCode,
		ExchangeRate:   m.ExchangeRate,
		OriginalAmount: m.OriginalAmount,
		Paid:           m.Paid,
		Remaining:      m.Remaining,
		Type:           domain.ReceiptType(m.Type),
		Status:         domain.ReceiptStatus(m.Status),
		Notes:          m.Notes,
		CancelReason:   m.CancelReason,
		PaidAt:         m.PaidAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelPaymentInstallment(d domain.PaymentInstallment) models.PaymentInstallment {
	return models.PaymentInstallment{
		InstallmentID:   d.InstallmentID,
		ReceiptID:       d.ReceiptID,
		Amount:          d.Amount,
		ExchangeRate:    d.ExchangeRate,
		BaseAmount:      d.BaseAmount,
		TreasuryID:      d.TreasuryID,
		PaymentMethod:   d.PaymentMethod,
		ReferenceNumber: d.ReferenceNumber,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainPaymentInstallment(m models.PaymentInstallment) domain.PaymentInstallment {
	return domain.PaymentInstallment{
		InstallmentID:   m.InstallmentID,
		ReceiptID:       m.ReceiptID,
		Amount:          m.Amount,
		ExchangeRate:    m.ExchangeRate,
		BaseAmount:      m.BaseAmount,
		TreasuryID:      m.TreasuryID,
		PaymentMethod:   m.PaymentMethod,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainPaymentInstallmentSlice(ms []models.PaymentInstallment) []domain.PaymentInstallment {
	ds := make([]domain.PaymentInstallment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentInstallment(m)
	}
	return ds
}
