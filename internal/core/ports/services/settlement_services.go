package services

import (
	"context"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/dto"
)

// SettlementSvcFacade exposes payment receipts and installment settlement.
type SettlementSvcFacade interface {
	// CreateReceipt records the obligation; no treasury movement happens.
	CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, actorID string) (*domain.PaymentReceipt, error)

	GetReceiptByID(ctx context.Context, receiptID string) (*domain.PaymentReceipt, error)
	ListReceipts(ctx context.Context, params dto.ListReceiptsParams) (*dto.ListReceiptsResponse, error)

	// AddInstallment settles part of the receipt: treasury withdrawal,
	// installment row, receipt recompute and counterparty ledger entry as
	// one atomic unit. Returns the updated receipt and the installment.
	AddInstallment(ctx context.Context, receiptID string, req dto.AddInstallmentRequest, actorID string) (*domain.PaymentReceipt, *domain.PaymentInstallment, error)

	// PayReceipt settles the full remaining amount as a single installment.
	PayReceipt(ctx context.Context, receiptID string, req dto.PayReceiptRequest, actorID string) (*domain.PaymentReceipt, *domain.PaymentInstallment, error)

	// CancelReceipt is only legal while the receipt is PENDING with no
	// installments posted.
	CancelReceipt(ctx context.Context, receiptID string, reason string, actorID string) error

	ListInstallments(ctx context.Context, receiptID string) ([]domain.PaymentInstallment, error)
}

// EventPublisher receives notifications about completed settlement actions.
// Consumers outside this core (sales, purchasing, presentation) subscribe
// through an implementation of this port.
type EventPublisher interface {
	ReceiptPaid(ctx context.Context, receipt domain.PaymentReceipt)
	TransferCompleted(ctx context.Context, out domain.TreasuryTransaction, in domain.TreasuryTransaction)
}
