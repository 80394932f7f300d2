package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/core/domain"
	portsrepo "github.com/ceramtrade/fincore/internal/core/ports/repositories"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/ceramtrade/fincore/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// settlementService implements payment receipts and installment settlement.
// Receipts track the obligation in their original currency; each installment
// converts at its own exchange rate, so the base-currency sum across
// installments may diverge from the receipt's nominal conversion when rates
// move. That divergence is preserved, not corrected.
type settlementService struct {
	BaseService
	receiptRepo  portsrepo.ReceiptRepositoryFacade
	baseCurrency string
	publisher    portssvc.EventPublisher
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(receiptRepo portsrepo.ReceiptRepositoryFacade, baseCurrency string, publisher portssvc.EventPublisher) portssvc.SettlementSvcFacade {
	return &settlementService{
		receiptRepo:  receiptRepo,
		baseCurrency: baseCurrency,
		publisher:    publisher,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func obligationKind(t domain.ReceiptType) domain.ReferenceKind {
	if t == domain.ReceiptReturn {
		return domain.RefReturn
	}
	return domain.RefPurchase
}

// CreateReceipt records an obligation owed to a counterparty. No treasury
// movement happens; money only moves when installments settle. The
// obligation is posted to the counterparty's account ledger in the same
// transaction as the receipt insert.
func (s *settlementService) CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, actorID string) (*domain.PaymentReceipt, error) {
	if req.Total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total must be positive", apperrors.ErrValidation)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = s.baseCurrency
	}
	rate, err := money.ResolveRate(currency, s.baseCurrency, req.ExchangeRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	originalAmount := req.Total
	if req.OriginalAmount != nil {
		originalAmount = *req.OriginalAmount
	}

	receipt := domain.PaymentReceipt{
		ReceiptID:      uuid.NewString(),
		CounterpartyID: req.CounterpartyID,
		PurchaseID:     req.PurchaseID,
		Total:          req.Total,
		CurrencyCode:   currency,
		ExchangeRate:   rate,
		OriginalAmount: originalAmount,
		Paid:           decimal.Zero,
		Remaining:      req.Total,
		Type:           req.Type,
		Status:         domain.ReceiptPending,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	obligation := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		CounterpartyID:   req.CounterpartyID,
		CounterpartyRole: domain.RoleSupplier,
		Direction:        domain.EntryDebit,
		Amount:           money.ToBase(req.Total, rate),
		ReferenceKind:    obligationKind(req.Type),
		ReferenceID:      receipt.ReceiptID,
		Description:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.receiptRepo.SaveReceipt(ctx, receipt, obligation); err != nil {
		s.LogError(ctx, err, "Failed to save receipt", "counterparty_id", req.CounterpartyID)
		return nil, err
	}

	s.LogInfo(ctx, "Receipt created",
		"receipt_id", receipt.ReceiptID,
		"counterparty_id", receipt.CounterpartyID,
		"total", receipt.Total.String(),
		"currency", receipt.CurrencyCode,
	)
	return &receipt, nil
}

// GetReceiptByID retrieves a receipt.
func (s *settlementService) GetReceiptByID(ctx context.Context, receiptID string) (*domain.PaymentReceipt, error) {
	return s.receiptRepo.FindReceiptByID(ctx, receiptID)
}

// ListReceipts pages receipts newest-first.
func (s *settlementService) ListReceipts(ctx context.Context, params dto.ListReceiptsParams) (*dto.ListReceiptsResponse, error) {
	receipts, nextToken, err := s.receiptRepo.ListReceipts(ctx, portsrepo.ListReceiptsParams{
		CounterpartyID: params.CounterpartyID,
		Status:         domain.ReceiptStatus(params.Status),
		Limit:          params.Limit,
		NextToken:      params.NextToken,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = dto.ToReceiptResponse(&receipts[i])
	}
	return &dto.ListReceiptsResponse{Receipts: responses, NextToken: nextToken}, nil
}

// AddInstallment settles part of a receipt. Foreign-currency receipts need
// an exchange rate on every installment; the treasury withdrawal uses this
// installment's rate, not the receipt's nominal one.
func (s *settlementService) AddInstallment(ctx context.Context, receiptID string, req dto.AddInstallmentRequest, actorID string) (*domain.PaymentReceipt, *domain.PaymentInstallment, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, nil, err
	}

	if receipt.Status != domain.ReceiptPending {
		return nil, nil, fmt.Errorf("%w: receipt %s is %s, no further installments allowed", apperrors.ErrConflict, receiptID, receipt.Status)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: installment amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(receipt.Remaining) {
		return nil, nil, fmt.Errorf("%w: installment amount %s exceeds remaining %s", apperrors.ErrConflict, req.Amount.String(), receipt.Remaining.String())
	}

	rate, err := money.ResolveRate(receipt.CurrencyCode, s.baseCurrency, req.ExchangeRate)
	if err != nil {
		return nil, nil, err
	}
	baseAmount := money.ToBase(req.Amount, rate)

	now := time.Now()
	installment := domain.PaymentInstallment{
		InstallmentID:   uuid.NewString(),
		ReceiptID:       receiptID,
		Amount:          req.Amount,
		ExchangeRate:    rate,
		BaseAmount:      baseAmount,
		TreasuryID:      req.TreasuryID,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	treasuryTxn := domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		TreasuryID:    req.TreasuryID,
		Type:          domain.Withdrawal,
		Source:        domain.SourcePayment,
		Amount:        baseAmount,
		Description:   "Installment for receipt " + receiptID,
		ReferenceID:   installment.InstallmentID,
		CreatedAt:     now,
		CreatedBy:     actorID,
	}

	ledgerEntry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		CounterpartyID:   receipt.CounterpartyID,
		CounterpartyRole: domain.RoleSupplier,
		Direction:        domain.EntryCredit,
		Amount:           baseAmount,
		ReferenceKind:    domain.RefPayment,
		ReferenceID:      installment.InstallmentID,
		Description:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	updatedReceipt, savedInstallment, err := s.receiptRepo.SaveInstallment(ctx, installment, treasuryTxn, ledgerEntry)
	if err != nil {
		s.LogError(ctx, err, "Failed to settle installment", "receipt_id", receiptID)
		return nil, nil, err
	}

	s.LogInfo(ctx, "Installment settled",
		"receipt_id", receiptID,
		"installment_id", savedInstallment.InstallmentID,
		"amount", savedInstallment.Amount.String(),
		"base_amount", savedInstallment.BaseAmount.String(),
		"remaining", updatedReceipt.Remaining.String(),
	)

	if updatedReceipt.Status == domain.ReceiptPaid && s.publisher != nil {
		s.publisher.ReceiptPaid(ctx, *updatedReceipt)
	}
	return updatedReceipt, savedInstallment, nil
}

// PayReceipt settles the full remaining amount as one installment.
func (s *settlementService) PayReceipt(ctx context.Context, receiptID string, req dto.PayReceiptRequest, actorID string) (*domain.PaymentReceipt, *domain.PaymentInstallment, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, nil, err
	}
	if receipt.Status != domain.ReceiptPending {
		return nil, nil, fmt.Errorf("%w: receipt %s is %s, cannot be paid", apperrors.ErrConflict, receiptID, receipt.Status)
	}

	return s.AddInstallment(ctx, receiptID, dto.AddInstallmentRequest{
		Amount:          receipt.Remaining,
		TreasuryID:      req.TreasuryID,
		ExchangeRate:    req.ExchangeRate,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}, actorID)
}

// CancelReceipt cancels a PENDING receipt with no recorded payments.
// Partially settled receipts cannot be cancelled; the money already moved.
func (s *settlementService) CancelReceipt(ctx context.Context, receiptID string, reason string, actorID string) error {
	if err := s.receiptRepo.CancelReceipt(ctx, receiptID, reason, actorID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel receipt", "receipt_id", receiptID)
		return err
	}
	s.LogInfo(ctx, "Receipt cancelled", "receipt_id", receiptID, "reason", reason)
	return nil
}

// ListInstallments returns a receipt's installments in settlement order.
func (s *settlementService) ListInstallments(ctx context.Context, receiptID string) ([]domain.PaymentInstallment, error) {
	if _, err := s.receiptRepo.FindReceiptByID(ctx, receiptID); err != nil {
		return nil, err
	}
	return s.receiptRepo.ListInstallments(ctx, receiptID)
}
