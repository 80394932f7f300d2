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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// contactService implements financial contacts and their general receipts.
type contactService struct {
	BaseService
	repo portsrepo.ContactRepositoryFacade
}

// NewContactService creates a new financial contact service.
func NewContactService(repo portsrepo.ContactRepositoryFacade) portssvc.ContactSvcFacade {
	return &contactService{repo: repo}
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

// CreateContact registers a new financial contact.
func (s *contactService) CreateContact(ctx context.Context, req dto.CreateContactRequest, actorID string) (*domain.FinancialContact, error) {
	now := time.Now()
	contact := domain.FinancialContact{
		ContactID: uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Notes:     req.Notes,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.repo.SaveContact(ctx, contact); err != nil {
		s.LogError(ctx, err, "Failed to save contact")
		return nil, err
	}

	s.LogInfo(ctx, "Contact created", "contact_id", contact.ContactID)
	return &contact, nil
}

// GetContactByID retrieves a contact together with its derived totals.
func (s *contactService) GetContactByID(ctx context.Context, contactID string) (*domain.FinancialContact, *domain.ContactTotals, error) {
	contact, err := s.repo.FindContactByID(ctx, contactID)
	if err != nil {
		return nil, nil, err
	}
	totals, err := s.repo.GetContactTotals(ctx, contactID)
	if err != nil {
		return nil, nil, err
	}
	return contact, totals, nil
}

// ListContacts lists contacts, optionally including deactivated ones.
func (s *contactService) ListContacts(ctx context.Context, includeInactive bool) ([]domain.FinancialContact, error) {
	return s.repo.ListContacts(ctx, includeInactive)
}

// DeactivateContact marks a contact inactive; history stays readable.
func (s *contactService) DeactivateContact(ctx context.Context, contactID string, actorID string) error {
	if err := s.repo.DeactivateContact(ctx, contactID, actorID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate contact", "contact_id", contactID)
		return err
	}
	s.LogInfo(ctx, "Contact deactivated", "contact_id", contactID)
	return nil
}

// CreateGeneralReceipt posts a fully settled deposit or withdrawal against
// the contact and the treasury in one atomic unit. A DEPOSIT receipt moves
// money into the treasury, a WITHDRAWAL out of it.
func (s *contactService) CreateGeneralReceipt(ctx context.Context, contactID string, req dto.CreateGeneralReceiptRequest, actorID string) (*domain.GeneralReceipt, error) {
	contact, err := s.repo.FindContactByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if !contact.IsActive {
		return nil, fmt.Errorf("%w: contact %s is inactive", apperrors.ErrConflict, contactID)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	receipt := domain.GeneralReceipt{
		ReceiptID:   uuid.NewString(),
		ContactID:   contactID,
		TreasuryID:  req.TreasuryID,
		Kind:        req.Kind,
		Amount:      req.Amount,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	txnType := domain.Deposit
	txnSource := domain.SourceReceipt
	if req.Kind == domain.GeneralWithdrawal {
		txnType = domain.Withdrawal
		txnSource = domain.SourcePayment
	}
	treasuryTxn := domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		TreasuryID:    req.TreasuryID,
		Type:          txnType,
		Source:        txnSource,
		Amount:        req.Amount,
		Description:   req.Description,
		ReferenceID:   receipt.ReceiptID,
		CreatedAt:     now,
		CreatedBy:     actorID,
	}

	saved, err := s.repo.SaveGeneralReceipt(ctx, receipt, treasuryTxn)
	if err != nil {
		s.LogError(ctx, err, "Failed to save general receipt", "contact_id", contactID)
		return nil, err
	}

	s.LogInfo(ctx, "General receipt created",
		"receipt_id", saved.ReceiptID,
		"contact_id", contactID,
		"kind", string(saved.Kind),
		"amount", saved.Amount.String(),
	)
	return saved, nil
}

// ListGeneralReceipts pages a contact's receipt history, newest first.
func (s *contactService) ListGeneralReceipts(ctx context.Context, contactID string, params dto.ListTransactionsParams) (*dto.ListGeneralReceiptsResponse, error) {
	if _, err := s.repo.FindContactByID(ctx, contactID); err != nil {
		return nil, err
	}

	receipts, nextToken, err := s.repo.ListGeneralReceipts(ctx, contactID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListGeneralReceiptsResponse{
		Receipts:  dto.ToGeneralReceiptResponses(receipts),
		NextToken: nextToken,
	}, nil
}
