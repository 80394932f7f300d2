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

// treasuryService implements the treasury ledger on top of the treasury
// repository. Balance mutations never happen here directly; the service
// builds transaction records and the repository applies them atomically.
type treasuryService struct {
	BaseService
	repo      portsrepo.TreasuryRepositoryFacade
	publisher portssvc.EventPublisher
}

// NewTreasuryService creates a new treasury service.
func NewTreasuryService(repo portsrepo.TreasuryRepositoryFacade, publisher portssvc.EventPublisher) portssvc.TreasurySvcFacade {
	return &treasuryService{
		repo:      repo,
		publisher: publisher,
	}
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

// CreateTreasury creates a treasury and posts its opening balance as the
// first transaction in the log. A zero opening balance still gets an
// OPENING_BALANCE record so every log replays from its true beginning.
func (s *treasuryService) CreateTreasury(ctx context.Context, req dto.CreateTreasuryRequest, actorID string) (*domain.Treasury, error) {
	logger := s.GetLogger(ctx)

	if req.Type == domain.TreasuryCompany && req.CompanyID == "" {
		return nil, fmt.Errorf("%w: companyID is required for COMPANY treasuries", apperrors.ErrValidation)
	}
	if req.Type == domain.TreasuryBank && req.BankName == "" {
		return nil, fmt.Errorf("%w: bankName is required for BANK treasuries", apperrors.ErrValidation)
	}

	now := time.Now()
	treasury := domain.Treasury{
		TreasuryID:    uuid.NewString(),
		Name:          req.Name,
		Type:          req.Type,
		CompanyID:     req.CompanyID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Balance:       req.OpeningBalance,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	openingType := domain.Deposit
	openingAmount := req.OpeningBalance
	if req.OpeningBalance.IsNegative() {
		openingType = domain.Withdrawal
		openingAmount = req.OpeningBalance.Neg()
	}
	opening := domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		TreasuryID:    treasury.TreasuryID,
		Type:          openingType,
		Source:        domain.SourceOpeningBalance,
		Amount:        openingAmount,
		BalanceAfter:  req.OpeningBalance,
		Description:   "Opening balance",
		CreatedAt:     now,
		CreatedBy:     actorID,
	}

	if err := s.repo.SaveTreasury(ctx, treasury, opening); err != nil {
		s.LogError(ctx, err, "Failed to save treasury")
		return nil, err
	}

	logger.Info("Treasury created", "treasury_id", treasury.TreasuryID, "type", string(treasury.Type))
	return &treasury, nil
}

// GetTreasuryByID retrieves a single treasury.
func (s *treasuryService) GetTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	return s.repo.FindTreasuryByID(ctx, treasuryID)
}

// ListTreasuries lists treasuries, optionally including deactivated ones.
func (s *treasuryService) ListTreasuries(ctx context.Context, includeInactive bool) ([]domain.Treasury, error) {
	return s.repo.ListTreasuries(ctx, includeInactive)
}

// UpdateTreasury updates descriptive fields of a treasury.
func (s *treasuryService) UpdateTreasury(ctx context.Context, treasuryID string, req dto.UpdateTreasuryRequest, actorID string) (*domain.Treasury, error) {
	treasury, err := s.repo.FindTreasuryByID(ctx, treasuryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		treasury.Name = *req.Name
	}
	if req.BankName != nil {
		treasury.BankName = *req.BankName
	}
	if req.AccountNumber != nil {
		treasury.AccountNumber = *req.AccountNumber
	}
	treasury.LastUpdatedAt = time.Now()
	treasury.LastUpdatedBy = actorID

	if err := s.repo.UpdateTreasury(ctx, *treasury); err != nil {
		s.LogError(ctx, err, "Failed to update treasury", "treasury_id", treasuryID)
		return nil, err
	}
	return treasury, nil
}

// DeactivateTreasury marks a treasury inactive. Movements against it are
// rejected afterwards; its transaction log stays readable.
func (s *treasuryService) DeactivateTreasury(ctx context.Context, treasuryID string, actorID string) error {
	if err := s.repo.DeactivateTreasury(ctx, treasuryID, actorID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate treasury", "treasury_id", treasuryID)
		return err
	}
	s.LogInfo(ctx, "Treasury deactivated", "treasury_id", treasuryID)
	return nil
}

// Deposit increases a treasury's balance and appends the transaction record.
func (s *treasuryService) Deposit(ctx context.Context, treasuryID string, req dto.MovementRequest, source domain.TransactionSource, actorID string) (*domain.TreasuryTransaction, error) {
	return s.applyMovement(ctx, treasuryID, domain.Deposit, req, source, actorID)
}

// Withdraw decreases a treasury's balance. Overdrafts are allowed: the
// balance may go negative, matching how the cash desks actually operate.
func (s *treasuryService) Withdraw(ctx context.Context, treasuryID string, req dto.MovementRequest, source domain.TransactionSource, actorID string) (*domain.TreasuryTransaction, error) {
	return s.applyMovement(ctx, treasuryID, domain.Withdrawal, req, source, actorID)
}

func (s *treasuryService) applyMovement(ctx context.Context, treasuryID string, txnType domain.TransactionType, req dto.MovementRequest, source domain.TransactionSource, actorID string) (*domain.TreasuryTransaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if source == "" {
		source = domain.SourceManual
	}

	txn := domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		TreasuryID:    treasuryID,
		Type:          txnType,
		Source:        source,
		Amount:        req.Amount,
		Description:   req.Description,
		CreatedAt:     time.Now(),
		CreatedBy:     actorID,
	}

	applied, err := s.repo.ApplyMovement(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to apply treasury movement", "treasury_id", treasuryID, "type", string(txnType))
		return nil, err
	}

	s.LogInfo(ctx, "Treasury movement applied",
		"treasury_id", treasuryID,
		"type", string(txnType),
		"amount", applied.Amount.String(),
		"balance_after", applied.BalanceAfter.String(),
	)
	return applied, nil
}

// Transfer moves funds between two treasuries as one atomic unit. Both legs
// share a reference ID and point at each other through
// CounterpartTreasuryID.
func (s *treasuryService) Transfer(ctx context.Context, req dto.TransferRequest, actorID string) (*domain.TreasuryTransaction, *domain.TreasuryTransaction, error) {
	if req.FromTreasuryID == req.ToTreasuryID {
		return nil, nil, fmt.Errorf("%w: cannot transfer a treasury to itself", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	transferID := uuid.NewString()

	out := domain.TreasuryTransaction{
		TransactionID:         uuid.NewString(),
		TreasuryID:            req.FromTreasuryID,
		Type:                  domain.Withdrawal,
		Source:                domain.SourceTransferOut,
		Amount:                req.Amount,
		Description:           req.Description,
		ReferenceID:           transferID,
		CounterpartTreasuryID: req.ToTreasuryID,
		CreatedAt:             now,
		CreatedBy:             actorID,
	}
	in := domain.TreasuryTransaction{
		TransactionID:         uuid.NewString(),
		TreasuryID:            req.ToTreasuryID,
		Type:                  domain.Deposit,
		Source:                domain.SourceTransferIn,
		Amount:                req.Amount,
		Description:           req.Description,
		ReferenceID:           transferID,
		CounterpartTreasuryID: req.FromTreasuryID,
		CreatedAt:             now,
		CreatedBy:             actorID,
	}

	appliedOut, appliedIn, err := s.repo.SaveTransfer(ctx, out, in)
	if err != nil {
		s.LogError(ctx, err, "Failed to transfer",
			"from_treasury_id", req.FromTreasuryID,
			"to_treasury_id", req.ToTreasuryID,
		)
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		"transfer_id", transferID,
		"from_treasury_id", req.FromTreasuryID,
		"to_treasury_id", req.ToTreasuryID,
		"amount", req.Amount.String(),
	)
	if s.publisher != nil {
		s.publisher.TransferCompleted(ctx, *appliedOut, *appliedIn)
	}
	return appliedOut, appliedIn, nil
}

// ListTransactions pages a treasury's log newest-first.
func (s *treasuryService) ListTransactions(ctx context.Context, treasuryID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	// Verify the treasury exists so an unknown ID is a 404, not an empty page.
	if _, err := s.repo.FindTreasuryByID(ctx, treasuryID); err != nil {
		return nil, err
	}

	txns, nextToken, err := s.repo.ListTransactions(ctx, treasuryID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTreasuryTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// Reconcile replays the full transaction log and compares the computed
// balance against the stored one. A mismatch means a write bypassed the
// movement primitives and needs investigation.
func (s *treasuryService) Reconcile(ctx context.Context, treasuryID string) (*dto.ReconciliationResponse, error) {
	treasury, err := s.repo.FindTreasuryByID(ctx, treasuryID)
	if err != nil {
		return nil, err
	}

	txns, err := s.repo.FindAllTransactions(ctx, treasuryID)
	if err != nil {
		return nil, err
	}

	computed := domain.ReplayBalance(txns)
	consistent := computed.Equal(treasury.Balance)
	if !consistent {
		s.LogError(ctx, apperrors.ErrConflict, "Treasury balance diverges from transaction log",
			"treasury_id", treasuryID,
			"stored", treasury.Balance.String(),
			"computed", computed.String(),
		)
	}

	return &dto.ReconciliationResponse{
		TreasuryID:       treasuryID,
		StoredBalance:    treasury.Balance,
		ComputedBalance:  computed,
		TransactionCount: len(txns),
		Consistent:       consistent,
	}, nil
}
