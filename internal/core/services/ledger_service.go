package services

import (
	"context"
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
	portsrepo "github.com/ceramtrade/fincore/internal/core/ports/repositories"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService implements the supplier/customer account ledgers. The
// settlement service posts its entries through the receipt repository; this
// service covers direct appends (sales, adjustments) and all reads.
type ledgerService struct {
	BaseService
	repo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new account ledger service.
func NewLedgerService(repo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{repo: repo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// AppendEntry posts one entry to a counterparty's running account. The
// repository computes the new running balance under a per-counterparty lock.
func (s *ledgerService) AppendEntry(ctx context.Context, req dto.AppendEntryRequest, actorID string) (*domain.LedgerEntry, error) {
	now := time.Now()
	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		CounterpartyID:   req.CounterpartyID,
		CounterpartyRole: req.CounterpartyRole,
		Direction:        req.Direction,
		Amount:           req.Amount,
		ReferenceKind:    req.ReferenceKind,
		ReferenceID:      req.ReferenceID,
		Description:      req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	appended, err := s.repo.AppendEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to append ledger entry", "counterparty_id", req.CounterpartyID)
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry appended",
		"counterparty_id", appended.CounterpartyID,
		"direction", string(appended.Direction),
		"amount", appended.Amount.String(),
		"balance", appended.Balance.String(),
	)
	return appended, nil
}

// GetBalance returns a counterparty's current running balance, zero when the
// counterparty has no history.
func (s *ledgerService) GetBalance(ctx context.Context, counterpartyID string) (decimal.Decimal, error) {
	return s.repo.GetLastBalance(ctx, counterpartyID)
}

// GetStatement pages a counterparty's statement oldest-first.
func (s *ledgerService) GetStatement(ctx context.Context, counterpartyID string, params dto.StatementParams) (*dto.StatementResponse, error) {
	entries, nextToken, err := s.repo.ListEntries(ctx, counterpartyID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.StatementResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// GetSummaryForAll aggregates every counterparty ledger for the given role.
func (s *ledgerService) GetSummaryForAll(ctx context.Context, role domain.CounterpartyRole) ([]domain.LedgerSummary, error) {
	return s.repo.SummarizeAll(ctx, role)
}
