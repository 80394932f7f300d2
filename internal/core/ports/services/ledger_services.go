package services

import (
	"context"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade exposes the supplier/customer running-balance ledgers.
type LedgerSvcFacade interface {
	AppendEntry(ctx context.Context, req dto.AppendEntryRequest, actorID string) (*domain.LedgerEntry, error)
	GetBalance(ctx context.Context, counterpartyID string) (decimal.Decimal, error)
	GetStatement(ctx context.Context, counterpartyID string, params dto.StatementParams) (*dto.StatementResponse, error)
	GetSummaryForAll(ctx context.Context, role domain.CounterpartyRole) ([]domain.LedgerSummary, error)
}
