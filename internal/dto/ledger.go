package dto

import (
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AppendEntryRequest posts a manual entry (usually an adjustment) to a
// counterparty's account ledger.
type AppendEntryRequest struct {
	CounterpartyID   string                  `json:"counterpartyID" binding:"required"`
	CounterpartyRole domain.CounterpartyRole `json:"counterpartyRole" binding:"required,oneof=SUPPLIER CUSTOMER"`
	Direction        domain.EntryDirection   `json:"direction" binding:"required,oneof=DEBIT CREDIT"`
	Amount           decimal.Decimal         `json:"amount" binding:"required,decimalgtzero"`
	ReferenceKind    domain.ReferenceKind    `json:"referenceKind" binding:"required,oneof=SALE PURCHASE PAYMENT ADJUSTMENT RETURN"`
	ReferenceID      string                  `json:"referenceID"`
	Description      string                  `json:"description"`
}

// StatementParams holds pagination parameters for a ledger statement.
type StatementParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse is the outward shape of one ledger posting.
type LedgerEntryResponse struct {
	EntryID        string          `json:"id"`
	CounterpartyID string          `json:"counterpartyId"`
	Direction      string          `json:"direction"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
	ReferenceKind  string          `json:"referenceKind"`
	ReferenceID    string          `json:"referenceId,omitempty"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// StatementResponse is a page of a counterparty's running account.
type StatementResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// BalanceResponse carries a counterparty's current balance.
type BalanceResponse struct {
	CounterpartyID string          `json:"counterpartyId"`
	Balance        decimal.Decimal `json:"balance"`
}

// LedgerSummaryResponse is one aggregated dashboard row.
type LedgerSummaryResponse struct {
	CounterpartyID string          `json:"counterpartyId"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	Balance        decimal.Decimal `json:"balance"`
	EntryCount     int64           `json:"entryCount"`
}

// ToLedgerEntryResponse converts a domain ledger entry to its DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:        e.EntryID,
		CounterpartyID: e.CounterpartyID,
		Direction:      string(e.Direction),
		Amount:         e.Amount,
		Balance:        e.Balance,
		ReferenceKind:  string(e.ReferenceKind),
		ReferenceID:    e.ReferenceID,
		Description:    e.Description,
		CreatedAt:      e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain ledger entries.
func ToLedgerEntryResponses(es []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(es))
	for i := range es {
		responses[i] = ToLedgerEntryResponse(&es[i])
	}
	return responses
}

// ToLedgerSummaryResponses converts domain summaries to DTOs.
func ToLedgerSummaryResponses(ss []domain.LedgerSummary) []LedgerSummaryResponse {
	responses := make([]LedgerSummaryResponse, len(ss))
	for i, s := range ss {
		responses[i] = LedgerSummaryResponse{
			CounterpartyID: s.CounterpartyID,
			TotalDebit:     s.TotalDebit,
			TotalCredit:    s.TotalCredit,
			Balance:        s.Balance,
			EntryCount:     s.EntryCount,
		}
	}
	return responses
}
