package dto

import (
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTreasuryRequest defines the payload for creating a treasury.
type CreateTreasuryRequest struct {
	Name           string              `json:"name" binding:"required"`
	Type           domain.TreasuryType `json:"type" binding:"required,oneof=COMPANY GENERAL BANK"`
	CompanyID      string              `json:"companyID"`
	BankName       string              `json:"bankName"`
	AccountNumber  string              `json:"accountNumber"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"` // May be zero or negative (carried-over overdraft)
}

// UpdateTreasuryRequest defines the mutable treasury fields.
type UpdateTreasuryRequest struct {
	Name          *string `json:"name"`
	BankName      *string `json:"bankName"`
	AccountNumber *string `json:"accountNumber"`
}

// MovementRequest defines a manual deposit or withdrawal.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,decimalgtzero"`
	Description string          `json:"description"`
}

// TransferRequest defines a cross-treasury transfer.
type TransferRequest struct {
	FromTreasuryID string          `json:"fromTreasuryID" binding:"required"`
	ToTreasuryID   string          `json:"toTreasuryID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required,decimalgtzero"`
	Description    string          `json:"description"`
}

// ListTransactionsParams holds pagination parameters for a treasury's log.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// TreasuryResponse is the outward shape of a treasury.
type TreasuryResponse struct {
	TreasuryID    string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	CompanyID     string          `json:"companyId,omitempty"`
	BankName      string          `json:"bankName,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// TreasuryTransactionResponse is the outward shape of one log record.
type TreasuryTransactionResponse struct {
	TransactionID         string          `json:"id"`
	TreasuryID            string          `json:"treasuryId"`
	Type                  string          `json:"type"`
	Source                string          `json:"source"`
	Amount                decimal.Decimal `json:"amount"`
	BalanceAfter          decimal.Decimal `json:"balanceAfter"`
	Description           string          `json:"description,omitempty"`
	ReferenceID           string          `json:"referenceId,omitempty"`
	CounterpartTreasuryID string          `json:"counterpartTreasuryId,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// ListTransactionsResponse is a page of a treasury's log.
type ListTransactionsResponse struct {
	Transactions []TreasuryTransactionResponse `json:"transactions"`
	NextToken    *string                       `json:"nextToken,omitempty"`
}

// TransferResponse carries both legs of a completed transfer.
type TransferResponse struct {
	Out TreasuryTransactionResponse `json:"out"`
	In  TreasuryTransactionResponse `json:"in"`
}

// ReconciliationResponse reports a replay of a treasury's transaction log
// against its stored balance.
type ReconciliationResponse struct {
	TreasuryID       string          `json:"treasuryId"`
	StoredBalance    decimal.Decimal `json:"storedBalance"`
	ComputedBalance  decimal.Decimal `json:"computedBalance"`
	TransactionCount int             `json:"transactionCount"`
	Consistent       bool            `json:"consistent"`
}

// ToTreasuryResponse converts a domain.Treasury to its response DTO.
func ToTreasuryResponse(t *domain.Treasury) TreasuryResponse {
	return TreasuryResponse{
		TreasuryID:    t.TreasuryID,
		Name:          t.Name,
		Type:          string(t.Type),
		CompanyID:     t.CompanyID,
		BankName:      t.BankName,
		AccountNumber: t.AccountNumber,
		Balance:       t.Balance,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTreasuryTransactionResponse converts a domain transaction to its DTO.
func ToTreasuryTransactionResponse(txn *domain.TreasuryTransaction) TreasuryTransactionResponse {
	return TreasuryTransactionResponse{
		TransactionID:         txn.TransactionID,
		TreasuryID:            txn.TreasuryID,
		Type:                  string(txn.Type),
		Source:                string(txn.Source),
		Amount:                txn.Amount,
		BalanceAfter:          txn.BalanceAfter,
		Description:           txn.Description,
		ReferenceID:           txn.ReferenceID,
		CounterpartTreasuryID: txn.CounterpartTreasuryID,
		CreatedAt:             txn.CreatedAt,
	}
}

// ToTreasuryTransactionResponses converts a slice of domain transactions.
func ToTreasuryTransactionResponses(txns []domain.TreasuryTransaction) []TreasuryTransactionResponse {
	responses := make([]TreasuryTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTreasuryTransactionResponse(&txns[i])
	}
	return responses
}
