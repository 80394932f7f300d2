package dto

import (
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateContactRequest defines the payload for creating a financial contact.
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// CreateGeneralReceiptRequest posts a deposit or withdrawal for a contact.
type CreateGeneralReceiptRequest struct {
	TreasuryID  string                    `json:"treasuryID" binding:"required"`
	Kind        domain.GeneralReceiptKind `json:"kind" binding:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount      decimal.Decimal           `json:"amount" binding:"required,decimalgtzero"`
	Description string                    `json:"description"`
}

// ContactResponse is the outward shape of a contact with derived totals.
type ContactResponse struct {
	ContactID       string          `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	IsActive        bool            `json:"isActive"`
	TotalDeposit    decimal.Decimal `json:"totalDeposit"`
	TotalWithdrawal decimal.Decimal `json:"totalWithdrawal"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// GeneralReceiptResponse is the outward shape of one general receipt.
type GeneralReceiptResponse struct {
	ReceiptID   string          `json:"id"`
	ContactID   string          `json:"contactId"`
	TreasuryID  string          `json:"treasuryId"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListGeneralReceiptsResponse is a page of a contact's receipts.
type ListGeneralReceiptsResponse struct {
	Receipts  []GeneralReceiptResponse `json:"receipts"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// ToContactResponse converts a contact and its derived totals to a DTO.
func ToContactResponse(c *domain.FinancialContact, totals *domain.ContactTotals) ContactResponse {
	resp := ContactResponse{
		ContactID: c.ContactID,
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
	if totals != nil {
		resp.TotalDeposit = totals.TotalDeposit
		resp.TotalWithdrawal = totals.TotalWithdrawal
		resp.CurrentBalance = totals.CurrentBalance
	}
	return resp
}

// ToGeneralReceiptResponse converts a domain general receipt to its DTO.
func ToGeneralReceiptResponse(r *domain.GeneralReceipt) GeneralReceiptResponse {
	return GeneralReceiptResponse{
		ReceiptID:   r.ReceiptID,
		ContactID:   r.ContactID,
		TreasuryID:  r.TreasuryID,
		Kind:        string(r.Kind),
		Amount:      r.Amount,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// ToGeneralReceiptResponses converts a slice of domain general receipts.
func ToGeneralReceiptResponses(rs []domain.GeneralReceipt) []GeneralReceiptResponse {
	responses := make([]GeneralReceiptResponse, len(rs))
	for i := range rs {
		responses[i] = ToGeneralReceiptResponse(&rs[i])
	}
	return responses
}
