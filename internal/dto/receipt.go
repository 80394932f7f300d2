package dto

import (
	"time"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReceiptRequest defines the payload for creating a payment receipt.
// ExchangeRate is required when CurrencyCode differs from the base currency.
type CreateReceiptRequest struct {
	CounterpartyID string             `json:"counterpartyID" binding:"required"`
	PurchaseID     string             `json:"purchaseID"`
	Total          decimal.Decimal    `json:"total" binding:"required,decimalgtzero"`
	CurrencyCode   string             `json:"currencyCode"`
	ExchangeRate   *decimal.Decimal   `json:"exchangeRate"`
	OriginalAmount *decimal.Decimal   `json:"originalAmount"`
	Type           domain.ReceiptType `json:"type" binding:"required,oneof=MAIN_PURCHASE EXPENSE RETURN"`
	Notes          string             `json:"notes"`
}

// AddInstallmentRequest defines one partial settlement against a receipt.
type AddInstallmentRequest struct {
	Amount          decimal.Decimal  `json:"amount" binding:"required,decimalgtzero"`
	TreasuryID      string           `json:"treasuryID" binding:"required"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"` // This installment's own rate
	PaymentMethod   string           `json:"paymentMethod"`
	ReferenceNumber string           `json:"referenceNumber"`
	Notes           string           `json:"notes"`
}

// PayReceiptRequest settles the full remaining amount in one installment.
type PayReceiptRequest struct {
	TreasuryID      string           `json:"treasuryID" binding:"required"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"`
	PaymentMethod   string           `json:"paymentMethod"`
	ReferenceNumber string           `json:"referenceNumber"`
	Notes           string           `json:"notes"`
}

// CancelReceiptRequest carries the cancellation reason.
type CancelReceiptRequest struct {
	Reason string `json:"reason"`
}

// ListReceiptsParams filters receipt listings.
type ListReceiptsParams struct {
	CounterpartyID string  `form:"counterpartyID"`
	Status         string  `form:"status"`
	Limit          int     `form:"limit"`
	NextToken      *string `form:"nextToken"`
}

// ReceiptResponse is the outward shape of a payment receipt.
type ReceiptResponse struct {
	ReceiptID      string          `json:"id"`
	CounterpartyID string          `json:"counterpartyId"`
	PurchaseID     string          `json:"purchaseId,omitempty"`
	Total          decimal.Decimal `json:"total"`
	CurrencyCode   string          `json:"currency"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	Paid           decimal.Decimal `json:"paid"`
	Remaining      decimal.Decimal `json:"remaining"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	CancelReason   string          `json:"cancelReason,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
}

// InstallmentResponse is the outward shape of one installment.
type InstallmentResponse struct {
	InstallmentID   string          `json:"id"`
	ReceiptID       string          `json:"receiptId"`
	Amount          decimal.Decimal `json:"amount"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	TreasuryID      string          `json:"treasuryId"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ListReceiptsResponse is a page of receipts.
type ListReceiptsResponse struct {
	Receipts  []ReceiptResponse `json:"receipts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// SettlementResponse couples a persisted installment with the receipt state
// it produced.
type SettlementResponse struct {
	Receipt     ReceiptResponse     `json:"receipt"`
	Installment InstallmentResponse `json:"installment"`
}

// ToReceiptResponse converts a domain receipt to its response DTO.
func ToReceiptResponse(r *domain.PaymentReceipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:      r.ReceiptID,
		CounterpartyID: r.CounterpartyID,
		PurchaseID:     r.PurchaseID,
		Total:          r.Total,
		CurrencyCode:   r.CurrencyCode,
		ExchangeRate:   r.ExchangeRate,
		Paid:           r.Paid,
		Remaining:      r.Remaining,
		Type:           string(r.Type),
		Status:         string(r.Status),
		Notes:          r.Notes,
		CancelReason:   r.CancelReason,
		CreatedAt:      r.CreatedAt,
		PaidAt:         r.PaidAt,
	}
}

// ToInstallmentResponse converts a domain installment to its response DTO.
func ToInstallmentResponse(i *domain.PaymentInstallment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:   i.InstallmentID,
		ReceiptID:       i.ReceiptID,
		Amount:          i.Amount,
		ExchangeRate:    i.ExchangeRate,
		BaseAmount:      i.BaseAmount,
		TreasuryID:      i.TreasuryID,
		PaymentMethod:   i.PaymentMethod,
		ReferenceNumber: i.ReferenceNumber,
		CreatedAt:       i.CreatedAt,
	}
}

// ToInstallmentResponses converts a slice of domain installments.
func ToInstallmentResponses(is []domain.PaymentInstallment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(is))
	for i := range is {
		responses[i] = ToInstallmentResponse(&is[i])
	}
	return responses
}
