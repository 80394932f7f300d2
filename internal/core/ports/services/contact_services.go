package services

import (
	"context"

	"github.com/ceramtrade/fincore/internal/core/domain"
	"github.com/ceramtrade/fincore/internal/dto"
)

// ContactSvcFacade exposes financial contacts and their general receipts.
type ContactSvcFacade interface {
	CreateContact(ctx context.Context, req dto.CreateContactRequest, actorID string) (*domain.FinancialContact, error)
	GetContactByID(ctx context.Context, contactID string) (*domain.FinancialContact, *domain.ContactTotals, error)
	ListContacts(ctx context.Context, includeInactive bool) ([]domain.FinancialContact, error)
	DeactivateContact(ctx context.Context, contactID string, actorID string) error

	// CreateGeneralReceipt posts a fully settled deposit or withdrawal
	// against the contact and the treasury in one atomic unit.
	CreateGeneralReceipt(ctx context.Context, contactID string, req dto.CreateGeneralReceiptRequest, actorID string) (*domain.GeneralReceipt, error)

	ListGeneralReceipts(ctx context.Context, contactID string, params dto.ListTransactionsParams) (*dto.ListGeneralReceiptsResponse, error)
}
