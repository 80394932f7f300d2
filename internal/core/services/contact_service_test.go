package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/core/domain"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/core/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockContactRepository is a mock type for the ContactRepositoryFacade interface
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) SaveContact(ctx context.Context, contact domain.FinancialContact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) FindContactByID(ctx context.Context, contactID string) (*domain.FinancialContact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialContact), args.Error(1)
}

func (m *MockContactRepository) ListContacts(ctx context.Context, includeInactive bool) ([]domain.FinancialContact, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialContact), args.Error(1)
}

func (m *MockContactRepository) DeactivateContact(ctx context.Context, contactID string, userID string, now time.Time) error {
	args := m.Called(ctx, contactID, userID, now)
	return args.Error(0)
}

func (m *MockContactRepository) SaveGeneralReceipt(ctx context.Context, receipt domain.GeneralReceipt, treasuryTxn domain.TreasuryTransaction) (*domain.GeneralReceipt, error) {
	args := m.Called(ctx, receipt, treasuryTxn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralReceipt), args.Error(1)
}

func (m *MockContactRepository) GetContactTotals(ctx context.Context, contactID string) (*domain.ContactTotals, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactTotals), args.Error(1)
}

func (m *MockContactRepository) ListGeneralReceipts(ctx context.Context, contactID string, limit int, nextToken *string) ([]domain.GeneralReceipt, *string, error) {
	args := m.Called(ctx, contactID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.GeneralReceipt), token, args.Error(2)
}

// --- Test Suite Setup ---

type ContactServiceTestSuite struct {
	suite.Suite
	mockRepo *MockContactRepository
	service  portssvc.ContactSvcFacade
}

func (suite *ContactServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockContactRepository)
	suite.service = services.NewContactService(suite.mockRepo)
}

func activeContact() *domain.FinancialContact {
	return &domain.FinancialContact{
		ContactID: uuid.NewString(),
		Name:      "Haulage Partner",
		IsActive:  true,
	}
}

// --- Test Cases ---

func (suite *ContactServiceTestSuite) TestCreateContact_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	req := dto.CreateContactRequest{Name: "Port Agent", Phone: "0912345678"}

	suite.mockRepo.On("SaveContact", ctx, mock.MatchedBy(func(c domain.FinancialContact) bool {
		return c.Name == req.Name && c.IsActive && c.CreatedBy == actorID
	})).Return(nil).Once()

	contact, err := suite.service.CreateContact(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(contact)
	suite.NotEmpty(contact.ContactID)
	suite.True(contact.IsActive)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ContactServiceTestSuite) TestGetContactByID_WithTotals() {
	ctx := context.Background()
	contact := activeContact()
	totals := &domain.ContactTotals{
		TotalDeposit:    decimal.NewFromInt(3000),
		TotalWithdrawal: decimal.NewFromInt(1200),
		CurrentBalance:  decimal.NewFromInt(1800),
	}

	suite.mockRepo.On("FindContactByID", ctx, contact.ContactID).Return(contact, nil).Once()
	suite.mockRepo.On("GetContactTotals", ctx, contact.ContactID).Return(totals, nil).Once()

	found, foundTotals, err := suite.service.GetContactByID(ctx, contact.ContactID)

	suite.Require().NoError(err)
	suite.Equal(contact, found)
	suite.True(foundTotals.CurrentBalance.Equal(foundTotals.TotalDeposit.Sub(foundTotals.TotalWithdrawal)))
}

func (suite *ContactServiceTestSuite) TestGetContactByID_NotFound() {
	ctx := context.Background()
	contactID := uuid.NewString()

	suite.mockRepo.On("FindContactByID", ctx, contactID).Return(nil, apperrors.ErrNotFound).Once()

	found, totals, err := suite.service.GetContactByID(ctx, contactID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.Nil(totals)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetContactTotals", mock.Anything, mock.Anything)
}

func (suite *ContactServiceTestSuite) TestCreateGeneralReceipt_DepositMovesTreasuryIn() {
	ctx := context.Background()
	contact := activeContact()
	treasuryID := uuid.NewString()
	actorID := uuid.NewString()
	req := dto.CreateGeneralReceiptRequest{
		TreasuryID: treasuryID,
		Kind:       domain.GeneralDeposit,
		Amount:     decimal.NewFromInt(600),
	}

	suite.mockRepo.On("FindContactByID", ctx, contact.ContactID).Return(contact, nil).Once()
	suite.mockRepo.On("SaveGeneralReceipt", ctx,
		mock.MatchedBy(func(r domain.GeneralReceipt) bool {
			return r.ContactID == contact.ContactID &&
				r.Kind == domain.GeneralDeposit &&
				r.Amount.Equal(decimal.NewFromInt(600))
		}),
		mock.MatchedBy(func(txn domain.TreasuryTransaction) bool {
			return txn.TreasuryID == treasuryID &&
				txn.Type == domain.Deposit &&
				txn.Source == domain.SourceReceipt &&
				txn.Amount.Equal(decimal.NewFromInt(600))
		}),
	).Return(&domain.GeneralReceipt{
		ReceiptID: uuid.NewString(),
		ContactID: contact.ContactID,
		Kind:      domain.GeneralDeposit,
		Amount:    decimal.NewFromInt(600),
	}, nil).Once()

	receipt, err := suite.service.CreateGeneralReceipt(ctx, contact.ContactID, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ContactServiceTestSuite) TestCreateGeneralReceipt_WithdrawalMovesTreasuryOut() {
	ctx := context.Background()
	contact := activeContact()
	req := dto.CreateGeneralReceiptRequest{
		TreasuryID: uuid.NewString(),
		Kind:       domain.GeneralWithdrawal,
		Amount:     decimal.NewFromInt(150),
	}

	suite.mockRepo.On("FindContactByID", ctx, contact.ContactID).Return(contact, nil).Once()
	suite.mockRepo.On("SaveGeneralReceipt", ctx,
		mock.AnythingOfType("domain.GeneralReceipt"),
		mock.MatchedBy(func(txn domain.TreasuryTransaction) bool {
			return txn.Type == domain.Withdrawal && txn.Source == domain.SourcePayment
		}),
	).Return(&domain.GeneralReceipt{}, nil).Once()

	_, err := suite.service.CreateGeneralReceipt(ctx, contact.ContactID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ContactServiceTestSuite) TestCreateGeneralReceipt_InactiveContact() {
	ctx := context.Background()
	contact := activeContact()
	contact.IsActive = false

	suite.mockRepo.On("FindContactByID", ctx, contact.ContactID).Return(contact, nil).Once()

	receipt, err := suite.service.CreateGeneralReceipt(ctx, contact.ContactID, dto.CreateGeneralReceiptRequest{
		TreasuryID: uuid.NewString(),
		Kind:       domain.GeneralDeposit,
		Amount:     decimal.NewFromInt(100),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveGeneralReceipt", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContactServiceTestSuite) TestCreateGeneralReceipt_NonPositiveAmount() {
	ctx := context.Background()
	contact := activeContact()

	suite.mockRepo.On("FindContactByID", ctx, contact.ContactID).Return(contact, nil).Once()

	receipt, err := suite.service.CreateGeneralReceipt(ctx, contact.ContactID, dto.CreateGeneralReceiptRequest{
		TreasuryID: uuid.NewString(),
		Kind:       domain.GeneralDeposit,
		Amount:     decimal.Zero,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ContactServiceTestSuite) TestListGeneralReceipts_UnknownContact() {
	ctx := context.Background()
	contactID := uuid.NewString()

	suite.mockRepo.On("FindContactByID", ctx, contactID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.ListGeneralReceipts(ctx, contactID, dto.ListTransactionsParams{Limit: 20})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListGeneralReceipts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContactServiceTestSuite) TestDeactivateContact_Success() {
	ctx := context.Background()
	contactID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockRepo.On("DeactivateContact", ctx, contactID, actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.DeactivateContact(ctx, contactID, actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestContactService(t *testing.T) {
	suite.Run(t, new(ContactServiceTestSuite))
}
