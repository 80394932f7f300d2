package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/core/domain"
	portsrepo "github.com/ceramtrade/fincore/internal/core/ports/repositories"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/core/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testBaseCurrency = "LYD"

// MockReceiptRepository is a mock type for the ReceiptRepositoryFacade interface
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.PaymentReceipt, obligation domain.LedgerEntry) error {
	args := m.Called(ctx, receipt, obligation)
	return args.Error(0)
}

func (m *MockReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Error(1)
}

func (m *MockReceiptRepository) ListReceipts(ctx context.Context, params portsrepo.ListReceiptsParams) ([]domain.PaymentReceipt, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.PaymentReceipt), token, args.Error(2)
}

func (m *MockReceiptRepository) SaveInstallment(ctx context.Context, installment domain.PaymentInstallment, treasuryTxn domain.TreasuryTransaction, ledgerEntry domain.LedgerEntry) (*domain.PaymentReceipt, *domain.PaymentInstallment, error) {
	args := m.Called(ctx, installment, treasuryTxn, ledgerEntry)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Get(1).(*domain.PaymentInstallment), args.Error(2)
}

func (m *MockReceiptRepository) CancelReceipt(ctx context.Context, receiptID string, reason string, userID string, now time.Time) error {
	args := m.Called(ctx, receiptID, reason, userID, now)
	return args.Error(0)
}

func (m *MockReceiptRepository) ListInstallments(ctx context.Context, receiptID string) ([]domain.PaymentInstallment, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentInstallment), args.Error(1)
}

// --- Test Suite Setup ---

type SettlementServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockReceiptRepository
	mockPublisher *MockEventPublisher
	service       portssvc.SettlementSvcFacade
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReceiptRepository)
	suite.mockPublisher = new(MockEventPublisher)
	suite.service = services.NewSettlementService(suite.mockRepo, testBaseCurrency, suite.mockPublisher)
}

func pendingReceipt(total int64) *domain.PaymentReceipt {
	t := decimal.NewFromInt(total)
	return &domain.PaymentReceipt{
		ReceiptID:      uuid.NewString(),
		CounterpartyID: uuid.NewString(),
		Total:          t,
		CurrencyCode:   testBaseCurrency,
		ExchangeRate:   decimal.NewFromInt(1),
		OriginalAmount: t,
		Paid:           decimal.Zero,
		Remaining:      t,
		Type:           domain.ReceiptMainPurchase,
		Status:         domain.ReceiptPending,
	}
}

// --- Test Cases ---

func (suite *SettlementServiceTestSuite) TestCreateReceipt_BaseCurrency() {
	ctx := context.Background()
	actorID := uuid.NewString()
	counterpartyID := uuid.NewString()
	req := dto.CreateReceiptRequest{
		CounterpartyID: counterpartyID,
		Total:          decimal.NewFromInt(12000),
		Type:           domain.ReceiptMainPurchase,
	}

	suite.mockRepo.On("SaveReceipt", ctx,
		mock.MatchedBy(func(r domain.PaymentReceipt) bool {
			return r.CounterpartyID == counterpartyID &&
				r.Status == domain.ReceiptPending &&
				r.CurrencyCode == testBaseCurrency &&
				r.ExchangeRate.Equal(decimal.NewFromInt(1)) &&
				r.Paid.IsZero() &&
				r.Remaining.Equal(decimal.NewFromInt(12000))
		}),
		mock.MatchedBy(func(e domain.LedgerEntry) bool {
			return e.CounterpartyID == counterpartyID &&
				e.Direction == domain.EntryDebit &&
				e.ReferenceKind == domain.RefPurchase &&
				e.Amount.Equal(decimal.NewFromInt(12000))
		}),
	).Return(nil).Once()

	receipt, err := suite.service.CreateReceipt(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)
	suite.Equal(domain.ReceiptPending, receipt.Status)
	suite.True(receipt.Remaining.Equal(receipt.Total))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCreateReceipt_ForeignCurrencyRequiresRate() {
	ctx := context.Background()
	req := dto.CreateReceiptRequest{
		CounterpartyID: uuid.NewString(),
		Total:          decimal.NewFromInt(5000),
		CurrencyCode:   "USD",
		Type:           domain.ReceiptMainPurchase,
	}

	receipt, err := suite.service.CreateReceipt(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveReceipt", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCreateReceipt_ForeignCurrencyConvertsObligation() {
	ctx := context.Background()
	rate := decimal.NewFromFloat(4.85)
	req := dto.CreateReceiptRequest{
		CounterpartyID: uuid.NewString(),
		Total:          decimal.NewFromInt(1000),
		CurrencyCode:   "USD",
		ExchangeRate:   &rate,
		Type:           domain.ReceiptMainPurchase,
	}

	suite.mockRepo.On("SaveReceipt", ctx,
		mock.MatchedBy(func(r domain.PaymentReceipt) bool {
			return r.ExchangeRate.Equal(rate) && r.Remaining.Equal(decimal.NewFromInt(1000))
		}),
		mock.MatchedBy(func(e domain.LedgerEntry) bool {
			// The ledger is kept in base currency: 1000 * 4.85.
			return e.Amount.Equal(decimal.NewFromInt(4850))
		}),
	).Return(nil).Once()

	receipt, err := suite.service.CreateReceipt(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(receipt.Total.Equal(decimal.NewFromInt(1000))) // Stays in original currency

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCreateReceipt_ReturnPostsReturnReference() {
	ctx := context.Background()
	req := dto.CreateReceiptRequest{
		CounterpartyID: uuid.NewString(),
		Total:          decimal.NewFromInt(200),
		Type:           domain.ReceiptReturn,
	}

	suite.mockRepo.On("SaveReceipt", ctx,
		mock.AnythingOfType("domain.PaymentReceipt"),
		mock.MatchedBy(func(e domain.LedgerEntry) bool {
			return e.ReferenceKind == domain.RefReturn
		}),
	).Return(nil).Once()

	_, err := suite.service.CreateReceipt(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestAddInstallment_PartialSettlement() {
	ctx := context.Background()
	receipt := pendingReceipt(10000)
	treasuryID := uuid.NewString()
	actorID := uuid.NewString()
	req := dto.AddInstallmentRequest{
		Amount:     decimal.NewFromInt(4000),
		TreasuryID: treasuryID,
	}

	updated := *receipt
	updated.Paid = decimal.NewFromInt(4000)
	updated.Remaining = decimal.NewFromInt(6000)

	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Once()
	suite.mockRepo.On("SaveInstallment", ctx,
		mock.MatchedBy(func(i domain.PaymentInstallment) bool {
			return i.ReceiptID == receipt.ReceiptID &&
				i.Amount.Equal(decimal.NewFromInt(4000)) &&
				i.ExchangeRate.Equal(decimal.NewFromInt(1)) &&
				i.BaseAmount.Equal(decimal.NewFromInt(4000))
		}),
		mock.MatchedBy(func(txn domain.TreasuryTransaction) bool {
			return txn.TreasuryID == treasuryID &&
				txn.Type == domain.Withdrawal &&
				txn.Source == domain.SourcePayment &&
				txn.Amount.Equal(decimal.NewFromInt(4000))
		}),
		mock.MatchedBy(func(e domain.LedgerEntry) bool {
			return e.CounterpartyID == receipt.CounterpartyID &&
				e.Direction == domain.EntryCredit &&
				e.ReferenceKind == domain.RefPayment &&
				e.Amount.Equal(decimal.NewFromInt(4000))
		}),
	).Return(&updated, &domain.PaymentInstallment{
		InstallmentID: uuid.NewString(),
		ReceiptID:     receipt.ReceiptID,
		Amount:        decimal.NewFromInt(4000),
		BaseAmount:    decimal.NewFromInt(4000),
	}, nil).Once()

	updatedReceipt, installment, err := suite.service.AddInstallment(ctx, receipt.ReceiptID, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(installment)
	suite.True(updatedReceipt.Remaining.Equal(decimal.NewFromInt(6000)))
	suite.Equal(domain.ReceiptPending, updatedReceipt.Status)
	// Receipt still pending, no event.
	suite.mockPublisher.AssertNotCalled(suite.T(), "ReceiptPaid", mock.Anything, mock.Anything)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestAddInstallment_DivergentRatePreserved() {
	ctx := context.Background()
	receipt := pendingReceipt(1000)
	receipt.CurrencyCode = "USD"
	receipt.ExchangeRate = decimal.NewFromInt(5) // Nominal rate at receipt creation

	installmentRate := decimal.NewFromFloat(5.1) // The rate moved
	req := dto.AddInstallmentRequest{
		Amount:       decimal.NewFromInt(1000),
		TreasuryID:   uuid.NewString(),
		ExchangeRate: &installmentRate,
	}

	updated := *receipt
	updated.Paid = decimal.NewFromInt(1000)
	updated.Remaining = decimal.Zero
	updated.Status = domain.ReceiptPaid

	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Once()
	suite.mockRepo.On("SaveInstallment", ctx,
		mock.MatchedBy(func(i domain.PaymentInstallment) bool {
			// The installment keeps its own rate; the treasury moves
			// 1000 * 5.1 = 5100, not the nominal 5000.
			return i.ExchangeRate.Equal(installmentRate) &&
				i.BaseAmount.Equal(decimal.NewFromInt(5100))
		}),
		mock.MatchedBy(func(txn domain.TreasuryTransaction) bool {
			return txn.Amount.Equal(decimal.NewFromInt(5100))
		}),
		mock.MatchedBy(func(e domain.LedgerEntry) bool {
			return e.Amount.Equal(decimal.NewFromInt(5100))
		}),
	).Return(&updated, &domain.PaymentInstallment{
		InstallmentID: uuid.NewString(),
		ExchangeRate:  installmentRate,
		BaseAmount:    decimal.NewFromInt(5100),
	}, nil).Once()
	suite.mockPublisher.On("ReceiptPaid", ctx, updated).Once()

	updatedReceipt, installment, err := suite.service.AddInstallment(ctx, receipt.ReceiptID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.ReceiptPaid, updatedReceipt.Status)
	suite.True(installment.ExchangeRate.Equal(installmentRate))

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestAddInstallment_ForeignCurrencyRequiresRate() {
	ctx := context.Background()
	receipt := pendingReceipt(100)
	receipt.CurrencyCode = "EUR"
	receipt.ExchangeRate = decimal.NewFromInt(6)

	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Once()

	// The receipt's nominal rate is never a substitute; every installment
	// on a foreign-currency receipt must carry its own rate.
	_, _, err := suite.service.AddInstallment(ctx, receipt.ReceiptID, dto.AddInstallmentRequest{
		Amount:     decimal.NewFromInt(50),
		TreasuryID: uuid.NewString(),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInstallment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestAddInstallment_ExceedsRemaining() {
	ctx := context.Background()
	receipt := pendingReceipt(1000)
	receipt.Paid = decimal.NewFromInt(800)
	receipt.Remaining = decimal.NewFromInt(200)

	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Once()

	_, _, err := suite.service.AddInstallment(ctx, receipt.ReceiptID, dto.AddInstallmentRequest{
		Amount:     decimal.NewFromInt(500),
		TreasuryID: uuid.NewString(),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInstallment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestAddInstallment_ReceiptNotPending() {
	ctx := context.Background()
	receipt := pendingReceipt(1000)
	receipt.Status = domain.ReceiptPaid
	receipt.Remaining = decimal.Zero

	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Once()

	_, _, err := suite.service.AddInstallment(ctx, receipt.ReceiptID, dto.AddInstallmentRequest{
		Amount:     decimal.NewFromInt(100),
		TreasuryID: uuid.NewString(),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SettlementServiceTestSuite) TestAddInstallment_ConcurrentSettlementLoses() {
	ctx := context.Background()
	receipt := pendingReceipt(1000)
	// The pre-check passes but another settlement commits first; the
	// repository re-checks under the row lock and reports the race.
	concurrencyErr := apperrors.NewAppError(409, "installment exceeds remaining", apperrors.ErrConcurrency)

	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Once()
	suite.mockRepo.On("SaveInstallment", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, concurrencyErr).Once()

	_, _, err := suite.service.AddInstallment(ctx, receipt.ReceiptID, dto.AddInstallmentRequest{
		Amount:     decimal.NewFromInt(1000),
		TreasuryID: uuid.NewString(),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrency)
	suite.mockPublisher.AssertNotCalled(suite.T(), "ReceiptPaid", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestPayReceipt_SettlesFullRemaining() {
	ctx := context.Background()
	receipt := pendingReceipt(1000)
	receipt.Paid = decimal.NewFromInt(300)
	receipt.Remaining = decimal.NewFromInt(700)
	treasuryID := uuid.NewString()

	updated := *receipt
	updated.Paid = decimal.NewFromInt(1000)
	updated.Remaining = decimal.Zero
	updated.Status = domain.ReceiptPaid

	// PayReceipt delegates to AddInstallment, which fetches again.
	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Twice()
	suite.mockRepo.On("SaveInstallment", ctx,
		mock.MatchedBy(func(i domain.PaymentInstallment) bool {
			return i.Amount.Equal(decimal.NewFromInt(700))
		}),
		mock.AnythingOfType("domain.TreasuryTransaction"),
		mock.AnythingOfType("domain.LedgerEntry"),
	).Return(&updated, &domain.PaymentInstallment{Amount: decimal.NewFromInt(700)}, nil).Once()
	suite.mockPublisher.On("ReceiptPaid", ctx, updated).Once()

	updatedReceipt, installment, err := suite.service.PayReceipt(ctx, receipt.ReceiptID, dto.PayReceiptRequest{TreasuryID: treasuryID}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.ReceiptPaid, updatedReceipt.Status)
	suite.True(installment.Amount.Equal(decimal.NewFromInt(700)))

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestPayReceipt_AlreadyCancelled() {
	ctx := context.Background()
	receipt := pendingReceipt(1000)
	receipt.Status = domain.ReceiptCancelled

	suite.mockRepo.On("FindReceiptByID", ctx, receipt.ReceiptID).Return(receipt, nil).Once()

	_, _, err := suite.service.PayReceipt(ctx, receipt.ReceiptID, dto.PayReceiptRequest{TreasuryID: uuid.NewString()}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SettlementServiceTestSuite) TestCancelReceipt_Success() {
	ctx := context.Background()
	receiptID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockRepo.On("CancelReceipt", ctx, receiptID, "duplicate entry", actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.CancelReceipt(ctx, receiptID, "duplicate entry", actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCancelReceipt_AlreadySettled() {
	ctx := context.Background()
	receiptID := uuid.NewString()
	conflictErr := apperrors.NewAppError(409, "receipt has payments", apperrors.ErrConflict)

	suite.mockRepo.On("CancelReceipt", ctx, receiptID, mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(conflictErr).Once()

	err := suite.service.CancelReceipt(ctx, receiptID, "too late", uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SettlementServiceTestSuite) TestListInstallments_UnknownReceipt() {
	ctx := context.Background()
	receiptID := uuid.NewString()

	suite.mockRepo.On("FindReceiptByID", ctx, receiptID).Return(nil, apperrors.ErrNotFound).Once()

	installments, err := suite.service.ListInstallments(ctx, receiptID)

	suite.Require().Error(err)
	suite.Nil(installments)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListInstallments", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---

func TestSettlementService(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
