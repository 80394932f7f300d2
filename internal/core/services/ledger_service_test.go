package services_test

import (
	"context"
	"testing"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/core/domain"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/core/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetLastBalance(ctx context.Context, counterpartyID string) (decimal.Decimal, error) {
	args := m.Called(ctx, counterpartyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, counterpartyID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, counterpartyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.LedgerEntry), token, args.Error(2)
}

func (m *MockLedgerRepository) SummarizeAll(ctx context.Context, role domain.CounterpartyRole) ([]domain.LedgerSummary, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerSummary), args.Error(1)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockLedgerRepository
	service  portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestAppendEntry_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	counterpartyID := uuid.NewString()
	req := dto.AppendEntryRequest{
		CounterpartyID:   counterpartyID,
		CounterpartyRole: domain.RoleSupplier,
		Direction:        domain.EntryDebit,
		Amount:           decimal.NewFromInt(500),
		ReferenceKind:    domain.RefAdjustment,
		Description:      "stocktake correction",
	}

	appended := &domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		CounterpartyID:   counterpartyID,
		CounterpartyRole: domain.RoleSupplier,
		Direction:        domain.EntryDebit,
		Amount:           decimal.NewFromInt(500),
		Balance:          decimal.NewFromInt(1700), // Computed by the repository
	}

	suite.mockRepo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.CounterpartyID == counterpartyID &&
			e.Direction == domain.EntryDebit &&
			e.Amount.Equal(decimal.NewFromInt(500)) &&
			e.CreatedBy == actorID &&
			e.Balance.IsZero() // The service never pre-computes the balance
	})).Return(appended, nil).Once()

	entry, err := suite.service.AppendEntry(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.True(entry.Balance.Equal(decimal.NewFromInt(1700)))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestAppendEntry_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Return(nil, expectedErr).Once()

	entry, err := suite.service.AppendEntry(ctx, dto.AppendEntryRequest{
		CounterpartyID:   uuid.NewString(),
		CounterpartyRole: domain.RoleCustomer,
		Direction:        domain.EntryCredit,
		Amount:           decimal.NewFromInt(10),
		ReferenceKind:    domain.RefPayment,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, expectedErr)
}

func (suite *LedgerServiceTestSuite) TestGetBalance_EmptyLedgerIsZero() {
	ctx := context.Background()
	counterpartyID := uuid.NewString()

	suite.mockRepo.On("GetLastBalance", ctx, counterpartyID).Return(decimal.Zero, nil).Once()

	balance, err := suite.service.GetBalance(ctx, counterpartyID)

	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestGetStatement_RunningBalanceIsPrefixSum() {
	ctx := context.Background()
	counterpartyID := uuid.NewString()

	// 1000 debit, 400 credit, 250 debit: balances 1000, 600, 850.
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), Direction: domain.EntryDebit, Amount: decimal.NewFromInt(1000), Balance: decimal.NewFromInt(1000)},
		{EntryID: uuid.NewString(), Direction: domain.EntryCredit, Amount: decimal.NewFromInt(400), Balance: decimal.NewFromInt(600)},
		{EntryID: uuid.NewString(), Direction: domain.EntryDebit, Amount: decimal.NewFromInt(250), Balance: decimal.NewFromInt(850)},
	}

	suite.mockRepo.On("ListEntries", ctx, counterpartyID, 50, (*string)(nil)).
		Return(entries, nil, nil).Once()

	resp, err := suite.service.GetStatement(ctx, counterpartyID, dto.StatementParams{Limit: 50})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 3)

	// Each stored balance equals the running sum of signed amounts so far.
	running := decimal.Zero
	for i, e := range entries {
		running = running.Add(e.SignedAmount())
		suite.True(resp.Entries[i].Balance.Equal(running), "entry %d balance mismatch", i)
	}
	suite.Nil(resp.NextToken)
}

func (suite *LedgerServiceTestSuite) TestGetStatement_PagedWithToken() {
	ctx := context.Background()
	counterpartyID := uuid.NewString()
	token := "b3BhcXVl"

	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), Direction: domain.EntryDebit, Amount: decimal.NewFromInt(100), Balance: decimal.NewFromInt(100)},
	}
	nextToken := "bmV4dA"

	suite.mockRepo.On("ListEntries", ctx, counterpartyID, 1, &token).
		Return(entries, &nextToken, nil).Once()

	resp, err := suite.service.GetStatement(ctx, counterpartyID, dto.StatementParams{Limit: 1, NextToken: &token})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(nextToken, *resp.NextToken)
}

func (suite *LedgerServiceTestSuite) TestGetSummaryForAll_Success() {
	ctx := context.Background()
	summaries := []domain.LedgerSummary{
		{
			CounterpartyID:   uuid.NewString(),
			CounterpartyRole: domain.RoleSupplier,
			TotalDebit:       decimal.NewFromInt(9000),
			TotalCredit:      decimal.NewFromInt(6500),
			Balance:          decimal.NewFromInt(2500),
			EntryCount:       7,
		},
	}

	suite.mockRepo.On("SummarizeAll", ctx, domain.RoleSupplier).Return(summaries, nil).Once()

	result, err := suite.service.GetSummaryForAll(ctx, domain.RoleSupplier)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].Balance.Equal(result[0].TotalDebit.Sub(result[0].TotalCredit)))
}

func (suite *LedgerServiceTestSuite) TestGetSummaryForAll_RepoError() {
	ctx := context.Background()
	expectedErr := apperrors.NewAppError(500, "aggregation failed", assert.AnError)

	suite.mockRepo.On("SummarizeAll", ctx, domain.RoleCustomer).Return(nil, expectedErr).Once()

	result, err := suite.service.GetSummaryForAll(ctx, domain.RoleCustomer)

	suite.Require().Error(err)
	suite.Nil(result)
}

// --- Run Test Suite ---

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
