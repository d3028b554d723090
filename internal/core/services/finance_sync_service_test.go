package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/core/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

type FinanceSyncServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockFinanceRepository
	mockNumbering *MockNumberingService
	service       portssvc.FinanceSvcFacade
	ctx           context.Context
	tx            fakeTx
}

func (suite *FinanceSyncServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFinanceRepository)
	suite.mockNumbering = new(MockNumberingService)
	suite.service = services.NewFinanceSyncService(suite.mockRepo, suite.mockNumbering)
	suite.ctx = context.Background()
	suite.tx = fakeTx{}
}

func syncInput() dto.ExpenseSyncInput {
	now := time.Now()
	return dto.ExpenseSyncInput{
		SourceType:  domain.ExpenseFromReimbursement,
		SourceID:    "reimb-123",
		Amount:      decimal.NewFromFloat(180.40),
		Category:    "TRAVEL",
		ExpenseDate: now.AddDate(0, 0, -3),
		OperatorID:  "fin-1",
		Now:         now,
	}
}

func (suite *FinanceSyncServiceTestSuite) TestSyncExpense_CreatesRecord() {
	input := syncInput()

	suite.mockRepo.On("FindExpenseBySourceInTx", suite.ctx, suite.tx, domain.ExpenseFromReimbursement, "reimb-123").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockNumbering.On("NextDocumentNumberInTx", suite.ctx, suite.tx, domain.EntityFinanceExpense, input.Now).
		Return("FE-202608-0003", nil).Once()
	suite.mockRepo.On("InsertExpenseInTx", suite.ctx, suite.tx, mock.MatchedBy(func(r domain.FinanceExpenseRecord) bool {
		return r.RecordNumber == "FE-202608-0003" &&
			r.SourceType == domain.ExpenseFromReimbursement &&
			r.SourceID == "reimb-123" &&
			r.Amount.Equal(input.Amount) &&
			r.Category == "TRAVEL" &&
			r.CreatedBy == "fin-1"
	})).Return(nil).Once()

	record, err := suite.service.SyncExpenseInTx(suite.ctx, suite.tx, input)

	suite.Require().NoError(err)
	suite.Equal("FE-202608-0003", record.RecordNumber)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockNumbering.AssertExpectations(suite.T())
}

func (suite *FinanceSyncServiceTestSuite) TestSyncExpense_ExistingRecordIsReturnedUnchanged() {
	input := syncInput()
	existing := &domain.FinanceExpenseRecord{
		RecordID:     "rec-1",
		RecordNumber: "FE-202608-0001",
		SourceType:   domain.ExpenseFromReimbursement,
		SourceID:     "reimb-123",
	}

	suite.mockRepo.On("FindExpenseBySourceInTx", suite.ctx, suite.tx, domain.ExpenseFromReimbursement, "reimb-123").
		Return(existing, nil).Once()

	record, err := suite.service.SyncExpenseInTx(suite.ctx, suite.tx, input)

	suite.Require().NoError(err)
	suite.Equal(existing, record)
	suite.mockRepo.AssertNotCalled(suite.T(), "InsertExpenseInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockNumbering.AssertNotCalled(suite.T(), "NextDocumentNumberInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceSyncServiceTestSuite) TestListExpenses_DefaultsLimit() {
	records := []domain.FinanceExpenseRecord{{RecordID: "rec-1"}}
	suite.mockRepo.On("ListExpenses", suite.ctx, 20, (*string)(nil)).Return(records, nil, nil).Once()

	resp, err := suite.service.ListExpenses(suite.ctx, dto.ListExpensesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Records, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestFinanceSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FinanceSyncServiceTestSuite))
}
