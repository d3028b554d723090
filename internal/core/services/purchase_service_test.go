package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/core/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockPurchaseRepository
	mockWorkflow    *MockWorkflowLogRepository
	mockFinance     *MockFinanceService
	mockNumbering   *MockNumberingService
	mockEmployee    *MockEmployeeService
	mockEligibility *MockEligibilityService
	service         portssvc.PurchaseSvcFacade
	ctx             context.Context
	tx              fakeTx
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPurchaseRepository)
	suite.mockWorkflow = new(MockWorkflowLogRepository)
	suite.mockFinance = new(MockFinanceService)
	suite.mockNumbering = new(MockNumberingService)
	suite.mockEmployee = new(MockEmployeeService)
	suite.mockEligibility = new(MockEligibilityService)
	suite.service = services.NewPurchaseService(
		suite.mockRepo,
		suite.mockWorkflow,
		suite.mockFinance,
		suite.mockNumbering,
		suite.mockEmployee,
		suite.mockEligibility,
	)
	suite.ctx = context.Background()
	suite.tx = fakeTx{}
}

// expectTx wires the Begin/Rollback pair every transactional path uses. The
// rollback is deferred in the service, so it also fires after a commit.
func (suite *PurchaseServiceTestSuite) expectTx() {
	suite.mockRepo.On("Begin", suite.ctx).Return(suite.tx, nil).Once()
	suite.mockRepo.On("Rollback", suite.ctx, suite.tx).Return(nil).Maybe()
}

func draftPurchase() *domain.Purchase {
	now := time.Now()
	p := &domain.Purchase{
		PurchaseID:     "purchase-123",
		PurchaseNumber: "PR-202608-0001",
		ItemName:       "Whiteboard markers",
		Quantity:       decimal.NewFromInt(10),
		UnitPrice:      decimal.NewFromFloat(3.50),
		PaymentMethod:  domain.PaymentPersonalAdvance,
		InvoiceType:    domain.InvoiceGeneral,
		InvoiceStatus:  domain.InvoiceReceived,
		InvoiceImages:  []string{"img-1.png"},
		OrgScope:       domain.ScopeSchool,
		ApplicantID:    "emp-1",
		Status:         domain.PurchaseDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "emp-1",
			LastUpdatedAt: now,
			LastUpdatedBy: "emp-1",
		},
	}
	p.RecomputeTotal()
	return p
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_Success() {
	req := dto.CreatePurchaseRequest{
		ItemName:      "Projector",
		Quantity:      decimal.NewFromInt(2),
		UnitPrice:     decimal.NewFromFloat(499.99),
		PaymentMethod: domain.PaymentBankTransfer,
		InvoiceType:   domain.InvoiceSpecial,
		InvoiceStatus: domain.InvoicePending,
		OrgScope:      domain.ScopeCompany,
	}

	suite.mockEmployee.On("EnsureEmployeeRecordExists", suite.ctx, "emp-1").Return(nil).Once()
	suite.expectTx()
	suite.mockNumbering.On("NextDocumentNumberInTx", suite.ctx, suite.tx, domain.EntityPurchase, mock.AnythingOfType("time.Time")).
		Return("PR-202608-0002", nil).Once()
	suite.mockRepo.On("InsertPurchaseInTx", suite.ctx, suite.tx, mock.MatchedBy(func(p domain.Purchase) bool {
		return p.Status == domain.PurchaseDraft &&
			p.PurchaseNumber == "PR-202608-0002" &&
			p.ApplicantID == "emp-1" &&
			p.TotalAmount.Equal(decimal.NewFromFloat(999.98))
	})).Return(nil).Once()
	suite.mockWorkflow.On("AppendLogInTx", suite.ctx, suite.tx, mock.MatchedBy(func(e domain.WorkflowLog) bool {
		return e.EntityType == domain.EntityPurchase &&
			e.Action == domain.ActionCreate &&
			e.FromStatus == "" &&
			e.ToStatus == string(domain.PurchaseDraft)
	})).Return(nil).Once()
	suite.mockRepo.On("Commit", suite.ctx, suite.tx).Return(nil).Once()

	purchase, err := suite.service.CreatePurchase(suite.ctx, req, "emp-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(purchase)
	suite.Equal("PR-202608-0002", purchase.PurchaseNumber)
	suite.True(purchase.TotalAmount.Equal(decimal.NewFromFloat(999.98)))
	suite.Equal(domain.PurchaseDraft, purchase.Status)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockWorkflow.AssertExpectations(suite.T())
	suite.mockNumbering.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_NonPositiveQuantity() {
	req := dto.CreatePurchaseRequest{
		ItemName:  "Projector",
		Quantity:  decimal.Zero,
		UnitPrice: decimal.NewFromInt(100),
	}

	purchase, err := suite.service.CreatePurchase(suite.ctx, req, "emp-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(purchase)
	suite.mockRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestUpdatePurchase_Success() {
	purchase := draftPurchase()
	newQuantity := decimal.NewFromInt(4)

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.expectTx()
	suite.mockRepo.On("UpdatePurchaseFieldsInTx", suite.ctx, suite.tx, mock.MatchedBy(func(p domain.Purchase) bool {
		return p.Quantity.Equal(newQuantity) && p.TotalAmount.Equal(decimal.NewFromInt(14))
	}), []domain.PurchaseStatus{domain.PurchaseDraft, domain.PurchaseRejected}).Return(true, nil).Once()
	suite.mockRepo.On("Commit", suite.ctx, suite.tx).Return(nil).Once()

	updated, err := suite.service.UpdatePurchase(suite.ctx, "purchase-123",
		dto.UpdatePurchaseRequest{Quantity: &newQuantity}, "emp-1")

	suite.Require().NoError(err)
	suite.True(updated.TotalAmount.Equal(decimal.NewFromInt(14)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestUpdatePurchase_NotEditable() {
	purchase := draftPurchase()
	purchase.Status = domain.PurchasePaid

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()

	updated, err := suite.service.UpdatePurchase(suite.ctx, "purchase-123", dto.UpdatePurchaseRequest{}, "emp-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrPurchaseNotEditable))
	suite.Nil(updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestSubmitPurchase_Success() {
	purchase := draftPurchase()
	submitted := draftPurchase()
	submitted.Status = domain.PurchasePendingApproval

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.mockEmployee.On("EnsureEmployeeRecordExists", suite.ctx, "emp-1").Return(nil).Once()
	suite.mockEligibility.On("CheckPurchaseInvoiceEvidence", purchase).Return(nil).Once()
	suite.expectTx()
	suite.mockRepo.On("TransitionPurchaseStatusInTx", suite.ctx, suite.tx, "purchase-123",
		[]domain.PurchaseStatus{domain.PurchaseDraft, domain.PurchaseRejected},
		mock.MatchedBy(func(c portsrepo.PurchaseStatusChange) bool {
			return c.To == domain.PurchasePendingApproval && c.SubmittedAt != nil && c.ClearRejection
		})).Return(true, nil).Once()
	suite.mockWorkflow.On("AppendLogInTx", suite.ctx, suite.tx, mock.MatchedBy(func(e domain.WorkflowLog) bool {
		return e.Action == domain.ActionSubmit &&
			e.FromStatus == string(domain.PurchaseDraft) &&
			e.ToStatus == string(domain.PurchasePendingApproval)
	})).Return(nil).Once()
	suite.mockRepo.On("Commit", suite.ctx, suite.tx).Return(nil).Once()
	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(submitted, nil).Once()

	result, err := suite.service.SubmitPurchase(suite.ctx, "purchase-123", "emp-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PurchasePendingApproval, result.Status)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockWorkflow.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestSubmitPurchase_InvoiceEvidenceMissing() {
	purchase := draftPurchase()
	purchase.InvoiceImages = nil

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.mockEmployee.On("EnsureEmployeeRecordExists", suite.ctx, "emp-1").Return(nil).Once()
	suite.mockEligibility.On("CheckPurchaseInvoiceEvidence", purchase).
		Return(services.ErrInvoiceEvidenceMissing).Once()

	result, err := suite.service.SubmitPurchase(suite.ctx, "purchase-123", "emp-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrInvoiceEvidenceMissing))
	suite.Nil(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestApprovePurchase_GuardMiss() {
	purchase := draftPurchase()
	purchase.Status = domain.PurchasePendingApproval
	concurrent := draftPurchase()
	concurrent.Status = domain.PurchaseApproved

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.mockEmployee.On("EnsureEmployeeRecordExists", suite.ctx, "approver-1").Return(nil).Once()
	suite.expectTx()
	suite.mockRepo.On("TransitionPurchaseStatusInTx", suite.ctx, suite.tx, "purchase-123",
		[]domain.PurchaseStatus{domain.PurchasePendingApproval},
		mock.AnythingOfType("repositories.PurchaseStatusChange")).Return(false, nil).Once()
	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(concurrent, nil).Once()

	result, err := suite.service.ApprovePurchase(suite.ctx, "purchase-123", "approver-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrPurchaseNotApprovable))
	suite.Contains(err.Error(), string(domain.PurchaseApproved))
	suite.Nil(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestRejectPurchase_ReasonRequired() {
	result, err := suite.service.RejectPurchase(suite.ctx, "purchase-123", "approver-1", "   ")

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrRejectReasonRequired))
	suite.Nil(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindPurchaseByID", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestRejectPurchase_Success() {
	purchase := draftPurchase()
	purchase.Status = domain.PurchasePendingApproval
	rejected := draftPurchase()
	rejected.Status = domain.PurchaseRejected

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.mockEmployee.On("EnsureEmployeeRecordExists", suite.ctx, "approver-1").Return(nil).Once()
	suite.expectTx()
	suite.mockRepo.On("TransitionPurchaseStatusInTx", suite.ctx, suite.tx, "purchase-123",
		[]domain.PurchaseStatus{domain.PurchasePendingApproval},
		mock.MatchedBy(func(c portsrepo.PurchaseStatusChange) bool {
			return c.To == domain.PurchaseRejected &&
				c.RejectReason != nil && *c.RejectReason == "over budget"
		})).Return(true, nil).Once()
	suite.mockWorkflow.On("AppendLogInTx", suite.ctx, suite.tx, mock.MatchedBy(func(e domain.WorkflowLog) bool {
		return e.Action == domain.ActionReject && e.Comment == "over budget"
	})).Return(nil).Once()
	suite.mockRepo.On("Commit", suite.ctx, suite.tx).Return(nil).Once()
	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(rejected, nil).Once()

	result, err := suite.service.RejectPurchase(suite.ctx, "purchase-123", "approver-1", "over budget")

	suite.Require().NoError(err)
	suite.Equal(domain.PurchaseRejected, result.Status)
	suite.mockWorkflow.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestMarkPurchasePaid_Success() {
	purchase := draftPurchase()
	purchase.Status = domain.PurchaseApproved
	paid := draftPurchase()
	paid.Status = domain.PurchasePaid

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.mockEmployee.On("EnsureEmployeeRecordExists", suite.ctx, "finance-1").Return(nil).Once()
	suite.expectTx()
	suite.mockRepo.On("TransitionPurchaseStatusInTx", suite.ctx, suite.tx, "purchase-123",
		[]domain.PurchaseStatus{domain.PurchaseApproved},
		mock.MatchedBy(func(c portsrepo.PurchaseStatusChange) bool {
			return c.To == domain.PurchasePaid && c.PaidAt != nil && c.PaidBy != nil
		})).Return(true, nil).Once()
	suite.mockWorkflow.On("AppendLogInTx", suite.ctx, suite.tx, mock.MatchedBy(func(e domain.WorkflowLog) bool {
		return e.Action == domain.ActionPay
	})).Return(nil).Once()
	suite.mockFinance.On("SyncExpenseInTx", suite.ctx, suite.tx, mock.MatchedBy(func(in dto.ExpenseSyncInput) bool {
		return in.SourceType == domain.ExpenseFromPurchase &&
			in.SourceID == "purchase-123" &&
			in.Category == "PROCUREMENT" &&
			in.Amount.Equal(purchase.TotalAmount)
	})).Return(&domain.FinanceExpenseRecord{RecordID: "rec-1"}, nil).Once()
	suite.mockRepo.On("Commit", suite.ctx, suite.tx).Return(nil).Once()
	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(paid, nil).Once()

	result, err := suite.service.MarkPurchasePaid(suite.ctx, "purchase-123", "finance-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PurchasePaid, result.Status)
	suite.mockFinance.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestMarkPurchasePaid_SyncFailureRollsBack() {
	purchase := draftPurchase()
	purchase.Status = domain.PurchaseApproved

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.mockEmployee.On("EnsureEmployeeRecordExists", suite.ctx, "finance-1").Return(nil).Once()
	suite.mockRepo.On("Begin", suite.ctx).Return(suite.tx, nil).Once()
	suite.mockRepo.On("Rollback", suite.ctx, suite.tx).Return(nil).Once()
	suite.mockRepo.On("TransitionPurchaseStatusInTx", suite.ctx, suite.tx, "purchase-123",
		[]domain.PurchaseStatus{domain.PurchaseApproved},
		mock.AnythingOfType("repositories.PurchaseStatusChange")).Return(true, nil).Once()
	suite.mockWorkflow.On("AppendLogInTx", suite.ctx, suite.tx, mock.AnythingOfType("domain.WorkflowLog")).Return(nil).Once()
	syncErr := errors.New("expense insert failed")
	suite.mockFinance.On("SyncExpenseInTx", suite.ctx, suite.tx, mock.AnythingOfType("dto.ExpenseSyncInput")).
		Return(nil, syncErr).Once()

	result, err := suite.service.MarkPurchasePaid(suite.ctx, "purchase-123", "finance-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, syncErr))
	suite.Nil(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestDeletePurchase_NotDeletable() {
	purchase := draftPurchase()
	purchase.Status = domain.PurchasePendingApproval

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()

	err := suite.service.DeletePurchase(suite.ctx, "purchase-123", "emp-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrPurchaseNotDeletable))
	suite.mockRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestGetPurchaseLogs_Success() {
	purchase := draftPurchase()
	logs := []domain.WorkflowLog{
		{LogID: "log-1", Action: domain.ActionCreate},
		{LogID: "log-2", Action: domain.ActionSubmit},
	}

	suite.mockRepo.On("FindPurchaseByID", suite.ctx, "purchase-123").Return(purchase, nil).Once()
	suite.mockWorkflow.On("ListLogsByEntity", suite.ctx, domain.EntityPurchase, "purchase-123").Return(logs, nil).Once()

	result, err := suite.service.GetPurchaseLogs(suite.ctx, "purchase-123")

	suite.Require().NoError(err)
	suite.Len(result, 2)
	suite.mockWorkflow.AssertExpectations(suite.T())
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
