package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/core/services"
)

type EligibilityServiceTestSuite struct {
	suite.Suite
	mockReimbursementRepo *MockReimbursementRepository
	mockInventoryRepo     *MockInventoryRepository
	service               portssvc.EligibilityCheckerSvc
	ctx                   context.Context
}

func (suite *EligibilityServiceTestSuite) SetupTest() {
	suite.mockReimbursementRepo = new(MockReimbursementRepository)
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.service = services.NewEligibilityService(suite.mockReimbursementRepo, suite.mockInventoryRepo)
	suite.ctx = context.Background()
}

func (suite *EligibilityServiceTestSuite) TestCheckPurchaseReimbursable_CorporateTransfer() {
	purchase := draftPurchase()
	purchase.PaymentMethod = domain.PaymentCorporateTransfer

	err := suite.service.CheckPurchaseReimbursable(purchase)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrPurchaseNotReimbursable))
}

func (suite *EligibilityServiceTestSuite) TestCheckPurchaseReimbursable_PersonalAdvance() {
	purchase := draftPurchase()
	purchase.PaymentMethod = domain.PaymentPersonalAdvance

	suite.NoError(suite.service.CheckPurchaseReimbursable(purchase))
}

func (suite *EligibilityServiceTestSuite) TestCheckSingleLink_AlreadyLinked() {
	suite.mockReimbursementRepo.On("CountActiveBySourcePurchase", suite.ctx, "purchase-123", (*string)(nil)).
		Return(1, nil).Once()

	err := suite.service.CheckSingleLink(suite.ctx, "purchase-123", nil)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrPurchaseAlreadyLinked))
	suite.mockReimbursementRepo.AssertExpectations(suite.T())
}

func (suite *EligibilityServiceTestSuite) TestCheckSingleLink_ExcludesEditedClaim() {
	excludeID := "reimb-123"
	suite.mockReimbursementRepo.On("CountActiveBySourcePurchase", suite.ctx, "purchase-123", &excludeID).
		Return(0, nil).Once()

	suite.NoError(suite.service.CheckSingleLink(suite.ctx, "purchase-123", &excludeID))
	suite.mockReimbursementRepo.AssertExpectations(suite.T())
}

func (suite *EligibilityServiceTestSuite) TestCheckInboundReady_NoReceipt() {
	suite.mockInventoryRepo.On("HasInboundMovementForPurchase", suite.ctx, "purchase-123").
		Return(false, nil).Once()

	err := suite.service.CheckInboundReady(suite.ctx, "purchase-123")

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrInboundNotReady))
}

func (suite *EligibilityServiceTestSuite) TestCheckInboundReady_ReceiptRecorded() {
	suite.mockInventoryRepo.On("HasInboundMovementForPurchase", suite.ctx, "purchase-123").
		Return(true, nil).Once()

	suite.NoError(suite.service.CheckInboundReady(suite.ctx, "purchase-123"))
}

func (suite *EligibilityServiceTestSuite) TestCheckPurchaseInvoiceEvidence_MissingImage() {
	purchase := draftPurchase()
	purchase.InvoiceType = domain.InvoiceGeneral
	purchase.InvoiceStatus = domain.InvoicePending
	purchase.InvoiceImages = nil

	err := suite.service.CheckPurchaseInvoiceEvidence(purchase)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrInvoiceEvidenceMissing))
}

func (suite *EligibilityServiceTestSuite) TestCheckPurchaseInvoiceEvidence_NoneExpected() {
	purchase := draftPurchase()
	purchase.InvoiceType = domain.InvoiceNone
	purchase.InvoiceImages = nil

	suite.NoError(suite.service.CheckPurchaseInvoiceEvidence(purchase))
}

func (suite *EligibilityServiceTestSuite) TestCheckDirectEvidence_NoImages() {
	claim := directClaim()
	claim.InvoiceImages = nil
	claim.ReceiptImages = nil

	err := suite.service.CheckDirectEvidence(claim)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrDirectEvidenceMissing))
}

func (suite *EligibilityServiceTestSuite) TestCheckDirectEvidence_ReceiptOnly() {
	claim := directClaim()
	claim.InvoiceImages = nil
	claim.ReceiptImages = []string{"receipt-1.png"}

	suite.NoError(suite.service.CheckDirectEvidence(claim))
}

func TestEligibilityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EligibilityServiceTestSuite))
}
