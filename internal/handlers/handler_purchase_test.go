package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/core/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/handlers"
	"github.com/stefan-ysh/procure_approval_app/internal/platform/config"
	"github.com/stefan-ysh/procure_approval_app/internal/utils"
)

// --- Mock PurchaseService ---
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, creatorID string) (*domain.Purchase, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) UpdatePurchase(ctx context.Context, purchaseID string, req dto.UpdatePurchaseRequest, operatorID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID, req, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) SubmitPurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) ApprovePurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) RejectPurchase(ctx context.Context, purchaseID, operatorID, reason string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID, operatorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) WithdrawPurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) MarkPurchasePaid(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) DeletePurchase(ctx context.Context, purchaseID, operatorID string) error {
	args := m.Called(ctx, purchaseID, operatorID)
	return args.Error(0)
}
func (m *MockPurchaseService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockPurchaseService) ListPurchases(ctx context.Context, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPurchasesResponse), args.Error(1)
}
func (m *MockPurchaseService) GetPurchaseLogs(ctx context.Context, purchaseID string) ([]domain.WorkflowLog, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkflowLog), args.Error(1)
}

var _ portssvc.PurchaseSvcFacade = (*MockPurchaseService)(nil)

// --- Test Suite ---
type PurchaseHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockPurchaseService
	cfg         *config.Config
}

func (suite *PurchaseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "poa-test",
	}

	suite.mockService = new(MockPurchaseService)
	handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		Purchase: suite.mockService,
	})
}

func (suite *PurchaseHandlerTestSuite) generateTestToken(employeeID string) string {
	token, err := utils.GenerateJWT(employeeID, suite.cfg.JWTSecret, suite.cfg.JWTExpiryDuration, suite.cfg.JWTIssuer)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *PurchaseHandlerTestSuite) doRequest(method, url, employeeID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if employeeID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(employeeID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testPurchase() *domain.Purchase {
	p := &domain.Purchase{
		PurchaseID:     "purchase-123",
		PurchaseNumber: "PR-202608-0001",
		ItemName:       "Projector",
		Quantity:       decimal.NewFromInt(2),
		UnitPrice:      decimal.NewFromFloat(499.99),
		PaymentMethod:  domain.PaymentBankTransfer,
		InvoiceType:    domain.InvoiceGeneral,
		InvoiceStatus:  domain.InvoiceReceived,
		InvoiceImages:  []string{"img-1.png"},
		OrgScope:       domain.ScopeCompany,
		ApplicantID:    "emp-1",
		Status:         domain.PurchaseDraft,
	}
	p.RecomputeTotal()
	return p
}

func (suite *PurchaseHandlerTestSuite) TestCreatePurchase_Success() {
	purchase := testPurchase()
	reqBody := dto.CreatePurchaseRequest{
		ItemName:      "Projector",
		Quantity:      decimal.NewFromInt(2),
		UnitPrice:     decimal.NewFromFloat(499.99),
		PaymentMethod: domain.PaymentBankTransfer,
		InvoiceType:   domain.InvoiceGeneral,
		InvoiceStatus: domain.InvoiceReceived,
		InvoiceImages: []string{"img-1.png"},
		OrgScope:      domain.ScopeCompany,
	}

	suite.mockService.On("CreatePurchase", mock.Anything, mock.MatchedBy(func(r dto.CreatePurchaseRequest) bool {
		return r.ItemName == "Projector" && r.OrgScope == domain.ScopeCompany
	}), "emp-1").Return(purchase, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/purchases", "emp-1", reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PurchaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("PR-202608-0001", resp.PurchaseNumber)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PurchaseHandlerTestSuite) TestCreatePurchase_MissingToken() {
	w := suite.doRequest(http.MethodPost, "/api/v1/purchases", "", dto.CreatePurchaseRequest{})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreatePurchase", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseHandlerTestSuite) TestGetPurchase_NotFound() {
	suite.mockService.On("GetPurchaseByID", mock.Anything, "missing-id").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/purchases/missing-id", "emp-1", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PurchaseHandlerTestSuite) TestSubmitPurchase_Conflict() {
	suite.mockService.On("SubmitPurchase", mock.Anything, "purchase-123", "emp-1").
		Return(nil, services.ErrPurchaseNotSubmittable).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/purchases/purchase-123/submit", "emp-1", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PurchaseHandlerTestSuite) TestRejectPurchase_MissingReason() {
	w := suite.doRequest(http.MethodPost, "/api/v1/purchases/purchase-123/reject", "emp-1", gin.H{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "RejectPurchase",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseHandlerTestSuite) TestMarkPurchasePaid_Success() {
	paid := testPurchase()
	paid.Status = domain.PurchasePaid

	suite.mockService.On("MarkPurchasePaid", mock.Anything, "purchase-123", "fin-1").
		Return(paid, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/purchases/purchase-123/pay", "fin-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PurchaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.PurchasePaid, resp.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PurchaseHandlerTestSuite) TestListPurchases_PassesQueryParams() {
	expected := &dto.ListPurchasesResponse{
		Purchases: []dto.PurchaseResponse{{PurchaseID: "purchase-123"}},
	}

	suite.mockService.On("ListPurchases", mock.Anything, mock.MatchedBy(func(p dto.ListPurchasesParams) bool {
		return p.Limit == 5 && p.ApplicantID != nil && *p.ApplicantID == "emp-1"
	})).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/purchases?limit=5&applicantID=emp-1", "emp-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListPurchasesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Purchases, 1)
	suite.mockService.AssertExpectations(suite.T())
}

func TestPurchaseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseHandlerTestSuite))
}
