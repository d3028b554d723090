package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

// fakeTx satisfies pgx.Tx for passing through mocked repositories. The
// services never touch the transaction directly, so the embedded nil
// interface is never called.
type fakeTx struct {
	pgx.Tx
}

// MockPurchaseRepository is a mock implementation of PurchaseRepositoryWithTx.
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListPurchases(ctx context.Context, applicantID *string, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	args := m.Called(ctx, applicantID, limit, nextToken)
	var purchases []domain.Purchase
	if args.Get(0) != nil {
		purchases = args.Get(0).([]domain.Purchase)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return purchases, token, args.Error(2)
}

func (m *MockPurchaseRepository) InsertPurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error {
	args := m.Called(ctx, tx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) UpdatePurchaseFieldsInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase, from []domain.PurchaseStatus) (bool, error) {
	args := m.Called(ctx, tx, purchase, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) TransitionPurchaseStatusInTx(ctx context.Context, tx pgx.Tx, purchaseID string, from []domain.PurchaseStatus, change portsrepo.PurchaseStatusChange) (bool, error) {
	args := m.Called(ctx, tx, purchaseID, from, change)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) SoftDeletePurchaseInTx(ctx context.Context, tx pgx.Tx, purchaseID string, from []domain.PurchaseStatus, operatorID string, at time.Time) (bool, error) {
	args := m.Called(ctx, tx, purchaseID, from, operatorID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPurchaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPurchaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockReimbursementRepository is a mock implementation of ReimbursementRepositoryWithTx.
type MockReimbursementRepository struct {
	mock.Mock
}

func (m *MockReimbursementRepository) FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	args := m.Called(ctx, reimbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reimbursement), args.Error(1)
}

func (m *MockReimbursementRepository) CountActiveBySourcePurchase(ctx context.Context, purchaseID string, excludeID *string) (int, error) {
	args := m.Called(ctx, purchaseID, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *MockReimbursementRepository) ListReimbursements(ctx context.Context, applicantID *string, limit int, nextToken *string) ([]domain.Reimbursement, *string, error) {
	args := m.Called(ctx, applicantID, limit, nextToken)
	var reimbursements []domain.Reimbursement
	if args.Get(0) != nil {
		reimbursements = args.Get(0).([]domain.Reimbursement)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return reimbursements, token, args.Error(2)
}

func (m *MockReimbursementRepository) InsertReimbursementInTx(ctx context.Context, tx pgx.Tx, reimbursement domain.Reimbursement) error {
	args := m.Called(ctx, tx, reimbursement)
	return args.Error(0)
}

func (m *MockReimbursementRepository) UpdateReimbursementFieldsInTx(ctx context.Context, tx pgx.Tx, reimbursement domain.Reimbursement, from []domain.ReimbursementStatus) (bool, error) {
	args := m.Called(ctx, tx, reimbursement, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockReimbursementRepository) TransitionReimbursementStatusInTx(ctx context.Context, tx pgx.Tx, reimbursementID string, from []domain.ReimbursementStatus, change portsrepo.ReimbursementStatusChange) (bool, error) {
	args := m.Called(ctx, tx, reimbursementID, from, change)
	return args.Bool(0), args.Error(1)
}

func (m *MockReimbursementRepository) SoftDeleteReimbursementInTx(ctx context.Context, tx pgx.Tx, reimbursementID string, from []domain.ReimbursementStatus, operatorID string, at time.Time) (bool, error) {
	args := m.Called(ctx, tx, reimbursementID, from, operatorID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockReimbursementRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockReimbursementRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockReimbursementRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockWorkflowLogRepository is a mock implementation of WorkflowLogRepositoryFacade.
type MockWorkflowLogRepository struct {
	mock.Mock
}

func (m *MockWorkflowLogRepository) AppendLogInTx(ctx context.Context, tx pgx.Tx, entry domain.WorkflowLog) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockWorkflowLogRepository) ListLogsByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.WorkflowLog, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkflowLog), args.Error(1)
}

// MockEmployeeRepository is a mock implementation of EmployeeRepositoryFacade.
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) ListApproverLoads(ctx context.Context, role domain.EmployeeRole) ([]domain.ApproverLoad, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApproverLoad), args.Error(1)
}

func (m *MockEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

// MockInventoryRepository is a mock implementation of InventoryRepositoryWithTx.
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) HasInboundMovementForPurchase(ctx context.Context, purchaseID string) (bool, error) {
	args := m.Called(ctx, purchaseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) FindStockItemByID(ctx context.Context, itemID string) (*domain.StockItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockItem), args.Error(1)
}

func (m *MockInventoryRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.InventoryApplication, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryApplication), args.Error(1)
}

func (m *MockInventoryRepository) ListMovementsByPurchase(ctx context.Context, purchaseID string) ([]domain.StockMovement, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func (m *MockInventoryRepository) SaveStockItem(ctx context.Context, item domain.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindStockItemForUpdateInTx(ctx context.Context, tx pgx.Tx, itemID string) (*domain.StockItem, error) {
	args := m.Called(ctx, tx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockItem), args.Error(1)
}

func (m *MockInventoryRepository) AdjustStockQuantityInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal, operatorID string, at time.Time) error {
	args := m.Called(ctx, tx, itemID, delta, operatorID, at)
	return args.Error(0)
}

func (m *MockInventoryRepository) InsertMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.StockMovement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) InsertApplicationInTx(ctx context.Context, tx pgx.Tx, application domain.InventoryApplication) error {
	args := m.Called(ctx, tx, application)
	return args.Error(0)
}

func (m *MockInventoryRepository) TransitionApplicationStatusInTx(ctx context.Context, tx pgx.Tx, applicationID string, from, to domain.ApplicationStatus, operatorID string, at time.Time) (bool, error) {
	args := m.Called(ctx, tx, applicationID, from, to, operatorID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInventoryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInventoryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockFinanceRepository is a mock implementation of FinanceRepositoryFacade.
type MockFinanceRepository struct {
	mock.Mock
}

func (m *MockFinanceRepository) FindExpenseBySourceInTx(ctx context.Context, tx pgx.Tx, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error) {
	args := m.Called(ctx, tx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceExpenseRecord), args.Error(1)
}

func (m *MockFinanceRepository) InsertExpenseInTx(ctx context.Context, tx pgx.Tx, record domain.FinanceExpenseRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockFinanceRepository) FindExpenseBySource(ctx context.Context, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceExpenseRecord), args.Error(1)
}

func (m *MockFinanceRepository) ListExpenses(ctx context.Context, limit int, nextToken *string) ([]domain.FinanceExpenseRecord, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var records []domain.FinanceExpenseRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.FinanceExpenseRecord)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return records, token, args.Error(2)
}

// MockNumberingRepository is a mock implementation of NumberingRepositoryFacade.
type MockNumberingRepository struct {
	mock.Mock
}

func (m *MockNumberingRepository) NextCounterInTx(ctx context.Context, tx pgx.Tx, entityType domain.EntityType, period string) (int64, error) {
	args := m.Called(ctx, tx, entityType, period)
	return args.Get(0).(int64), args.Error(1)
}

// MockFinanceService is a mock implementation of FinanceSvcFacade.
type MockFinanceService struct {
	mock.Mock
}

func (m *MockFinanceService) SyncExpenseInTx(ctx context.Context, tx pgx.Tx, input dto.ExpenseSyncInput) (*domain.FinanceExpenseRecord, error) {
	args := m.Called(ctx, tx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceExpenseRecord), args.Error(1)
}

func (m *MockFinanceService) GetExpenseBySource(ctx context.Context, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceExpenseRecord), args.Error(1)
}

func (m *MockFinanceService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExpensesResponse), args.Error(1)
}

// MockNumberingService is a mock implementation of NumberingSvcFacade.
type MockNumberingService struct {
	mock.Mock
}

func (m *MockNumberingService) NextDocumentNumberInTx(ctx context.Context, tx pgx.Tx, entityType domain.EntityType, now time.Time) (string, error) {
	args := m.Called(ctx, tx, entityType, now)
	return args.String(0), args.Error(1)
}

// MockEmployeeService is a mock implementation of EmployeeSvcFacade.
type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeService) FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeService) EnsureEmployeeRecordExists(ctx context.Context, employeeID string) error {
	args := m.Called(ctx, employeeID)
	return args.Error(0)
}

func (m *MockEmployeeService) Authenticate(ctx context.Context, email, password string) (*domain.Employee, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorID string) (*domain.Employee, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

// MockApproverService is a mock implementation of ApproverAssignerSvc.
type MockApproverService struct {
	mock.Mock
}

func (m *MockApproverService) AssignApprover(ctx context.Context, scope domain.OrgScope) (*domain.Employee, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

// MockEligibilityService is a mock implementation of EligibilityCheckerSvc.
type MockEligibilityService struct {
	mock.Mock
}

func (m *MockEligibilityService) CheckPurchaseReimbursable(purchase *domain.Purchase) error {
	args := m.Called(purchase)
	return args.Error(0)
}

func (m *MockEligibilityService) CheckSingleLink(ctx context.Context, purchaseID string, excludeID *string) error {
	args := m.Called(ctx, purchaseID, excludeID)
	return args.Error(0)
}

func (m *MockEligibilityService) CheckInboundReady(ctx context.Context, purchaseID string) error {
	args := m.Called(ctx, purchaseID)
	return args.Error(0)
}

func (m *MockEligibilityService) CheckPurchaseInvoiceEvidence(purchase *domain.Purchase) error {
	args := m.Called(purchase)
	return args.Error(0)
}

func (m *MockEligibilityService) CheckDirectEvidence(reimbursement *domain.Reimbursement) error {
	args := m.Called(reimbursement)
	return args.Error(0)
}
