package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
)

var (
	// ErrInsufficientStock indicates an application asks for more than the
	// current stock snapshot holds.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrApplicationNotPending indicates the application already left PENDING.
	ErrApplicationNotPending = errors.New("inventory application is not pending")
)

// inventoryService covers goods receipts and stock applications. Deductions
// happen under a row lock so two concurrent approvals can never both draw
// the last of an item.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepositoryWithTx
	purchaseRepo  portsrepo.PurchaseReader
	workflowRepo  portsrepo.WorkflowLogRepositoryFacade
	numberingSvc  portssvc.NumberingSvcFacade
	employeeSvc   portssvc.EmployeeSvcFacade
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(
	inventoryRepo portsrepo.InventoryRepositoryWithTx,
	purchaseRepo portsrepo.PurchaseReader,
	workflowRepo portsrepo.WorkflowLogRepositoryFacade,
	numberingSvc portssvc.NumberingSvcFacade,
	employeeSvc portssvc.EmployeeSvcFacade,
) portssvc.InventorySvcFacade {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		purchaseRepo:  purchaseRepo,
		workflowRepo:  workflowRepo,
		numberingSvc:  numberingSvc,
		employeeSvc:   employeeSvc,
	}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// CreateStockItem registers a new stock item. Quantity starts at zero and
// only ever changes through movements.
func (s *inventoryService) CreateStockItem(ctx context.Context, req dto.CreateStockItemRequest, creatorID string) (*domain.StockItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: item name is required", apperrors.ErrValidation)
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, creatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	item := domain.StockItem{
		ItemID:   uuid.NewString(),
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.inventoryRepo.SaveStockItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save stock item: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Stock item created",
		slog.String("item_id", item.ItemID),
		slog.String("name", item.Name))

	return &item, nil
}

// RecordInbound registers a goods receipt against a purchase and bumps the
// stock snapshot in the same transaction.
func (s *inventoryService) RecordInbound(ctx context.Context, req dto.RecordInboundRequest, operatorID string) (*domain.StockMovement, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}
	if _, err := s.purchaseRepo.FindPurchaseByID(ctx, req.PurchaseID); err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.FindStockItemByID(ctx, req.ItemID); err != nil {
		return nil, err
	}

	now := time.Now()
	movement := domain.StockMovement{
		MovementID: uuid.NewString(),
		ItemID:     req.ItemID,
		Direction:  domain.MovementInbound,
		Quantity:   req.Quantity,
		PurchaseID: &req.PurchaseID,
		CreatedAt:  now,
		CreatedBy:  operatorID,
	}

	tx, err := s.inventoryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.inventoryRepo.Rollback(ctx, tx)

	if err := s.inventoryRepo.InsertMovementInTx(ctx, tx, movement); err != nil {
		return nil, fmt.Errorf("failed to insert stock movement: %w", err)
	}
	if err := s.inventoryRepo.AdjustStockQuantityInTx(ctx, tx, req.ItemID, req.Quantity, operatorID, now); err != nil {
		return nil, fmt.Errorf("failed to adjust stock for item %s: %w", req.ItemID, err)
	}

	if err := s.inventoryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Inbound movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("item_id", req.ItemID),
		slog.String("purchase_id", req.PurchaseID))

	return &movement, nil
}

// CreateApplication opens a PENDING request to draw items from stock.
func (s *inventoryService) CreateApplication(ctx context.Context, req dto.CreateApplicationRequest, applicantID string) (*domain.InventoryApplication, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, applicantID); err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.FindStockItemByID(ctx, req.ItemID); err != nil {
		return nil, err
	}

	now := time.Now()
	application := domain.InventoryApplication{
		ApplicationID: uuid.NewString(),
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		Reason:        req.Reason,
		ApplicantID:   applicantID,
		Status:        domain.ApplicationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     applicantID,
			LastUpdatedAt: now,
			LastUpdatedBy: applicantID,
		},
	}

	tx, err := s.inventoryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.inventoryRepo.Rollback(ctx, tx)

	number, err := s.numberingSvc.NextDocumentNumberInTx(ctx, tx, domain.EntityInventoryApplication, now)
	if err != nil {
		return nil, err
	}
	application.ApplicationNumber = number

	if err := s.inventoryRepo.InsertApplicationInTx(ctx, tx, application); err != nil {
		return nil, fmt.Errorf("failed to insert inventory application: %w", err)
	}

	entry := newWorkflowLog(domain.EntityInventoryApplication, application.ApplicationID, domain.ActionCreate,
		"", string(domain.ApplicationPending), applicantID, "", now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if err := s.inventoryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Inventory application created",
		slog.String("application_id", application.ApplicationID),
		slog.String("application_number", application.ApplicationNumber))

	return &application, nil
}

// ApproveApplication flips a pending application to APPROVED and deducts the
// requested quantity. The stock row is locked before the availability check,
// and the outbound movement shares the transaction with the deduction.
func (s *inventoryService) ApproveApplication(ctx context.Context, applicationID, operatorID string) (*domain.InventoryApplication, error) {
	application, err := s.inventoryRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w: application %s is %s", ErrApplicationNotPending, applicationID, application.Status)
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	tx, err := s.inventoryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.inventoryRepo.Rollback(ctx, tx)

	item, err := s.inventoryRepo.FindStockItemForUpdateInTx(ctx, tx, application.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Quantity.LessThan(application.Quantity) {
		return nil, fmt.Errorf("%w: item %s has %s, requested %s",
			ErrInsufficientStock, item.ItemID, item.Quantity, application.Quantity)
	}

	ok, err := s.inventoryRepo.TransitionApplicationStatusInTx(ctx, tx, applicationID,
		domain.ApplicationPending, domain.ApplicationApproved, operatorID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to transition application %s: %w", applicationID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: application %s changed state concurrently", ErrApplicationNotPending, applicationID)
	}

	if err := s.inventoryRepo.AdjustStockQuantityInTx(ctx, tx, application.ItemID, application.Quantity.Neg(), operatorID, now); err != nil {
		return nil, fmt.Errorf("failed to deduct stock for item %s: %w", application.ItemID, err)
	}

	movement := domain.StockMovement{
		MovementID:    uuid.NewString(),
		ItemID:        application.ItemID,
		Direction:     domain.MovementOutbound,
		Quantity:      application.Quantity,
		ApplicationID: &applicationID,
		CreatedAt:     now,
		CreatedBy:     operatorID,
	}
	if err := s.inventoryRepo.InsertMovementInTx(ctx, tx, movement); err != nil {
		return nil, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	entry := newWorkflowLog(domain.EntityInventoryApplication, applicationID, domain.ActionApprove,
		string(domain.ApplicationPending), string(domain.ApplicationApproved), operatorID, "", now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if err := s.inventoryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Inventory application approved",
		slog.String("application_id", applicationID),
		slog.String("item_id", application.ItemID))

	return s.inventoryRepo.FindApplicationByID(ctx, applicationID)
}

// RejectApplication flips a pending application to REJECTED with a reason.
// Stock is untouched.
func (s *inventoryService) RejectApplication(ctx context.Context, applicationID, operatorID, reason string) (*domain.InventoryApplication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}

	application, err := s.inventoryRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w: application %s is %s", ErrApplicationNotPending, applicationID, application.Status)
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	tx, err := s.inventoryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.inventoryRepo.Rollback(ctx, tx)

	ok, err := s.inventoryRepo.TransitionApplicationStatusInTx(ctx, tx, applicationID,
		domain.ApplicationPending, domain.ApplicationRejected, operatorID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to transition application %s: %w", applicationID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: application %s changed state concurrently", ErrApplicationNotPending, applicationID)
	}

	entry := newWorkflowLog(domain.EntityInventoryApplication, applicationID, domain.ActionReject,
		string(domain.ApplicationPending), string(domain.ApplicationRejected), operatorID, reason, now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if err := s.inventoryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.inventoryRepo.FindApplicationByID(ctx, applicationID)
}

// GetStockItem retrieves the current stock snapshot for an item.
func (s *inventoryService) GetStockItem(ctx context.Context, itemID string) (*domain.StockItem, error) {
	return s.inventoryRepo.FindStockItemByID(ctx, itemID)
}

// GetApplication retrieves a single inventory application.
func (s *inventoryService) GetApplication(ctx context.Context, applicationID string) (*domain.InventoryApplication, error) {
	return s.inventoryRepo.FindApplicationByID(ctx, applicationID)
}
