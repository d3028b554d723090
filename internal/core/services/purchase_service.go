package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
)

var (
	// ErrPurchaseNotEditable indicates the purchase left the editable states.
	ErrPurchaseNotEditable = errors.New("purchase can only be edited while draft or rejected")

	// ErrPurchaseNotSubmittable indicates the purchase is not in a state that
	// allows submission.
	ErrPurchaseNotSubmittable = errors.New("purchase is not in a submittable state")

	// ErrPurchaseNotApprovable indicates the purchase is not awaiting approval.
	ErrPurchaseNotApprovable = errors.New("purchase is not awaiting approval")

	// ErrPurchaseNotWithdrawable indicates the purchase is not awaiting
	// approval, so there is nothing to withdraw.
	ErrPurchaseNotWithdrawable = errors.New("only a pending purchase can be withdrawn")

	// ErrPurchaseNotPayable indicates the purchase has not been approved yet.
	ErrPurchaseNotPayable = errors.New("purchase must be approved before it can be paid")

	// ErrPurchaseNotDeletable indicates the purchase left the states that
	// still allow deletion.
	ErrPurchaseNotDeletable = errors.New("purchase can only be deleted while draft or rejected")

	// ErrRejectReasonRequired indicates a reject was attempted without a reason.
	ErrRejectReasonRequired = errors.New("a rejection reason is required")
)

// purchaseExpenseCategory is the bookkeeping category stamped on expense
// records created from paid purchases.
const purchaseExpenseCategory = "PROCUREMENT"

// purchaseService implements the purchase state machine. Every transition is
// a single transaction holding the status-guarded update, the workflow log
// entry and any dependent write.
type purchaseService struct {
	purchaseRepo   portsrepo.PurchaseRepositoryWithTx
	workflowRepo   portsrepo.WorkflowLogRepositoryFacade
	financeSvc     portssvc.FinanceSvcFacade
	numberingSvc   portssvc.NumberingSvcFacade
	employeeSvc    portssvc.EmployeeSvcFacade
	eligibilitySvc portssvc.EligibilityCheckerSvc
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(
	purchaseRepo portsrepo.PurchaseRepositoryWithTx,
	workflowRepo portsrepo.WorkflowLogRepositoryFacade,
	financeSvc portssvc.FinanceSvcFacade,
	numberingSvc portssvc.NumberingSvcFacade,
	employeeSvc portssvc.EmployeeSvcFacade,
	eligibilitySvc portssvc.EligibilityCheckerSvc,
) portssvc.PurchaseSvcFacade {
	return &purchaseService{
		purchaseRepo:   purchaseRepo,
		workflowRepo:   workflowRepo,
		financeSvc:     financeSvc,
		numberingSvc:   numberingSvc,
		employeeSvc:    employeeSvc,
		eligibilitySvc: eligibilitySvc,
	}
}

var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

func newWorkflowLog(entityType domain.EntityType, entityID string, action domain.WorkflowAction, from, to, operatorID, comment string, at time.Time) domain.WorkflowLog {
	return domain.WorkflowLog{
		LogID:      uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		OperatorID: operatorID,
		Comment:    comment,
		CreatedAt:  at,
	}
}

// CreatePurchase creates a new purchase in DRAFT with a fresh document number.
func (s *purchaseService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, creatorID string) (*domain.Purchase, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if !req.UnitPrice.IsPositive() {
		return nil, fmt.Errorf("%w: unit price must be positive", apperrors.ErrValidation)
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, creatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	purchase := domain.Purchase{
		PurchaseID:    uuid.NewString(),
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		PaymentMethod: req.PaymentMethod,
		InvoiceType:   req.InvoiceType,
		InvoiceStatus: req.InvoiceStatus,
		InvoiceImages: req.InvoiceImages,
		ProjectID:     req.ProjectID,
		SupplierID:    req.SupplierID,
		OrgScope:      req.OrgScope,
		ApplicantID:   creatorID,
		Status:        domain.PurchaseDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	purchase.RecomputeTotal()

	tx, err := s.purchaseRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.purchaseRepo.Rollback(ctx, tx)

	number, err := s.numberingSvc.NextDocumentNumberInTx(ctx, tx, domain.EntityPurchase, now)
	if err != nil {
		return nil, err
	}
	purchase.PurchaseNumber = number

	if err := s.purchaseRepo.InsertPurchaseInTx(ctx, tx, purchase); err != nil {
		return nil, fmt.Errorf("failed to insert purchase: %w", err)
	}

	entry := newWorkflowLog(domain.EntityPurchase, purchase.PurchaseID, domain.ActionCreate,
		"", string(domain.PurchaseDraft), creatorID, "", now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if err := s.purchaseRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Purchase created",
		slog.String("purchase_id", purchase.PurchaseID),
		slog.String("purchase_number", purchase.PurchaseNumber))

	return &purchase, nil
}

// UpdatePurchase edits the descriptive fields of a draft or rejected
// purchase. The total is recomputed whenever quantity or unit price changes.
func (s *purchaseService) UpdatePurchase(ctx context.Context, purchaseID string, req dto.UpdatePurchaseRequest, operatorID string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if !purchase.Editable() {
		return nil, fmt.Errorf("%w: purchase %s is %s", ErrPurchaseNotEditable, purchaseID, purchase.Status)
	}

	if req.ItemName != nil {
		purchase.ItemName = *req.ItemName
	}
	if req.Quantity != nil {
		purchase.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		purchase.UnitPrice = *req.UnitPrice
	}
	if req.PaymentMethod != nil {
		purchase.PaymentMethod = *req.PaymentMethod
	}
	if req.InvoiceType != nil {
		purchase.InvoiceType = *req.InvoiceType
	}
	if req.InvoiceStatus != nil {
		purchase.InvoiceStatus = *req.InvoiceStatus
	}
	if req.InvoiceImages != nil {
		purchase.InvoiceImages = *req.InvoiceImages
	}
	if req.ProjectID != nil {
		purchase.ProjectID = req.ProjectID
	}
	if req.SupplierID != nil {
		purchase.SupplierID = req.SupplierID
	}

	if !purchase.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if !purchase.UnitPrice.IsPositive() {
		return nil, fmt.Errorf("%w: unit price must be positive", apperrors.ErrValidation)
	}
	purchase.RecomputeTotal()

	now := time.Now()
	purchase.LastUpdatedAt = now
	purchase.LastUpdatedBy = operatorID

	tx, err := s.purchaseRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.purchaseRepo.Rollback(ctx, tx)

	editableStates := []domain.PurchaseStatus{domain.PurchaseDraft, domain.PurchaseRejected}
	ok, err := s.purchaseRepo.UpdatePurchaseFieldsInTx(ctx, tx, *purchase, editableStates)
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase %s: %w", purchaseID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: purchase %s changed state concurrently", ErrPurchaseNotEditable, purchaseID)
	}

	if err := s.purchaseRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return purchase, nil
}

// SubmitPurchase moves a draft or rejected purchase into PENDING_APPROVAL.
// Resubmission after rejection clears the previous rejection stamps.
func (s *purchaseService) SubmitPurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}
	if err := s.eligibilitySvc.CheckPurchaseInvoiceEvidence(purchase); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyTransition(ctx, purchase, operatorID, purchaseTransition{
		action: domain.ActionSubmit,
		from:   []domain.PurchaseStatus{domain.PurchaseDraft, domain.PurchaseRejected},
		change: portsrepo.PurchaseStatusChange{
			To:             domain.PurchasePendingApproval,
			SubmittedAt:    &now,
			ClearRejection: true,
			UpdatedBy:      operatorID,
			UpdatedAt:      now,
		},
		guardErr: ErrPurchaseNotSubmittable,
	})
}

// ApprovePurchase moves a pending purchase to APPROVED.
func (s *purchaseService) ApprovePurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyTransition(ctx, purchase, operatorID, purchaseTransition{
		action: domain.ActionApprove,
		from:   []domain.PurchaseStatus{domain.PurchasePendingApproval},
		change: portsrepo.PurchaseStatusChange{
			To:         domain.PurchaseApproved,
			ApprovedAt: &now,
			ApprovedBy: &operatorID,
			UpdatedBy:  operatorID,
			UpdatedAt:  now,
		},
		guardErr: ErrPurchaseNotApprovable,
	})
}

// RejectPurchase moves a pending purchase to REJECTED with a mandatory reason.
func (s *purchaseService) RejectPurchase(ctx context.Context, purchaseID, operatorID, reason string) (*domain.Purchase, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}

	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyTransition(ctx, purchase, operatorID, purchaseTransition{
		action: domain.ActionReject,
		from:   []domain.PurchaseStatus{domain.PurchasePendingApproval},
		change: portsrepo.PurchaseStatusChange{
			To:           domain.PurchaseRejected,
			RejectedAt:   &now,
			RejectedBy:   &operatorID,
			RejectReason: &reason,
			UpdatedBy:    operatorID,
			UpdatedAt:    now,
		},
		comment:  reason,
		guardErr: ErrPurchaseNotApprovable,
	})
}

// WithdrawPurchase cancels a pending purchase at the applicant's request.
func (s *purchaseService) WithdrawPurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyTransition(ctx, purchase, operatorID, purchaseTransition{
		action: domain.ActionWithdraw,
		from:   []domain.PurchaseStatus{domain.PurchasePendingApproval},
		change: portsrepo.PurchaseStatusChange{
			To:        domain.PurchaseCancelled,
			UpdatedBy: operatorID,
			UpdatedAt: now,
		},
		guardErr: ErrPurchaseNotWithdrawable,
	})
}

// MarkPurchasePaid settles an approved purchase and creates the matching
// finance expense record in the same transaction. If the expense insert
// fails, the status change and the log entry roll back with it.
func (s *purchaseService) MarkPurchasePaid(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyTransition(ctx, purchase, operatorID, purchaseTransition{
		action: domain.ActionPay,
		from:   []domain.PurchaseStatus{domain.PurchaseApproved},
		change: portsrepo.PurchaseStatusChange{
			To:        domain.PurchasePaid,
			PaidAt:    &now,
			PaidBy:    &operatorID,
			UpdatedBy: operatorID,
			UpdatedAt: now,
		},
		guardErr: ErrPurchaseNotPayable,
		inTx: func(ctx context.Context, tx pgx.Tx) error {
			_, err := s.financeSvc.SyncExpenseInTx(ctx, tx, dto.ExpenseSyncInput{
				SourceType:  domain.ExpenseFromPurchase,
				SourceID:    purchase.PurchaseID,
				Amount:      purchase.TotalAmount,
				Category:    purchaseExpenseCategory,
				ExpenseDate: now,
				OperatorID:  operatorID,
				Now:         now,
			})
			return err
		},
	})
}

// DeletePurchase soft-deletes a draft or rejected purchase.
func (s *purchaseService) DeletePurchase(ctx context.Context, purchaseID, operatorID string) error {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return err
	}
	if !purchase.Editable() {
		return fmt.Errorf("%w: purchase %s is %s", ErrPurchaseNotDeletable, purchaseID, purchase.Status)
	}

	now := time.Now()
	tx, err := s.purchaseRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.purchaseRepo.Rollback(ctx, tx)

	deletableStates := []domain.PurchaseStatus{domain.PurchaseDraft, domain.PurchaseRejected}
	ok, err := s.purchaseRepo.SoftDeletePurchaseInTx(ctx, tx, purchaseID, deletableStates, operatorID, now)
	if err != nil {
		return fmt.Errorf("failed to delete purchase %s: %w", purchaseID, err)
	}
	if !ok {
		return fmt.Errorf("%w: purchase %s changed state concurrently", ErrPurchaseNotDeletable, purchaseID)
	}

	entry := newWorkflowLog(domain.EntityPurchase, purchaseID, domain.ActionDelete,
		string(purchase.Status), string(domain.PurchaseCancelled), operatorID, "", now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append workflow log: %w", err)
	}

	if err := s.purchaseRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Purchase deleted", slog.String("purchase_id", purchaseID))
	return nil
}

// GetPurchaseByID retrieves a single purchase.
func (s *purchaseService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	return s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
}

// ListPurchases returns a page of purchases, optionally filtered by applicant.
func (s *purchaseService) ListPurchases(ctx context.Context, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	purchases, nextToken, err := s.purchaseRepo.ListPurchases(ctx, params.ApplicantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return &dto.ListPurchasesResponse{
		Purchases: dto.ToPurchaseResponses(purchases),
		NextToken: nextToken,
	}, nil
}

// GetPurchaseLogs returns the audit trail for a purchase, oldest first.
func (s *purchaseService) GetPurchaseLogs(ctx context.Context, purchaseID string) ([]domain.WorkflowLog, error) {
	if _, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID); err != nil {
		return nil, err
	}
	return s.workflowRepo.ListLogsByEntity(ctx, domain.EntityPurchase, purchaseID)
}

// purchaseTransition describes one guarded status move: the allowed source
// states, the change to apply, and an optional extra write sharing the
// transaction.
type purchaseTransition struct {
	action   domain.WorkflowAction
	from     []domain.PurchaseStatus
	change   portsrepo.PurchaseStatusChange
	comment  string
	guardErr error
	inTx     func(ctx context.Context, tx pgx.Tx) error
}

// applyTransition runs the guarded status update, the workflow log append and
// the optional dependent write in one transaction. A guard miss is reported
// with the transition's sentinel and the state actually observed.
func (s *purchaseService) applyTransition(ctx context.Context, purchase *domain.Purchase, operatorID string, t purchaseTransition) (*domain.Purchase, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	purchaseID := purchase.PurchaseID

	tx, err := s.purchaseRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.purchaseRepo.Rollback(ctx, tx)

	ok, err := s.purchaseRepo.TransitionPurchaseStatusInTx(ctx, tx, purchaseID, t.from, t.change)
	if err != nil {
		return nil, fmt.Errorf("failed to transition purchase %s: %w", purchaseID, err)
	}
	if !ok {
		current, findErr := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: purchase %s is %s", t.guardErr, purchaseID, current.Status)
	}

	entry := newWorkflowLog(domain.EntityPurchase, purchaseID, t.action,
		string(purchase.Status), string(t.change.To), operatorID, t.comment, t.change.UpdatedAt)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if t.inTx != nil {
		if err := t.inTx(ctx, tx); err != nil {
			return nil, err
		}
	}

	if err := s.purchaseRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Purchase transitioned",
		slog.String("purchase_id", purchaseID),
		slog.String("action", string(t.action)),
		slog.String("from", string(purchase.Status)),
		slog.String("to", string(t.change.To)))

	return s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
}
