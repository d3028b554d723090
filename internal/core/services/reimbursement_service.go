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
	// ErrReimbursementNotEditable indicates the claim left the editable states.
	ErrReimbursementNotEditable = errors.New("reimbursement can only be edited while draft or rejected")

	// ErrReimbursementNotSubmittable indicates the claim is not in a state
	// that allows submission.
	ErrReimbursementNotSubmittable = errors.New("reimbursement is not in a submittable state")

	// ErrReimbursementNotApprovable indicates the claim is not awaiting approval.
	ErrReimbursementNotApprovable = errors.New("reimbursement is not awaiting approval")

	// ErrReimbursementNotWithdrawable indicates the claim is not awaiting
	// approval, so there is nothing to withdraw.
	ErrReimbursementNotWithdrawable = errors.New("only a pending reimbursement can be withdrawn")

	// ErrReimbursementNotPayable indicates the claim is in a state that can
	// never reach PAID directly.
	ErrReimbursementNotPayable = errors.New("reimbursement must be approved or pending before it can be paid")

	// ErrReimbursementNotDeletable indicates the claim left the states that
	// still allow deletion.
	ErrReimbursementNotDeletable = errors.New("reimbursement can only be deleted while draft or rejected")

	// ErrSourcePurchaseRequired indicates a purchase-sourced claim carries no
	// source purchase id.
	ErrSourcePurchaseRequired = errors.New("sourcePurchaseID is required for purchase-sourced reimbursements")

	// ErrSourceRetargetLocked indicates an attempt to change the source
	// purchase linkage after the claim entered the approval pipeline.
	ErrSourceRetargetLocked = errors.New("source purchase cannot be changed after submission")

	// ErrDetailFieldMissing indicates a required category detail field is
	// absent. The wrapped message names the field.
	ErrDetailFieldMissing = errors.New("required category detail field missing")
)

// reimbursementService implements the reimbursement state machine, including
// the cross-entity eligibility gates and approver assignment on submit.
type reimbursementService struct {
	reimbursementRepo portsrepo.ReimbursementRepositoryWithTx
	purchaseRepo      portsrepo.PurchaseReader
	workflowRepo      portsrepo.WorkflowLogRepositoryFacade
	financeSvc        portssvc.FinanceSvcFacade
	numberingSvc      portssvc.NumberingSvcFacade
	approverSvc       portssvc.ApproverAssignerSvc
	eligibilitySvc    portssvc.EligibilityCheckerSvc
	employeeSvc       portssvc.EmployeeSvcFacade
}

// NewReimbursementService creates a new ReimbursementService.
func NewReimbursementService(
	reimbursementRepo portsrepo.ReimbursementRepositoryWithTx,
	purchaseRepo portsrepo.PurchaseReader,
	workflowRepo portsrepo.WorkflowLogRepositoryFacade,
	financeSvc portssvc.FinanceSvcFacade,
	numberingSvc portssvc.NumberingSvcFacade,
	approverSvc portssvc.ApproverAssignerSvc,
	eligibilitySvc portssvc.EligibilityCheckerSvc,
	employeeSvc portssvc.EmployeeSvcFacade,
) portssvc.ReimbursementSvcFacade {
	return &reimbursementService{
		reimbursementRepo: reimbursementRepo,
		purchaseRepo:      purchaseRepo,
		workflowRepo:      workflowRepo,
		financeSvc:        financeSvc,
		numberingSvc:      numberingSvc,
		approverSvc:       approverSvc,
		eligibilitySvc:    eligibilitySvc,
		employeeSvc:       employeeSvc,
	}
}

var _ portssvc.ReimbursementSvcFacade = (*reimbursementService)(nil)

// resolveSourcePurchase validates the purchase linkage of a purchase-sourced
// claim and returns the purchase whose scope the claim inherits.
func (s *reimbursementService) resolveSourcePurchase(ctx context.Context, sourcePurchaseID *string, excludeID *string) (*domain.Purchase, error) {
	if sourcePurchaseID == nil || *sourcePurchaseID == "" {
		return nil, ErrSourcePurchaseRequired
	}
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, *sourcePurchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.eligibilitySvc.CheckPurchaseReimbursable(purchase); err != nil {
		return nil, err
	}
	if err := s.eligibilitySvc.CheckSingleLink(ctx, purchase.PurchaseID, excludeID); err != nil {
		return nil, err
	}
	return purchase, nil
}

// CreateReimbursement creates a new claim in DRAFT. Purchase-sourced claims
// inherit the organization scope of their source purchase.
func (s *reimbursementService) CreateReimbursement(ctx context.Context, req dto.CreateReimbursementRequest, creatorID string) (*domain.Reimbursement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !domain.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, creatorID); err != nil {
		return nil, err
	}

	details, missing := domain.FilterCategoryDetails(req.Category, req.Details)
	if missing != "" {
		return nil, fmt.Errorf("%w: %s", ErrDetailFieldMissing, missing)
	}

	scope := req.OrgScope
	var sourcePurchaseID *string
	if req.SourceType == domain.SourcePurchase {
		purchase, err := s.resolveSourcePurchase(ctx, req.SourcePurchaseID, nil)
		if err != nil {
			return nil, err
		}
		scope = purchase.OrgScope
		sourcePurchaseID = req.SourcePurchaseID
	} else if scope == "" {
		return nil, fmt.Errorf("%w: orgScope is required for direct reimbursements", apperrors.ErrValidation)
	}

	now := time.Now()
	reimbursement := domain.Reimbursement{
		ReimbursementID:  uuid.NewString(),
		SourceType:       req.SourceType,
		SourcePurchaseID: sourcePurchaseID,
		OrgScope:         scope,
		Category:         req.Category,
		Title:            req.Title,
		Amount:           req.Amount,
		OccurredDate:     req.OccurredDate,
		Details:          details,
		InvoiceImages:    req.InvoiceImages,
		ReceiptImages:    req.ReceiptImages,
		Status:           domain.ReimbursementDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	tx, err := s.reimbursementRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reimbursementRepo.Rollback(ctx, tx)

	number, err := s.numberingSvc.NextDocumentNumberInTx(ctx, tx, domain.EntityReimbursement, now)
	if err != nil {
		return nil, err
	}
	reimbursement.ReimbursementNumber = number

	if err := s.reimbursementRepo.InsertReimbursementInTx(ctx, tx, reimbursement); err != nil {
		return nil, fmt.Errorf("failed to insert reimbursement: %w", err)
	}

	entry := newWorkflowLog(domain.EntityReimbursement, reimbursement.ReimbursementID, domain.ActionCreate,
		"", string(domain.ReimbursementDraft), creatorID, "", now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if err := s.reimbursementRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Reimbursement created",
		slog.String("reimbursement_id", reimbursement.ReimbursementID),
		slog.String("reimbursement_number", reimbursement.ReimbursementNumber),
		slog.String("source_type", string(reimbursement.SourceType)))

	return &reimbursement, nil
}

// UpdateReimbursement edits a draft or rejected claim. Retargeting the source
// purchase is refused once the claim has been submitted, unless it is
// currently rejected.
func (s *reimbursementService) UpdateReimbursement(ctx context.Context, reimbursementID string, req dto.UpdateReimbursementRequest, operatorID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if !reimbursement.Editable() {
		return nil, fmt.Errorf("%w: reimbursement %s is %s", ErrReimbursementNotEditable, reimbursementID, reimbursement.Status)
	}

	sourceChanged := false
	if req.SourceType != nil && *req.SourceType != reimbursement.SourceType {
		sourceChanged = true
	}
	if req.SourcePurchaseID != nil {
		if reimbursement.SourcePurchaseID == nil || *req.SourcePurchaseID != *reimbursement.SourcePurchaseID {
			sourceChanged = true
		}
	}
	if sourceChanged && reimbursement.SourceLocked() {
		return nil, fmt.Errorf("%w: reimbursement %s", ErrSourceRetargetLocked, reimbursementID)
	}

	if req.Title != nil {
		reimbursement.Title = *req.Title
	}
	if req.SourceType != nil {
		reimbursement.SourceType = *req.SourceType
	}
	if req.SourcePurchaseID != nil {
		reimbursement.SourcePurchaseID = req.SourcePurchaseID
	}
	if req.Category != nil {
		reimbursement.Category = *req.Category
	}
	if req.Amount != nil {
		reimbursement.Amount = *req.Amount
	}
	if req.OccurredDate != nil {
		reimbursement.OccurredDate = *req.OccurredDate
	}
	if req.Details != nil {
		reimbursement.Details = *req.Details
	}
	if req.InvoiceImages != nil {
		reimbursement.InvoiceImages = *req.InvoiceImages
	}
	if req.ReceiptImages != nil {
		reimbursement.ReceiptImages = *req.ReceiptImages
	}

	if !reimbursement.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !domain.ValidCategory(reimbursement.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, reimbursement.Category)
	}

	details, missing := domain.FilterCategoryDetails(reimbursement.Category, reimbursement.Details)
	if missing != "" {
		return nil, fmt.Errorf("%w: %s", ErrDetailFieldMissing, missing)
	}
	reimbursement.Details = details

	if reimbursement.SourceType == domain.SourcePurchase {
		purchase, err := s.resolveSourcePurchase(ctx, reimbursement.SourcePurchaseID, &reimbursementID)
		if err != nil {
			return nil, err
		}
		reimbursement.OrgScope = purchase.OrgScope
	} else {
		reimbursement.SourcePurchaseID = nil
		if req.OrgScope != nil {
			reimbursement.OrgScope = *req.OrgScope
		}
		if reimbursement.OrgScope == "" {
			return nil, fmt.Errorf("%w: orgScope is required for direct reimbursements", apperrors.ErrValidation)
		}
	}

	now := time.Now()
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = operatorID

	tx, err := s.reimbursementRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reimbursementRepo.Rollback(ctx, tx)

	editableStates := []domain.ReimbursementStatus{domain.ReimbursementDraft, domain.ReimbursementRejected}
	ok, err := s.reimbursementRepo.UpdateReimbursementFieldsInTx(ctx, tx, *reimbursement, editableStates)
	if err != nil {
		return nil, fmt.Errorf("failed to update reimbursement %s: %w", reimbursementID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: reimbursement %s changed state concurrently", ErrReimbursementNotEditable, reimbursementID)
	}

	if err := s.reimbursementRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reimbursement, nil
}

// SubmitReimbursement moves a draft or rejected claim into PENDING_APPROVAL
// after the evidence gates pass, assigning the least-loaded finance approver
// for the claim's scope. No approver available is a hard stop.
func (s *reimbursementService) SubmitReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	switch reimbursement.SourceType {
	case domain.SourcePurchase:
		if reimbursement.SourcePurchaseID == nil {
			return nil, ErrSourcePurchaseRequired
		}
		purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, *reimbursement.SourcePurchaseID)
		if err != nil {
			return nil, err
		}
		if err := s.eligibilitySvc.CheckPurchaseInvoiceEvidence(purchase); err != nil {
			return nil, err
		}
		if err := s.eligibilitySvc.CheckInboundReady(ctx, purchase.PurchaseID); err != nil {
			return nil, err
		}
	default:
		if err := s.eligibilitySvc.CheckDirectEvidence(reimbursement); err != nil {
			return nil, err
		}
	}

	approver, err := s.approverSvc.AssignApprover(ctx, reimbursement.OrgScope)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyReimbursementTransition(ctx, reimbursement, operatorID, reimbursementTransition{
		action: domain.ActionSubmit,
		from:   []domain.ReimbursementStatus{domain.ReimbursementDraft, domain.ReimbursementRejected},
		change: portsrepo.ReimbursementStatusChange{
			To:                domain.ReimbursementPendingApproval,
			PendingApproverID: &approver.EmployeeID,
			SubmittedAt:       &now,
			ClearRejection:    true,
			UpdatedBy:         operatorID,
			UpdatedAt:         now,
		},
		guardErr: ErrReimbursementNotSubmittable,
	})
}

// ApproveReimbursement moves a pending claim to APPROVED.
func (s *reimbursementService) ApproveReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyReimbursementTransition(ctx, reimbursement, operatorID, reimbursementTransition{
		action: domain.ActionApprove,
		from:   []domain.ReimbursementStatus{domain.ReimbursementPendingApproval},
		change: portsrepo.ReimbursementStatusChange{
			To:                   domain.ReimbursementApproved,
			ApprovedAt:           &now,
			ApprovedBy:           &operatorID,
			ClearPendingApprover: true,
			UpdatedBy:            operatorID,
			UpdatedAt:            now,
		},
		guardErr: ErrReimbursementNotApprovable,
	})
}

// RejectReimbursement moves a pending claim to REJECTED with a mandatory
// reason.
func (s *reimbursementService) RejectReimbursement(ctx context.Context, reimbursementID, operatorID, reason string) (*domain.Reimbursement, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}

	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyReimbursementTransition(ctx, reimbursement, operatorID, reimbursementTransition{
		action: domain.ActionReject,
		from:   []domain.ReimbursementStatus{domain.ReimbursementPendingApproval},
		change: portsrepo.ReimbursementStatusChange{
			To:                   domain.ReimbursementRejected,
			RejectedAt:           &now,
			RejectedBy:           &operatorID,
			RejectReason:         &reason,
			ClearPendingApprover: true,
			UpdatedBy:            operatorID,
			UpdatedAt:            now,
		},
		comment:  reason,
		guardErr: ErrReimbursementNotApprovable,
	})
}

// WithdrawReimbursement pulls a pending claim back to DRAFT. The submission
// stamp is kept, so a purchase-sourced claim stays locked to its source.
func (s *reimbursementService) WithdrawReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.applyReimbursementTransition(ctx, reimbursement, operatorID, reimbursementTransition{
		action: domain.ActionWithdraw,
		from:   []domain.ReimbursementStatus{domain.ReimbursementPendingApproval},
		change: portsrepo.ReimbursementStatusChange{
			To:                   domain.ReimbursementDraft,
			ClearPendingApprover: true,
			UpdatedBy:            operatorID,
			UpdatedAt:            now,
		},
		guardErr: ErrReimbursementNotWithdrawable,
	})
}

// PayReimbursement settles the claim and creates the matching finance record
// in the same transaction. Paying straight from PENDING_APPROVAL is allowed
// and records the implicit approve alongside the pay.
func (s *reimbursementService) PayReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if err := s.employeeSvc.EnsureEmployeeRecordExists(ctx, operatorID); err != nil {
		return nil, err
	}

	if reimbursement.Status != domain.ReimbursementApproved && reimbursement.Status != domain.ReimbursementPendingApproval {
		return nil, fmt.Errorf("%w: reimbursement %s is %s", ErrReimbursementNotPayable, reimbursementID, reimbursement.Status)
	}

	now := time.Now()
	fromPending := reimbursement.Status == domain.ReimbursementPendingApproval

	change := portsrepo.ReimbursementStatusChange{
		To:        domain.ReimbursementPaid,
		PaidAt:    &now,
		PaidBy:    &operatorID,
		UpdatedBy: operatorID,
		UpdatedAt: now,
	}
	from := []domain.ReimbursementStatus{domain.ReimbursementApproved}
	if fromPending {
		from = []domain.ReimbursementStatus{domain.ReimbursementPendingApproval}
		change.ApprovedAt = &now
		change.ApprovedBy = &operatorID
		change.ClearPendingApprover = true
	}

	tx, err := s.reimbursementRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reimbursementRepo.Rollback(ctx, tx)

	ok, err := s.reimbursementRepo.TransitionReimbursementStatusInTx(ctx, tx, reimbursementID, from, change)
	if err != nil {
		return nil, fmt.Errorf("failed to transition reimbursement %s: %w", reimbursementID, err)
	}
	if !ok {
		current, findErr := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: reimbursement %s is %s", ErrReimbursementNotPayable, reimbursementID, current.Status)
	}

	if fromPending {
		approveEntry := newWorkflowLog(domain.EntityReimbursement, reimbursementID, domain.ActionApprove,
			string(domain.ReimbursementPendingApproval), string(domain.ReimbursementApproved), operatorID, "", now)
		if err := s.workflowRepo.AppendLogInTx(ctx, tx, approveEntry); err != nil {
			return nil, fmt.Errorf("failed to append workflow log: %w", err)
		}
	}
	payEntry := newWorkflowLog(domain.EntityReimbursement, reimbursementID, domain.ActionPay,
		string(domain.ReimbursementApproved), string(domain.ReimbursementPaid), operatorID, "", now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, payEntry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if _, err := s.financeSvc.SyncExpenseInTx(ctx, tx, dto.ExpenseSyncInput{
		SourceType:  domain.ExpenseFromReimbursement,
		SourceID:    reimbursementID,
		Amount:      reimbursement.Amount,
		Category:    string(reimbursement.Category),
		ExpenseDate: reimbursement.OccurredDate,
		OperatorID:  operatorID,
		Now:         now,
	}); err != nil {
		return nil, err
	}

	if err := s.reimbursementRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Reimbursement paid",
		slog.String("reimbursement_id", reimbursementID),
		slog.Bool("implicit_approve", fromPending))

	return s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
}

// DeleteReimbursement soft-deletes a draft or rejected claim, releasing its
// source purchase for relinking.
func (s *reimbursementService) DeleteReimbursement(ctx context.Context, reimbursementID, operatorID string) error {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return err
	}
	if !reimbursement.Editable() {
		return fmt.Errorf("%w: reimbursement %s is %s", ErrReimbursementNotDeletable, reimbursementID, reimbursement.Status)
	}

	now := time.Now()
	tx, err := s.reimbursementRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reimbursementRepo.Rollback(ctx, tx)

	deletableStates := []domain.ReimbursementStatus{domain.ReimbursementDraft, domain.ReimbursementRejected}
	ok, err := s.reimbursementRepo.SoftDeleteReimbursementInTx(ctx, tx, reimbursementID, deletableStates, operatorID, now)
	if err != nil {
		return fmt.Errorf("failed to delete reimbursement %s: %w", reimbursementID, err)
	}
	if !ok {
		return fmt.Errorf("%w: reimbursement %s changed state concurrently", ErrReimbursementNotDeletable, reimbursementID)
	}

	entry := newWorkflowLog(domain.EntityReimbursement, reimbursementID, domain.ActionDelete,
		string(reimbursement.Status), string(reimbursement.Status), operatorID, "", now)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append workflow log: %w", err)
	}

	if err := s.reimbursementRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Reimbursement deleted", slog.String("reimbursement_id", reimbursementID))
	return nil
}

// GetReimbursementByID retrieves a single reimbursement.
func (s *reimbursementService) GetReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	return s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
}

// ListReimbursements returns a page of claims, optionally filtered by applicant.
func (s *reimbursementService) ListReimbursements(ctx context.Context, params dto.ListReimbursementsParams) (*dto.ListReimbursementsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	reimbursements, nextToken, err := s.reimbursementRepo.ListReimbursements(ctx, params.ApplicantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list reimbursements: %w", err)
	}
	return &dto.ListReimbursementsResponse{
		Reimbursements: dto.ToReimbursementResponses(reimbursements),
		NextToken:      nextToken,
	}, nil
}

// GetReimbursementLogs returns the audit trail for a claim, oldest first.
func (s *reimbursementService) GetReimbursementLogs(ctx context.Context, reimbursementID string) ([]domain.WorkflowLog, error) {
	if _, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID); err != nil {
		return nil, err
	}
	return s.workflowRepo.ListLogsByEntity(ctx, domain.EntityReimbursement, reimbursementID)
}

// reimbursementTransition describes one guarded status move.
type reimbursementTransition struct {
	action   domain.WorkflowAction
	from     []domain.ReimbursementStatus
	change   portsrepo.ReimbursementStatusChange
	comment  string
	guardErr error
	inTx     func(ctx context.Context, tx pgx.Tx) error
}

// applyReimbursementTransition runs the guarded status update, the workflow
// log append and the optional dependent write in one transaction.
func (s *reimbursementService) applyReimbursementTransition(ctx context.Context, reimbursement *domain.Reimbursement, operatorID string, t reimbursementTransition) (*domain.Reimbursement, error) {
	reimbursementID := reimbursement.ReimbursementID

	tx, err := s.reimbursementRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reimbursementRepo.Rollback(ctx, tx)

	ok, err := s.reimbursementRepo.TransitionReimbursementStatusInTx(ctx, tx, reimbursementID, t.from, t.change)
	if err != nil {
		return nil, fmt.Errorf("failed to transition reimbursement %s: %w", reimbursementID, err)
	}
	if !ok {
		current, findErr := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: reimbursement %s is %s", t.guardErr, reimbursementID, current.Status)
	}

	entry := newWorkflowLog(domain.EntityReimbursement, reimbursementID, t.action,
		string(reimbursement.Status), string(t.change.To), operatorID, t.comment, t.change.UpdatedAt)
	if err := s.workflowRepo.AppendLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append workflow log: %w", err)
	}

	if t.inTx != nil {
		if err := t.inTx(ctx, tx); err != nil {
			return nil, err
		}
	}

	if err := s.reimbursementRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Reimbursement transitioned",
		slog.String("reimbursement_id", reimbursementID),
		slog.String("action", string(t.action)),
		slog.String("from", string(reimbursement.Status)),
		slog.String("to", string(t.change.To)))

	return s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
}
