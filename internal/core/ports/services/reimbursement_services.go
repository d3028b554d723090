package services

import (
	"context"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

// ReimbursementSvcFacade is the reimbursement state machine.
type ReimbursementSvcFacade interface {
	CreateReimbursement(ctx context.Context, req dto.CreateReimbursementRequest, creatorID string) (*domain.Reimbursement, error)
	UpdateReimbursement(ctx context.Context, reimbursementID string, req dto.UpdateReimbursementRequest, operatorID string) (*domain.Reimbursement, error)
	SubmitReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error)
	ApproveReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error)
	RejectReimbursement(ctx context.Context, reimbursementID, operatorID, reason string) (*domain.Reimbursement, error)
	WithdrawReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error)

	// PayReimbursement settles the claim. Accepted from APPROVED, and from
	// PENDING_APPROVAL when finance is the approver itself, in which case the
	// implicit approve and the pay are both logged.
	PayReimbursement(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error)

	DeleteReimbursement(ctx context.Context, reimbursementID, operatorID string) error

	GetReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)
	ListReimbursements(ctx context.Context, params dto.ListReimbursementsParams) (*dto.ListReimbursementsResponse, error)
	GetReimbursementLogs(ctx context.Context, reimbursementID string) ([]domain.WorkflowLog, error)
}

// ApproverAssignerSvc picks the approver for a submission.
type ApproverAssignerSvc interface {
	// AssignApprover returns the least-loaded active employee eligible for
	// the scope. Failing to find one is a hard stop for the submit.
	AssignApprover(ctx context.Context, scope domain.OrgScope) (*domain.Employee, error)
}

// EligibilityCheckerSvc bundles the cross-entity read-only checks run before
// any reimbursement write touches the database.
type EligibilityCheckerSvc interface {
	// CheckPurchaseReimbursable fails when the purchase's payment method can
	// never back a reimbursement.
	CheckPurchaseReimbursable(purchase *domain.Purchase) error

	// CheckSingleLink fails when another live reimbursement already claims
	// the purchase. excludeID skips the record being edited.
	CheckSingleLink(ctx context.Context, purchaseID string, excludeID *string) error

	// CheckInboundReady fails until at least one inbound movement is recorded
	// against the purchase.
	CheckInboundReady(ctx context.Context, purchaseID string) error

	// CheckPurchaseInvoiceEvidence applies the shared invoice-evidence rule
	// to a purchase.
	CheckPurchaseInvoiceEvidence(purchase *domain.Purchase) error

	// CheckDirectEvidence requires an invoice or receipt image on a
	// standalone claim.
	CheckDirectEvidence(reimbursement *domain.Reimbursement) error
}
