package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// ReimbursementStatusChange carries the target status and audit stamps for a
// guarded reimbursement transition. Nil stamp fields are left untouched.
type ReimbursementStatusChange struct {
	To                domain.ReimbursementStatus
	PendingApproverID *string
	SubmittedAt       *time.Time
	ApprovedAt        *time.Time
	ApprovedBy        *string
	RejectedAt        *time.Time
	RejectedBy        *string
	RejectReason      *string
	PaidAt            *time.Time
	PaidBy            *string
	// ClearRejection nulls the rejection stamps (used on resubmit).
	ClearRejection bool
	// ClearPendingApprover nulls the pending approver (used on leaving
	// PENDING_APPROVAL).
	ClearPendingApprover bool
	UpdatedBy            string
	UpdatedAt            time.Time
}

// ReimbursementReader defines read operations for reimbursement data.
// Soft-deleted rows are excluded everywhere.
type ReimbursementReader interface {
	FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)

	// CountActiveBySourcePurchase counts live (non-deleted) reimbursements
	// linked to the given purchase, excluding excludeID when non-nil. Backs
	// the single-link invariant.
	CountActiveBySourcePurchase(ctx context.Context, purchaseID string, excludeID *string) (int, error)

	ListReimbursements(ctx context.Context, applicantID *string, limit int, nextToken *string) ([]domain.Reimbursement, *string, error)
}

// ReimbursementWriter defines write operations for reimbursement data. All
// writes run inside a caller-supplied transaction.
type ReimbursementWriter interface {
	InsertReimbursementInTx(ctx context.Context, tx pgx.Tx, reimbursement domain.Reimbursement) error

	// UpdateReimbursementFieldsInTx rewrites the editable fields guarded on
	// the row still being in one of the given states.
	UpdateReimbursementFieldsInTx(ctx context.Context, tx pgx.Tx, reimbursement domain.Reimbursement, from []domain.ReimbursementStatus) (bool, error)

	// TransitionReimbursementStatusInTx moves the reimbursement to change.To
	// guarded on the current status being one of from.
	TransitionReimbursementStatusInTx(ctx context.Context, tx pgx.Tx, reimbursementID string, from []domain.ReimbursementStatus, change ReimbursementStatusChange) (bool, error)

	SoftDeleteReimbursementInTx(ctx context.Context, tx pgx.Tx, reimbursementID string, from []domain.ReimbursementStatus, operatorID string, at time.Time) (bool, error)
}

// ReimbursementRepositoryFacade combines all reimbursement repository interfaces.
type ReimbursementRepositoryFacade interface {
	ReimbursementReader
	ReimbursementWriter
}

// ReimbursementRepositoryWithTx extends the facade with transaction capabilities.
type ReimbursementRepositoryWithTx interface {
	ReimbursementRepositoryFacade
	TransactionManager
}
