package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// PurchaseStatusChange carries the target status and the audit stamps applied
// alongside a guarded status transition. Nil stamp fields are left untouched.
type PurchaseStatusChange struct {
	To           domain.PurchaseStatus
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedBy   *string
	RejectedAt   *time.Time
	RejectedBy   *string
	RejectReason *string
	PaidAt       *time.Time
	PaidBy       *string
	// ClearRejection nulls the rejection stamps (used on resubmit).
	ClearRejection bool
	UpdatedBy      string
	UpdatedAt      time.Time
}

// PurchaseReader defines read operations for purchase data. Soft-deleted rows
// are excluded everywhere.
type PurchaseReader interface {
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)

	// ListPurchases returns a page of purchases, optionally filtered by
	// applicant, with a token for the next page.
	ListPurchases(ctx context.Context, applicantID *string, limit int, nextToken *string) ([]domain.Purchase, *string, error)
}

// PurchaseWriter defines write operations for purchase data. All writes run
// inside a caller-supplied transaction.
type PurchaseWriter interface {
	InsertPurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error

	// UpdatePurchaseFieldsInTx rewrites the editable descriptive fields
	// (including the recomputed total) guarded on the row still being in one
	// of the given states. Returns false when the guard did not match.
	UpdatePurchaseFieldsInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase, from []domain.PurchaseStatus) (bool, error)

	// TransitionPurchaseStatusInTx moves the purchase to change.To guarded on
	// the current status being one of from. Returns false when the guard did
	// not match, so callers can distinguish a lost race from a hard error.
	TransitionPurchaseStatusInTx(ctx context.Context, tx pgx.Tx, purchaseID string, from []domain.PurchaseStatus, change PurchaseStatusChange) (bool, error)

	// SoftDeletePurchaseInTx marks the purchase deleted and cancelled,
	// guarded on the current status being one of from.
	SoftDeletePurchaseInTx(ctx context.Context, tx pgx.Tx, purchaseID string, from []domain.PurchaseStatus, operatorID string, at time.Time) (bool, error)
}

// PurchaseRepositoryFacade combines all purchase repository interfaces.
type PurchaseRepositoryFacade interface {
	PurchaseReader
	PurchaseWriter
}

// PurchaseRepositoryWithTx extends the facade with transaction capabilities.
type PurchaseRepositoryWithTx interface {
	PurchaseRepositoryFacade
	TransactionManager
}
