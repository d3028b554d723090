package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reimbursement is the storage shape of a reimbursement row. Details and the
// image lists are serialized to JSONB columns at the persistence edge.
type Reimbursement struct {
	ReimbursementID     string            `db:"reimbursement_id"`
	ReimbursementNumber string            `db:"reimbursement_number"`
	SourceType          string            `db:"source_type"`
	SourcePurchaseID    *string           `db:"source_purchase_id"`
	OrgScope            string            `db:"org_scope"`
	Category            string            `db:"category"`
	Title               string            `db:"title"`
	Amount              decimal.Decimal   `db:"amount"`
	OccurredDate        time.Time         `db:"occurred_date"`
	Details             map[string]string `db:"details"`        // JSONB
	InvoiceImages       []string          `db:"invoice_images"` // JSONB
	ReceiptImages       []string          `db:"receipt_images"` // JSONB
	Status              string            `db:"status"`
	PendingApproverID   *string           `db:"pending_approver_id"`

	SubmittedAt  *time.Time `db:"submitted_at"`
	ApprovedAt   *time.Time `db:"approved_at"`
	ApprovedBy   *string    `db:"approved_by"`
	RejectedAt   *time.Time `db:"rejected_at"`
	RejectedBy   *string    `db:"rejected_by"`
	RejectReason *string    `db:"reject_reason"`
	PaidAt       *time.Time `db:"paid_at"`
	PaidBy       *string    `db:"paid_by"`

	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
