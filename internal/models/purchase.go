package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is the storage shape of a purchase row. Evidence images are
// serialized to a JSONB column at the persistence edge.
type Purchase struct {
	PurchaseID     string          `db:"purchase_id"`
	PurchaseNumber string          `db:"purchase_number"`
	ItemName       string          `db:"item_name"`
	Quantity       decimal.Decimal `db:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	PaymentMethod  string          `db:"payment_method"`
	InvoiceType    string          `db:"invoice_type"`
	InvoiceStatus  string          `db:"invoice_status"`
	InvoiceImages  []string        `db:"invoice_images"` // JSONB
	ProjectID      *string         `db:"project_id"`
	SupplierID     *string         `db:"supplier_id"`
	OrgScope       string          `db:"org_scope"`
	ApplicantID    string          `db:"applicant_id"`
	Status         string          `db:"status"`

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
