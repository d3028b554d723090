package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus indicates where a purchase sits in its approval lifecycle.
type PurchaseStatus string

const (
	PurchaseDraft           PurchaseStatus = "DRAFT"
	PurchasePendingApproval PurchaseStatus = "PENDING_APPROVAL"
	PurchaseApproved        PurchaseStatus = "APPROVED"
	PurchaseRejected        PurchaseStatus = "REJECTED"
	PurchasePaid            PurchaseStatus = "PAID"
	PurchaseCancelled       PurchaseStatus = "CANCELLED"
)

// PaymentMethod is how the purchase was (or will be) paid for.
type PaymentMethod string

const (
	PaymentBankTransfer      PaymentMethod = "BANK_TRANSFER"
	PaymentPersonalAdvance   PaymentMethod = "PERSONAL_ADVANCE"
	PaymentCorporateTransfer PaymentMethod = "CORPORATE_TRANSFER"
)

// Reimbursable reports whether a purchase paid this way can back an employee
// reimbursement. A direct corporate transfer never left an employee's pocket.
func (m PaymentMethod) Reimbursable() bool {
	return m != PaymentCorporateTransfer
}

// InvoiceType classifies the tax invoice expected for a purchase.
type InvoiceType string

const (
	InvoiceNone    InvoiceType = "NONE"
	InvoiceGeneral InvoiceType = "GENERAL"
	InvoiceSpecial InvoiceType = "SPECIAL"
)

// InvoiceStatus tracks whether the invoice evidence has been collected.
type InvoiceStatus string

const (
	InvoiceNotRequired InvoiceStatus = "NOT_REQUIRED"
	InvoicePending     InvoiceStatus = "PENDING"
	InvoiceReceived    InvoiceStatus = "RECEIVED"
)

// Purchase is a requisition-to-payment record for a bought good or service.
type Purchase struct {
	PurchaseID     string          `json:"purchaseID"`
	PurchaseNumber string          `json:"purchaseNumber"` // e.g. PR-202608-0001
	ItemName       string          `json:"itemName"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TotalAmount    decimal.Decimal `json:"totalAmount"` // always Quantity * UnitPrice
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	InvoiceType    InvoiceType     `json:"invoiceType"`
	InvoiceStatus  InvoiceStatus   `json:"invoiceStatus"`
	InvoiceImages  []string        `json:"invoiceImages"` // evidence image references
	ProjectID      *string         `json:"projectID,omitempty"`
	SupplierID     *string         `json:"supplierID,omitempty"`
	OrgScope       OrgScope        `json:"orgScope"`
	ApplicantID    string          `json:"applicantID"`
	Status         PurchaseStatus  `json:"status"`

	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy   *string    `json:"approvedBy,omitempty"`
	RejectedAt   *time.Time `json:"rejectedAt,omitempty"`
	RejectedBy   *string    `json:"rejectedBy,omitempty"`
	RejectReason *string    `json:"rejectReason,omitempty"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	PaidBy       *string    `json:"paidBy,omitempty"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // soft delete
}

// RecomputeTotal refreshes TotalAmount from Quantity and UnitPrice. Called on
// every edit that touches either field.
func (p *Purchase) RecomputeTotal() {
	p.TotalAmount = p.Quantity.Mul(p.UnitPrice)
}

// Editable reports whether field-level edits are allowed in the current state.
func (p *Purchase) Editable() bool {
	return p.Status == PurchaseDraft || p.Status == PurchaseRejected
}

// InvoiceEvidenceSatisfied is the shared invoice-evidence rule: an invoice is
// either not expected at all, or at least one evidence image must be attached.
func (p *Purchase) InvoiceEvidenceSatisfied() bool {
	if p.InvoiceType == InvoiceNone || p.InvoiceStatus == InvoiceNotRequired {
		return true
	}
	return len(p.InvoiceImages) > 0
}
