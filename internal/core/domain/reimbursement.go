package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReimbursementStatus indicates where a reimbursement sits in its lifecycle.
type ReimbursementStatus string

const (
	ReimbursementDraft           ReimbursementStatus = "DRAFT"
	ReimbursementPendingApproval ReimbursementStatus = "PENDING_APPROVAL"
	ReimbursementApproved        ReimbursementStatus = "APPROVED"
	ReimbursementRejected        ReimbursementStatus = "REJECTED"
	ReimbursementPaid            ReimbursementStatus = "PAID"
)

// ReimbursementSource distinguishes standalone claims from claims derived
// from a purchase the employee paid for personally.
type ReimbursementSource string

const (
	SourceDirect   ReimbursementSource = "DIRECT"
	SourcePurchase ReimbursementSource = "PURCHASE"
)

// ExpenseCategory classifies a reimbursement for bookkeeping.
type ExpenseCategory string

const (
	CategoryTravel         ExpenseCategory = "TRAVEL"
	CategoryMeals          ExpenseCategory = "MEALS"
	CategoryOfficeSupplies ExpenseCategory = "OFFICE_SUPPLIES"
	CategoryTraining       ExpenseCategory = "TRAINING"
	CategoryOther          ExpenseCategory = "OTHER"
)

// categoryFieldSchema describes the category-specific detail fields: which
// keys are accepted and which of those must be present.
type categoryFieldSchema struct {
	Allowed  []string
	Required []string
}

var categorySchemas = map[ExpenseCategory]categoryFieldSchema{
	CategoryTravel:         {Allowed: []string{"destination", "purpose", "transport"}, Required: []string{"destination"}},
	CategoryMeals:          {Allowed: []string{"attendees", "restaurant"}, Required: []string{"attendees"}},
	CategoryOfficeSupplies: {Allowed: []string{"vendor"}},
	CategoryTraining:       {Allowed: []string{"course_name", "provider"}, Required: []string{"course_name"}},
	CategoryOther:          {Allowed: []string{"note"}, Required: []string{"note"}},
}

// ValidCategory reports whether c is one of the known expense categories.
func ValidCategory(c ExpenseCategory) bool {
	_, ok := categorySchemas[c]
	return ok
}

// FilterCategoryDetails drops detail keys outside the category's allow-list
// and returns the name of the first missing required field, if any.
func FilterCategoryDetails(category ExpenseCategory, details map[string]string) (map[string]string, string) {
	schema := categorySchemas[category]
	filtered := make(map[string]string, len(schema.Allowed))
	for _, key := range schema.Allowed {
		if v, ok := details[key]; ok && v != "" {
			filtered[key] = v
		}
	}
	for _, key := range schema.Required {
		if _, ok := filtered[key]; !ok {
			return filtered, key
		}
	}
	return filtered, ""
}

// Reimbursement is an employee expense claim, standalone or derived from a
// purchase the employee advanced out of pocket.
type Reimbursement struct {
	ReimbursementID     string              `json:"reimbursementID"`
	ReimbursementNumber string              `json:"reimbursementNumber"` // e.g. ER-202608-0001
	SourceType          ReimbursementSource `json:"sourceType"`
	SourcePurchaseID    *string             `json:"sourcePurchaseID,omitempty"` // required iff SourceType == PURCHASE
	OrgScope            OrgScope            `json:"orgScope"`
	Category            ExpenseCategory     `json:"category"`
	Title               string              `json:"title"`
	Amount              decimal.Decimal     `json:"amount"`
	OccurredDate        time.Time           `json:"occurredDate"`
	Details             map[string]string   `json:"details"` // category-specific, allow-listed
	InvoiceImages       []string            `json:"invoiceImages"`
	ReceiptImages       []string            `json:"receiptImages"`
	Status              ReimbursementStatus `json:"status"`
	PendingApproverID   *string             `json:"pendingApproverID,omitempty"`

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

// Editable reports whether field-level edits are allowed in the current state.
func (r *Reimbursement) Editable() bool {
	return r.Status == ReimbursementDraft || r.Status == ReimbursementRejected
}

// SourceLocked reports whether the source purchase linkage may no longer be
// retargeted: once a purchase-sourced claim has been submitted it stays
// locked unless it is currently sitting in REJECTED.
func (r *Reimbursement) SourceLocked() bool {
	return r.SourceType == SourcePurchase && r.SubmittedAt != nil && r.Status != ReimbursementRejected
}

// DirectEvidenceSatisfied is the submit gate for standalone claims: an
// invoice image or a receipt image must be attached.
func (r *Reimbursement) DirectEvidenceSatisfied() bool {
	return len(r.InvoiceImages) > 0 || len(r.ReceiptImages) > 0
}

// ApproverRole maps the organization scope to the finance role eligible to
// approve claims under it.
func (s OrgScope) ApproverRole() EmployeeRole {
	if s == ScopeSchool {
		return RoleFinanceSchool
	}
	return RoleFinanceCompany
}
