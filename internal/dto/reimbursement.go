package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// CreateReimbursementRequest carries the fields for a new reimbursement draft.
// OrgScope is ignored for purchase-sourced claims (inherited from the source
// purchase) and required for direct ones; the service enforces that split.
type CreateReimbursementRequest struct {
	Title            string                     `json:"title" binding:"required"`
	SourceType       domain.ReimbursementSource `json:"sourceType" binding:"required,oneof=DIRECT PURCHASE"`
	SourcePurchaseID *string                    `json:"sourcePurchaseID"`
	OrgScope         domain.OrgScope            `json:"orgScope" binding:"omitempty,oneof=SCHOOL COMPANY"`
	Category         domain.ExpenseCategory     `json:"category" binding:"required,oneof=TRAVEL MEALS OFFICE_SUPPLIES TRAINING OTHER"`
	Amount           decimal.Decimal            `json:"amount" binding:"required,dgt0"`
	OccurredDate     time.Time                  `json:"occurredDate" binding:"required"`
	Details          map[string]string          `json:"details"`
	InvoiceImages    []string                   `json:"invoiceImages"`
	ReceiptImages    []string                   `json:"receiptImages"`
}

// UpdateReimbursementRequest carries optional field updates for a draft or
// rejected reimbursement. Nil fields are left unchanged.
type UpdateReimbursementRequest struct {
	Title            *string                     `json:"title"`
	SourceType       *domain.ReimbursementSource `json:"sourceType" binding:"omitempty,oneof=DIRECT PURCHASE"`
	SourcePurchaseID *string                     `json:"sourcePurchaseID"`
	OrgScope         *domain.OrgScope            `json:"orgScope" binding:"omitempty,oneof=SCHOOL COMPANY"`
	Category         *domain.ExpenseCategory     `json:"category" binding:"omitempty,oneof=TRAVEL MEALS OFFICE_SUPPLIES TRAINING OTHER"`
	Amount           *decimal.Decimal            `json:"amount" binding:"omitempty,dgt0"`
	OccurredDate     *time.Time                  `json:"occurredDate"`
	Details          *map[string]string          `json:"details"`
	InvoiceImages    *[]string                   `json:"invoiceImages"`
	ReceiptImages    *[]string                   `json:"receiptImages"`
}

// ListReimbursementsParams holds query parameters for listing reimbursements.
type ListReimbursementsParams struct {
	ApplicantID *string `form:"applicantID"`
	Limit       int     `form:"limit"`
	NextToken   *string `form:"nextToken"`
}

// ReimbursementResponse defines the data returned for a reimbursement.
type ReimbursementResponse struct {
	ReimbursementID     string                     `json:"reimbursementID"`
	ReimbursementNumber string                     `json:"reimbursementNumber"`
	SourceType          domain.ReimbursementSource `json:"sourceType"`
	SourcePurchaseID    *string                    `json:"sourcePurchaseID,omitempty"`
	OrgScope            domain.OrgScope            `json:"orgScope"`
	Category            domain.ExpenseCategory     `json:"category"`
	Title               string                     `json:"title"`
	Amount              decimal.Decimal            `json:"amount"`
	OccurredDate        time.Time                  `json:"occurredDate"`
	Details             map[string]string          `json:"details"`
	InvoiceImages       []string                   `json:"invoiceImages"`
	ReceiptImages       []string                   `json:"receiptImages"`
	Status              domain.ReimbursementStatus `json:"status"`
	PendingApproverID   *string                    `json:"pendingApproverID,omitempty"`
	SubmittedAt         *time.Time                 `json:"submittedAt,omitempty"`
	ApprovedAt          *time.Time                 `json:"approvedAt,omitempty"`
	RejectedAt          *time.Time                 `json:"rejectedAt,omitempty"`
	RejectReason        *string                    `json:"rejectReason,omitempty"`
	PaidAt              *time.Time                 `json:"paidAt,omitempty"`
	CreatedAt           time.Time                  `json:"createdAt"`
}

// ListReimbursementsResponse is a page of reimbursements plus the next-page token.
type ListReimbursementsResponse struct {
	Reimbursements []ReimbursementResponse `json:"reimbursements"`
	NextToken      *string                 `json:"nextToken,omitempty"`
}

// ToReimbursementResponse converts a domain.Reimbursement to its DTO.
func ToReimbursementResponse(r *domain.Reimbursement) ReimbursementResponse {
	return ReimbursementResponse{
		ReimbursementID:     r.ReimbursementID,
		ReimbursementNumber: r.ReimbursementNumber,
		SourceType:          r.SourceType,
		SourcePurchaseID:    r.SourcePurchaseID,
		OrgScope:            r.OrgScope,
		Category:            r.Category,
		Title:               r.Title,
		Amount:              r.Amount,
		OccurredDate:        r.OccurredDate,
		Details:             r.Details,
		InvoiceImages:       r.InvoiceImages,
		ReceiptImages:       r.ReceiptImages,
		Status:              r.Status,
		PendingApproverID:   r.PendingApproverID,
		SubmittedAt:         r.SubmittedAt,
		ApprovedAt:          r.ApprovedAt,
		RejectedAt:          r.RejectedAt,
		RejectReason:        r.RejectReason,
		PaidAt:              r.PaidAt,
		CreatedAt:           r.CreatedAt,
	}
}

// ToReimbursementResponses converts a slice of domain reimbursements.
func ToReimbursementResponses(rs []domain.Reimbursement) []ReimbursementResponse {
	responses := make([]ReimbursementResponse, len(rs))
	for i := range rs {
		responses[i] = ToReimbursementResponse(&rs[i])
	}
	return responses
}
