package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// CreatePurchaseRequest carries the fields for a new purchase draft.
type CreatePurchaseRequest struct {
	ItemName      string               `json:"itemName" binding:"required"`
	Quantity      decimal.Decimal      `json:"quantity" binding:"required,dgt0"`
	UnitPrice     decimal.Decimal      `json:"unitPrice" binding:"required,dgt0"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=BANK_TRANSFER PERSONAL_ADVANCE CORPORATE_TRANSFER"`
	InvoiceType   domain.InvoiceType   `json:"invoiceType" binding:"required,oneof=NONE GENERAL SPECIAL"`
	InvoiceStatus domain.InvoiceStatus `json:"invoiceStatus" binding:"required,oneof=NOT_REQUIRED PENDING RECEIVED"`
	InvoiceImages []string             `json:"invoiceImages"`
	ProjectID     *string              `json:"projectID"`
	SupplierID    *string              `json:"supplierID"`
	OrgScope      domain.OrgScope      `json:"orgScope" binding:"required,oneof=SCHOOL COMPANY"`
}

// UpdatePurchaseRequest carries optional field updates for a draft or
// rejected purchase. Nil fields are left unchanged.
type UpdatePurchaseRequest struct {
	ItemName      *string               `json:"itemName"`
	Quantity      *decimal.Decimal      `json:"quantity" binding:"omitempty,dgt0"`
	UnitPrice     *decimal.Decimal      `json:"unitPrice" binding:"omitempty,dgt0"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=BANK_TRANSFER PERSONAL_ADVANCE CORPORATE_TRANSFER"`
	InvoiceType   *domain.InvoiceType   `json:"invoiceType" binding:"omitempty,oneof=NONE GENERAL SPECIAL"`
	InvoiceStatus *domain.InvoiceStatus `json:"invoiceStatus" binding:"omitempty,oneof=NOT_REQUIRED PENDING RECEIVED"`
	InvoiceImages *[]string             `json:"invoiceImages"`
	ProjectID     *string               `json:"projectID"`
	SupplierID    *string               `json:"supplierID"`
}

// RejectRequest carries the mandatory reason for a reject transition.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListPurchasesParams holds query parameters for listing purchases.
type ListPurchasesParams struct {
	ApplicantID *string `form:"applicantID"`
	Limit       int     `form:"limit"`
	NextToken   *string `form:"nextToken"`
}

// PurchaseResponse defines the data returned for a purchase.
type PurchaseResponse struct {
	PurchaseID     string               `json:"purchaseID"`
	PurchaseNumber string               `json:"purchaseNumber"`
	ItemName       string               `json:"itemName"`
	Quantity       decimal.Decimal      `json:"quantity"`
	UnitPrice      decimal.Decimal      `json:"unitPrice"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod"`
	InvoiceType    domain.InvoiceType   `json:"invoiceType"`
	InvoiceStatus  domain.InvoiceStatus `json:"invoiceStatus"`
	InvoiceImages  []string             `json:"invoiceImages"`
	ProjectID      *string              `json:"projectID,omitempty"`
	SupplierID     *string              `json:"supplierID,omitempty"`
	OrgScope       domain.OrgScope      `json:"orgScope"`
	ApplicantID    string               `json:"applicantID"`
	Status         domain.PurchaseStatus `json:"status"`
	SubmittedAt    *time.Time           `json:"submittedAt,omitempty"`
	ApprovedAt     *time.Time           `json:"approvedAt,omitempty"`
	RejectedAt     *time.Time           `json:"rejectedAt,omitempty"`
	RejectReason   *string              `json:"rejectReason,omitempty"`
	PaidAt         *time.Time           `json:"paidAt,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// ListPurchasesResponse is a page of purchases plus the next-page token.
type ListPurchasesResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToPurchaseResponse converts a domain.Purchase to PurchaseResponse DTO.
func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:     p.PurchaseID,
		PurchaseNumber: p.PurchaseNumber,
		ItemName:       p.ItemName,
		Quantity:       p.Quantity,
		UnitPrice:      p.UnitPrice,
		TotalAmount:    p.TotalAmount,
		PaymentMethod:  p.PaymentMethod,
		InvoiceType:    p.InvoiceType,
		InvoiceStatus:  p.InvoiceStatus,
		InvoiceImages:  p.InvoiceImages,
		ProjectID:      p.ProjectID,
		SupplierID:     p.SupplierID,
		OrgScope:       p.OrgScope,
		ApplicantID:    p.ApplicantID,
		Status:         p.Status,
		SubmittedAt:    p.SubmittedAt,
		ApprovedAt:     p.ApprovedAt,
		RejectedAt:     p.RejectedAt,
		RejectReason:   p.RejectReason,
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
	}
}

// ToPurchaseResponses converts a slice of domain purchases.
func ToPurchaseResponses(ps []domain.Purchase) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(ps))
	for i := range ps {
		responses[i] = ToPurchaseResponse(&ps[i])
	}
	return responses
}
