package mapping

import (
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
)

// ToModelPurchase converts a domain Purchase to a model Purchase.
func ToModelPurchase(d domain.Purchase) models.Purchase {
	return models.Purchase{
		PurchaseID:     d.PurchaseID,
		PurchaseNumber: d.PurchaseNumber,
		ItemName:       d.ItemName,
		Quantity:       d.Quantity,
		UnitPrice:      d.UnitPrice,
		TotalAmount:    d.TotalAmount,
		PaymentMethod:  string(d.PaymentMethod),
		InvoiceType:    string(d.InvoiceType),
		InvoiceStatus:  string(d.InvoiceStatus),
		InvoiceImages:  d.InvoiceImages,
		ProjectID:      d.ProjectID,
		SupplierID:     d.SupplierID,
		OrgScope:       string(d.OrgScope),
		ApplicantID:    d.ApplicantID,
		Status:         string(d.Status),
		SubmittedAt:    d.SubmittedAt,
		ApprovedAt:     d.ApprovedAt,
		ApprovedBy:     d.ApprovedBy,
		RejectedAt:     d.RejectedAt,
		RejectedBy:     d.RejectedBy,
		RejectReason:   d.RejectReason,
		PaidAt:         d.PaidAt,
		PaidBy:         d.PaidBy,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainPurchase converts a model Purchase to a domain Purchase.
func ToDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase{
		PurchaseID:     m.PurchaseID,
		PurchaseNumber: m.PurchaseNumber,
		ItemName:       m.ItemName,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		TotalAmount:    m.TotalAmount,
		PaymentMethod:  domain.PaymentMethod(m.PaymentMethod),
		InvoiceType:    domain.InvoiceType(m.InvoiceType),
		InvoiceStatus:  domain.InvoiceStatus(m.InvoiceStatus),
		InvoiceImages:  m.InvoiceImages,
		ProjectID:      m.ProjectID,
		SupplierID:     m.SupplierID,
		OrgScope:       domain.OrgScope(m.OrgScope),
		ApplicantID:    m.ApplicantID,
		Status:         domain.PurchaseStatus(m.Status),
		SubmittedAt:    m.SubmittedAt,
		ApprovedAt:     m.ApprovedAt,
		ApprovedBy:     m.ApprovedBy,
		RejectedAt:     m.RejectedAt,
		RejectedBy:     m.RejectedBy,
		RejectReason:   m.RejectReason,
		PaidAt:         m.PaidAt,
		PaidBy:         m.PaidBy,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}

// ToDomainPurchaseSlice converts a slice of model Purchases.
func ToDomainPurchaseSlice(ms []models.Purchase) []domain.Purchase {
	ds := make([]domain.Purchase, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPurchase(m)
	}
	return ds
}
