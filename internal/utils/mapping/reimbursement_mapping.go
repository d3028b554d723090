package mapping

import (
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
)

// ToModelReimbursement converts a domain Reimbursement to a model Reimbursement.
func ToModelReimbursement(d domain.Reimbursement) models.Reimbursement {
	return models.Reimbursement{
		ReimbursementID:     d.ReimbursementID,
		ReimbursementNumber: d.ReimbursementNumber,
		SourceType:          string(d.SourceType),
		SourcePurchaseID:    d.SourcePurchaseID,
		OrgScope:            string(d.OrgScope),
		Category:            string(d.Category),
		Title:               d.Title,
		Amount:              d.Amount,
		OccurredDate:        d.OccurredDate,
		Details:             d.Details,
		InvoiceImages:       d.InvoiceImages,
		ReceiptImages:       d.ReceiptImages,
		Status:              string(d.Status),
		PendingApproverID:   d.PendingApproverID,
		SubmittedAt:         d.SubmittedAt,
		ApprovedAt:          d.ApprovedAt,
		ApprovedBy:          d.ApprovedBy,
		RejectedAt:          d.RejectedAt,
		RejectedBy:          d.RejectedBy,
		RejectReason:        d.RejectReason,
		PaidAt:              d.PaidAt,
		PaidBy:              d.PaidBy,
		AuditFields:         ToModelAuditFields(d.AuditFields),
		DeletedAt:           d.DeletedAt,
	}
}

// ToDomainReimbursement converts a model Reimbursement to a domain Reimbursement.
func ToDomainReimbursement(m models.Reimbursement) domain.Reimbursement {
	return domain.Reimbursement{
		ReimbursementID:     m.ReimbursementID,
		ReimbursementNumber: m.ReimbursementNumber,
		SourceType:          domain.ReimbursementSource(m.SourceType),
		SourcePurchaseID:    m.SourcePurchaseID,
		OrgScope:            domain.OrgScope(m.OrgScope),
		Category:            domain.ExpenseCategory(m.Category),
		Title:               m.Title,
		Amount:              m.Amount,
		OccurredDate:        m.OccurredDate,
		Details:             m.Details,
		InvoiceImages:       m.InvoiceImages,
		ReceiptImages:       m.ReceiptImages,
		Status:              domain.ReimbursementStatus(m.Status),
		PendingApproverID:   m.PendingApproverID,
		SubmittedAt:         m.SubmittedAt,
		ApprovedAt:          m.ApprovedAt,
		ApprovedBy:          m.ApprovedBy,
		RejectedAt:          m.RejectedAt,
		RejectedBy:          m.RejectedBy,
		RejectReason:        m.RejectReason,
		PaidAt:              m.PaidAt,
		PaidBy:              m.PaidBy,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
		DeletedAt:           m.DeletedAt,
	}
}

// ToDomainReimbursementSlice converts a slice of model Reimbursements.
func ToDomainReimbursementSlice(ms []models.Reimbursement) []domain.Reimbursement {
	ds := make([]domain.Reimbursement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReimbursement(m)
	}
	return ds
}
