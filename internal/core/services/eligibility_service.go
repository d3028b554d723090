package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
)

var (
	// ErrPurchaseNotReimbursable indicates the purchase's payment method can
	// never back an employee reimbursement.
	ErrPurchaseNotReimbursable = errors.New("purchase payment method is not reimbursable")

	// ErrPurchaseAlreadyLinked indicates another live reimbursement already
	// claims the purchase.
	ErrPurchaseAlreadyLinked = errors.New("purchase is already linked to an active reimbursement")

	// ErrInboundNotReady indicates no goods receipt has been recorded against
	// the purchase yet.
	ErrInboundNotReady = errors.New("no inbound stock movement recorded for purchase")

	// ErrInvoiceEvidenceMissing indicates an expected invoice has no evidence
	// image attached.
	ErrInvoiceEvidenceMissing = errors.New("invoice evidence image required before submission")

	// ErrDirectEvidenceMissing indicates a standalone claim carries neither an
	// invoice image nor a receipt image.
	ErrDirectEvidenceMissing = errors.New("invoice or receipt image required before submission")
)

// eligibilityService runs the cross-entity read-only checks that gate
// reimbursement creation and submission.
type eligibilityService struct {
	reimbursementRepo portsrepo.ReimbursementReader
	inventoryRepo     portsrepo.InventoryReader
}

// NewEligibilityService creates a new EligibilityService.
func NewEligibilityService(reimbursementRepo portsrepo.ReimbursementReader, inventoryRepo portsrepo.InventoryReader) portssvc.EligibilityCheckerSvc {
	return &eligibilityService{reimbursementRepo: reimbursementRepo, inventoryRepo: inventoryRepo}
}

var _ portssvc.EligibilityCheckerSvc = (*eligibilityService)(nil)

// CheckPurchaseReimbursable fails when the purchase was settled directly by
// the organization and never touched an employee's pocket.
func (s *eligibilityService) CheckPurchaseReimbursable(purchase *domain.Purchase) error {
	if !purchase.PaymentMethod.Reimbursable() {
		return fmt.Errorf("%w: purchase %s was paid via %s", ErrPurchaseNotReimbursable, purchase.PurchaseID, purchase.PaymentMethod)
	}
	return nil
}

// CheckSingleLink enforces that at most one live reimbursement references a
// given purchase. excludeID skips the record currently being edited.
func (s *eligibilityService) CheckSingleLink(ctx context.Context, purchaseID string, excludeID *string) error {
	count, err := s.reimbursementRepo.CountActiveBySourcePurchase(ctx, purchaseID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to count reimbursements linked to purchase %s: %w", purchaseID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: purchase %s", ErrPurchaseAlreadyLinked, purchaseID)
	}
	return nil
}

// CheckInboundReady fails until at least one inbound movement exists for the
// purchase, proving the goods were actually received.
func (s *eligibilityService) CheckInboundReady(ctx context.Context, purchaseID string) error {
	ok, err := s.inventoryRepo.HasInboundMovementForPurchase(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to check inbound movements for purchase %s: %w", purchaseID, err)
	}
	if !ok {
		return fmt.Errorf("%w: purchase %s", ErrInboundNotReady, purchaseID)
	}
	return nil
}

// CheckPurchaseInvoiceEvidence applies the shared invoice-evidence rule to a
// purchase before it (or a claim derived from it) may be submitted.
func (s *eligibilityService) CheckPurchaseInvoiceEvidence(purchase *domain.Purchase) error {
	if !purchase.InvoiceEvidenceSatisfied() {
		return fmt.Errorf("%w: purchase %s expects a %s invoice", ErrInvoiceEvidenceMissing, purchase.PurchaseID, purchase.InvoiceType)
	}
	return nil
}

// CheckDirectEvidence requires some evidence image on a standalone claim.
func (s *eligibilityService) CheckDirectEvidence(reimbursement *domain.Reimbursement) error {
	if !reimbursement.DirectEvidenceSatisfied() {
		return fmt.Errorf("%w: reimbursement %s", ErrDirectEvidenceMissing, reimbursement.ReimbursementID)
	}
	return nil
}
