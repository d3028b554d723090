package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
)

// numberPrefixes maps entity types to their document number prefix.
var numberPrefixes = map[domain.EntityType]string{
	domain.EntityPurchase:             "PR",
	domain.EntityReimbursement:        "ER",
	domain.EntityInventoryApplication: "IA",
	domain.EntityFinanceExpense:       "FE",
}

// numberingService generates sequential document numbers per entity type per
// month, e.g. PR-202608-0001. The counter increments inside the caller's
// transaction so a rolled-back create leaves no visible gap.
type numberingService struct {
	numberingRepo portsrepo.NumberingRepositoryFacade
}

// NewNumberingService creates a new NumberingService.
func NewNumberingService(numberingRepo portsrepo.NumberingRepositoryFacade) portssvc.NumberingSvcFacade {
	return &numberingService{numberingRepo: numberingRepo}
}

var _ portssvc.NumberingSvcFacade = (*numberingService)(nil)

// NextDocumentNumberInTx returns the next document number for the entity type.
func (s *numberingService) NextDocumentNumberInTx(ctx context.Context, tx pgx.Tx, entityType domain.EntityType, now time.Time) (string, error) {
	prefix, ok := numberPrefixes[entityType]
	if !ok {
		return "", fmt.Errorf("%w: unknown entity type %q", apperrors.ErrValidation, entityType)
	}

	period := now.UTC().Format("200601")
	seq, err := s.numberingRepo.NextCounterInTx(ctx, tx, entityType, period)
	if err != nil {
		return "", fmt.Errorf("failed to advance document counter for %s/%s: %w", entityType, period, err)
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, period, seq), nil
}
