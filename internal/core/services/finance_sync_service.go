package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
)

// financeSyncService writes bookkeeping expense records when a purchase or
// reimbursement is paid. Sync runs inside the payer's transaction so that a
// failed expense insert rolls the payment back with it.
type financeSyncService struct {
	financeRepo  portsrepo.FinanceRepositoryFacade
	numberingSvc portssvc.NumberingSvcFacade
}

// NewFinanceSyncService creates a new FinanceSyncService.
func NewFinanceSyncService(financeRepo portsrepo.FinanceRepositoryFacade, numberingSvc portssvc.NumberingSvcFacade) portssvc.FinanceSvcFacade {
	return &financeSyncService{financeRepo: financeRepo, numberingSvc: numberingSvc}
}

var _ portssvc.FinanceSvcFacade = (*financeSyncService)(nil)

// SyncExpenseInTx creates the expense record backing a paid source document.
// It is idempotent: if a record for the same source already exists it is
// returned unchanged and nothing is written.
func (s *financeSyncService) SyncExpenseInTx(ctx context.Context, tx pgx.Tx, input dto.ExpenseSyncInput) (*domain.FinanceExpenseRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.financeRepo.FindExpenseBySourceInTx(ctx, tx, input.SourceType, input.SourceID)
	if err == nil {
		logger.Debug("Expense record already exists for source, skipping sync",
			slog.String("source_type", string(input.SourceType)),
			slog.String("source_id", input.SourceID),
			slog.String("record_id", existing.RecordID))
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up expense record for %s/%s: %w", input.SourceType, input.SourceID, err)
	}

	number, err := s.numberingSvc.NextDocumentNumberInTx(ctx, tx, domain.EntityFinanceExpense, input.Now)
	if err != nil {
		return nil, err
	}

	record := domain.FinanceExpenseRecord{
		RecordID:     uuid.NewString(),
		RecordNumber: number,
		SourceType:   input.SourceType,
		SourceID:     input.SourceID,
		Amount:       input.Amount,
		Category:     input.Category,
		ExpenseDate:  input.ExpenseDate,
		CreatedAt:    input.Now,
		CreatedBy:    input.OperatorID,
	}

	if err := s.financeRepo.InsertExpenseInTx(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("failed to insert expense record for %s/%s: %w", input.SourceType, input.SourceID, err)
	}

	logger.Info("Expense record created",
		slog.String("record_id", record.RecordID),
		slog.String("record_number", record.RecordNumber),
		slog.String("source_type", string(record.SourceType)),
		slog.String("source_id", record.SourceID))

	return &record, nil
}

// GetExpenseBySource retrieves the expense record created for a source
// document, if any.
func (s *financeSyncService) GetExpenseBySource(ctx context.Context, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error) {
	record, err := s.financeRepo.FindExpenseBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListExpenses returns a page of expense records ordered by creation time.
func (s *financeSyncService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	records, nextToken, err := s.financeRepo.ListExpenses(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense records: %w", err)
	}
	return &dto.ListExpensesResponse{
		Records:   dto.ToExpenseRecordResponses(records),
		NextToken: nextToken,
	}, nil
}
