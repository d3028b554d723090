package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

// FinanceSvcFacade materializes ledger records for paid entities.
type FinanceSvcFacade interface {
	// SyncExpenseInTx creates the finance record for the source entity inside
	// the caller's pay transaction. If a record already exists it is returned
	// unchanged, making retries of the pay transition safe.
	SyncExpenseInTx(ctx context.Context, tx pgx.Tx, input dto.ExpenseSyncInput) (*domain.FinanceExpenseRecord, error)

	GetExpenseBySource(ctx context.Context, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error)
	ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// NumberingSvcFacade generates human-readable sequential document numbers
// per entity type per month, e.g. PR-202608-0001.
type NumberingSvcFacade interface {
	NextDocumentNumberInTx(ctx context.Context, tx pgx.Tx, entityType domain.EntityType, now time.Time) (string, error)
}
