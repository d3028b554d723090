package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// FinanceRepositoryFacade persists finance expense records. Inserts only ever
// happen inside the pay transaction of the originating entity.
type FinanceRepositoryFacade interface {
	// FindExpenseBySourceInTx looks up an existing record for the source
	// entity using the caller's transaction, returning apperrors.ErrNotFound
	// when absent. This is the idempotence check before insert.
	FindExpenseBySourceInTx(ctx context.Context, tx pgx.Tx, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error)

	InsertExpenseInTx(ctx context.Context, tx pgx.Tx, record domain.FinanceExpenseRecord) error

	// FindExpenseBySource is the plain read used outside transitions.
	FindExpenseBySource(ctx context.Context, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error)

	ListExpenses(ctx context.Context, limit int, nextToken *string) ([]domain.FinanceExpenseRecord, *string, error)
}
