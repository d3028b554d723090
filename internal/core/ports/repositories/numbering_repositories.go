package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// NumberingRepositoryFacade hands out monthly sequence values per entity
// type. The increment must happen inside the caller's transaction so a
// rolled-back create does not burn a visible gap mid-month.
type NumberingRepositoryFacade interface {
	// NextCounterInTx atomically increments and returns the counter for
	// (entityType, period). Period is formatted YYYYMM.
	NextCounterInTx(ctx context.Context, tx pgx.Tx, entityType domain.EntityType, period string) (int64, error)
}
