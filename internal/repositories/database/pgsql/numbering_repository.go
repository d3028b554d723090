package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
)

type PgxNumberingRepository struct {
	BaseRepository
}

// newPgxNumberingRepository creates a new repository for document counters.
func newPgxNumberingRepository(pool *pgxpool.Pool) portsrepo.NumberingRepositoryFacade {
	return &PgxNumberingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.NumberingRepositoryFacade = (*PgxNumberingRepository)(nil)

// NextCounterInTx atomically advances and returns the per-entity per-period
// counter. The upsert takes a row lock, so two concurrent creates in the same
// period serialize here and can never observe the same value.
func (r *PgxNumberingRepository) NextCounterInTx(ctx context.Context, tx pgx.Tx, entityType domain.EntityType, period string) (int64, error) {
	query := `
		INSERT INTO document_counters (entity_type, period, counter)
		VALUES ($1, $2, 1)
		ON CONFLICT (entity_type, period)
		DO UPDATE SET counter = document_counters.counter + 1
		RETURNING counter;
	`
	var counter int64
	if err := tx.QueryRow(ctx, query, string(entityType), period).Scan(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance counter for %s/%s: %w", entityType, period, err)
	}
	return counter, nil
}
