package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// WorkflowLogRepositoryFacade persists the append-only audit trail. There is
// deliberately no update or delete operation.
type WorkflowLogRepositoryFacade interface {
	// AppendLogInTx inserts one transition entry inside the caller's
	// transaction so the entry lives or dies with the transition itself.
	AppendLogInTx(ctx context.Context, tx pgx.Tx, entry domain.WorkflowLog) error

	// ListLogsByEntity returns the full trail for one entity, oldest first.
	ListLogsByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.WorkflowLog, error)
}
