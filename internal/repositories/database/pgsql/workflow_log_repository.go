package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
	"github.com/stefan-ysh/procure_approval_app/internal/utils/mapping"
)

type PgxWorkflowLogRepository struct {
	BaseRepository
}

// newPgxWorkflowLogRepository creates a new repository for workflow log data.
func newPgxWorkflowLogRepository(pool *pgxpool.Pool) portsrepo.WorkflowLogRepositoryFacade {
	return &PgxWorkflowLogRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkflowLogRepositoryFacade = (*PgxWorkflowLogRepository)(nil)

// AppendLogInTx inserts one audit entry inside the caller's transaction.
func (r *PgxWorkflowLogRepository) AppendLogInTx(ctx context.Context, tx pgx.Tx, entry domain.WorkflowLog) error {
	m := mapping.ToModelWorkflowLog(entry)

	query := `
		INSERT INTO workflow_logs (log_id, entity_type, entity_id, action, from_status, to_status, operator_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query,
		m.LogID,
		m.EntityType,
		m.EntityID,
		m.Action,
		m.FromStatus,
		m.ToStatus,
		m.OperatorID,
		m.Comment,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert workflow log for %s/%s: %w", m.EntityType, m.EntityID, err)
	}
	return nil
}

// ListLogsByEntity returns the full audit trail for one entity, oldest first.
func (r *PgxWorkflowLogRepository) ListLogsByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.WorkflowLog, error) {
	query := `
		SELECT log_id, entity_type, entity_id, action, from_status, to_status, operator_id, comment, created_at
		FROM workflow_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC, log_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, string(entityType), entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow logs for %s/%s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	logs := []models.WorkflowLog{}
	for rows.Next() {
		var m models.WorkflowLog
		if err := rows.Scan(
			&m.LogID,
			&m.EntityType,
			&m.EntityID,
			&m.Action,
			&m.FromStatus,
			&m.ToStatus,
			&m.OperatorID,
			&m.Comment,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workflow log row: %w", err)
		}
		logs = append(logs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflow log rows: %w", err)
	}

	return mapping.ToDomainWorkflowLogSlice(logs), nil
}
