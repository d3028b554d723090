package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management.
//
// Every multi-step transition (status update + workflow-log insert + optional
// finance insert or stock mutation) runs inside one transaction obtained
// here; the in-transaction repository methods all take the pgx.Tx explicitly
// so composition never silently nests transactions.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}
