package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
	"github.com/stefan-ysh/procure_approval_app/internal/utils/mapping"
	"github.com/stefan-ysh/procure_approval_app/internal/utils/pagination"
)

const expenseColumns = `record_id, record_number, source_type, source_id, amount, category, expense_date, created_at, created_by`

type PgxFinanceRepository struct {
	BaseRepository
}

// newPgxFinanceRepository creates a new repository for finance expense records.
func newPgxFinanceRepository(pool *pgxpool.Pool) portsrepo.FinanceRepositoryFacade {
	return &PgxFinanceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FinanceRepositoryFacade = (*PgxFinanceRepository)(nil)

func scanExpense(row rowScanner) (*domain.FinanceExpenseRecord, error) {
	var m models.FinanceExpenseRecord
	err := row.Scan(
		&m.RecordID,
		&m.RecordNumber,
		&m.SourceType,
		&m.SourceID,
		&m.Amount,
		&m.Category,
		&m.ExpenseDate,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainFinanceExpenseRecord(m)
	return &d, nil
}

// FindExpenseBySourceInTx looks up an existing record for the source entity
// using the caller's transaction.
func (r *PgxFinanceRepository) FindExpenseBySourceInTx(ctx context.Context, tx pgx.Tx, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM finance_expense_records
		WHERE source_type = $1 AND source_id = $2;
	`, expenseColumns)

	record, err := scanExpense(tx.QueryRow(ctx, query, string(sourceType), sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense record for %s/%s: %w", sourceType, sourceID, err)
	}
	return record, nil
}

// InsertExpenseInTx inserts a new expense record inside the caller's
// transaction. The unique index on (source_type, source_id) backs the
// exactly-once guarantee under concurrent pays.
func (r *PgxFinanceRepository) InsertExpenseInTx(ctx context.Context, tx pgx.Tx, record domain.FinanceExpenseRecord) error {
	m := mapping.ToModelFinanceExpenseRecord(record)

	query := `
		INSERT INTO finance_expense_records (record_id, record_number, source_type, source_id, amount, category, expense_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query,
		m.RecordID,
		m.RecordNumber,
		m.SourceType,
		m.SourceID,
		m.Amount,
		m.Category,
		m.ExpenseDate,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: expense record for %s/%s already exists", apperrors.ErrDuplicate, m.SourceType, m.SourceID)
		}
		return fmt.Errorf("failed to insert expense record %s: %w", m.RecordID, err)
	}
	return nil
}

// FindExpenseBySource is the plain read used outside transitions.
func (r *PgxFinanceRepository) FindExpenseBySource(ctx context.Context, sourceType domain.ExpenseSource, sourceID string) (*domain.FinanceExpenseRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM finance_expense_records
		WHERE source_type = $1 AND source_id = $2;
	`, expenseColumns)

	record, err := scanExpense(r.Pool.QueryRow(ctx, query, string(sourceType), sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no expense record for %s/%s", sourceType, sourceID))
		}
		return nil, fmt.Errorf("failed to find expense record for %s/%s: %w", sourceType, sourceID, err)
	}
	return record, nil
}

// ListExpenses retrieves a keyset-paginated page of expense records, newest
// first.
func (r *PgxFinanceRepository) ListExpenses(ctx context.Context, limit int, nextToken *string) ([]domain.FinanceExpenseRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	conditions := []string{"TRUE"}
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeCursorToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt)
		createdIdx := len(args)
		args = append(args, lastID)
		conditions = append(conditions, fmt.Sprintf("(created_at, record_id) < ($%d, $%d)", createdIdx, len(args)))
	}

	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM finance_expense_records
		WHERE %s
		ORDER BY created_at DESC, record_id DESC
		LIMIT $%d;
	`, expenseColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query expense records: %w", err)
	}
	defer rows.Close()

	records := []domain.FinanceExpenseRecord{}
	for rows.Next() {
		record, err := scanExpense(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan expense record row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating expense record rows: %w", err)
	}

	var token *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		t := pagination.EncodeCursorToken(last.CreatedAt, last.RecordID)
		token = &t
	}

	return records, token, nil
}
