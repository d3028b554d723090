package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
	"github.com/stefan-ysh/procure_approval_app/internal/utils/mapping"
)

const employeeColumns = `employee_id, name, email, password_hash, role, is_active,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxEmployeeRepository struct {
	BaseRepository
}

// newPgxEmployeeRepository creates a new repository for employee data.
func newPgxEmployeeRepository(pool *pgxpool.Pool) portsrepo.EmployeeRepositoryFacade {
	return &PgxEmployeeRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var m models.Employee
	err := row.Scan(
		&m.EmployeeID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainEmployee(m)
	return &d, nil
}

// FindEmployeeByID retrieves an employee by id, excluding soft-deleted rows.
func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE employee_id = $1 AND deleted_at IS NULL;
	`, employeeColumns)

	employee, err := scanEmployee(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("employee %s not found", employeeID))
		}
		return nil, fmt.Errorf("failed to find employee by ID %s: %w", employeeID, err)
	}
	return employee, nil
}

// FindEmployeeByEmail retrieves an employee by email, excluding soft-deleted
// rows.
func (r *PgxEmployeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE email = $1 AND deleted_at IS NULL;
	`, employeeColumns)

	employee, err := scanEmployee(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("employee with email %s not found", email))
		}
		return nil, fmt.Errorf("failed to find employee by email: %w", err)
	}
	return employee, nil
}

// ListApproverLoads returns every active employee holding the given role
// together with their current PENDING_APPROVAL backlog count.
func (r *PgxEmployeeRepository) ListApproverLoads(ctx context.Context, role domain.EmployeeRole) ([]domain.ApproverLoad, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*)
			 FROM reimbursements re
			 WHERE re.pending_approver_id = e.employee_id
			   AND re.status = 'PENDING_APPROVAL'
			   AND re.deleted_at IS NULL) AS pending_count
		FROM employees e
		WHERE e.role = $1 AND e.is_active = TRUE AND e.deleted_at IS NULL;
	`, employeeColumns)

	rows, err := r.Pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query approver loads for role %s: %w", role, err)
	}
	defer rows.Close()

	loads := []domain.ApproverLoad{}
	for rows.Next() {
		var m models.Employee
		var pendingCount int
		if err := rows.Scan(
			&m.EmployeeID,
			&m.Name,
			&m.Email,
			&m.PasswordHash,
			&m.Role,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.DeletedAt,
			&pendingCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approver load row: %w", err)
		}
		loads = append(loads, domain.ApproverLoad{
			Employee:     mapping.ToDomainEmployee(m),
			PendingCount: pendingCount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approver load rows: %w", err)
	}

	return loads, nil
}

// SaveEmployee inserts a new employee.
func (r *PgxEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	m := mapping.ToModelEmployee(employee)

	query := `
		INSERT INTO employees (employee_id, name, email, password_hash, role, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EmployeeID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: employee with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save employee %s: %w", m.EmployeeID, err)
	}
	return nil
}
