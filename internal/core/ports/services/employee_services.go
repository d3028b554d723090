package services

import (
	"context"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

// EmployeeSvcFacade is the identity collaborator: lookups used to validate
// actor/applicant/approver ids before any write, plus credential checks for
// the thin auth surface.
type EmployeeSvcFacade interface {
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error)

	// EnsureEmployeeRecordExists fails with apperrors.ErrNotFound when the id
	// does not resolve to an active, non-deleted employee.
	EnsureEmployeeRecordExists(ctx context.Context, employeeID string) error

	// Authenticate verifies credentials and returns the employee on success.
	Authenticate(ctx context.Context, email, password string) (*domain.Employee, error)

	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorID string) (*domain.Employee, error)
}
