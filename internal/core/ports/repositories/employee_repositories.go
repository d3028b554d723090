package repositories

import (
	"context"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// EmployeeReader defines read operations for employee identity data.
type EmployeeReader interface {
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error)

	// ListApproverLoads returns every active employee holding the given role
	// together with their current PENDING_APPROVAL backlog count. The read is
	// not locked; see the approver service for why that is acceptable.
	ListApproverLoads(ctx context.Context, role domain.EmployeeRole) ([]domain.ApproverLoad, error)
}

// EmployeeWriter defines write operations for employee identity data.
type EmployeeWriter interface {
	SaveEmployee(ctx context.Context, employee domain.Employee) error
}

// EmployeeRepositoryFacade combines employee repository interfaces.
type EmployeeRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
}
