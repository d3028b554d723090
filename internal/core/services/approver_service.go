package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
)

// ErrApproverNotFound indicates no active employee holds the finance role for
// the requested scope. Submission cannot proceed without an approver.
var ErrApproverNotFound = errors.New("no eligible approver found")

// approverService picks the approver for a submitted reimbursement using
// load balancing over the finance staff of the matching scope.
//
// The backlog read is deliberately unlocked: two concurrent submits may both
// pick the currently least-loaded approver, which skews load by at most one
// claim and corrects itself on the next assignment.
type approverService struct {
	employeeRepo portsrepo.EmployeeReader
}

// NewApproverService creates a new ApproverService.
func NewApproverService(employeeRepo portsrepo.EmployeeReader) portssvc.ApproverAssignerSvc {
	return &approverService{employeeRepo: employeeRepo}
}

var _ portssvc.ApproverAssignerSvc = (*approverService)(nil)

// AssignApprover returns the eligible approver with the smallest
// PENDING_APPROVAL backlog. Ties go to the most recently updated employee
// record, then to the lexicographically smaller employee id so the choice is
// deterministic.
func (s *approverService) AssignApprover(ctx context.Context, scope domain.OrgScope) (*domain.Employee, error) {
	role := scope.ApproverRole()

	loads, err := s.employeeRepo.ListApproverLoads(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list approver candidates for role %s: %w", role, err)
	}
	if len(loads) == 0 {
		return nil, fmt.Errorf("%w: no active %s employee", ErrApproverNotFound, role)
	}

	sort.Slice(loads, func(i, j int) bool {
		if loads[i].PendingCount != loads[j].PendingCount {
			return loads[i].PendingCount < loads[j].PendingCount
		}
		if !loads[i].Employee.LastUpdatedAt.Equal(loads[j].Employee.LastUpdatedAt) {
			return loads[i].Employee.LastUpdatedAt.After(loads[j].Employee.LastUpdatedAt)
		}
		return loads[i].Employee.EmployeeID < loads[j].Employee.EmployeeID
	})

	chosen := loads[0].Employee
	middleware.GetLoggerFromCtx(ctx).Debug("Assigned approver",
		slog.String("approver_id", chosen.EmployeeID),
		slog.String("role", string(role)),
		slog.Int("pending_count", loads[0].PendingCount))

	return &chosen, nil
}
