package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
	"github.com/stefan-ysh/procure_approval_app/internal/utils"
)

// ErrInvalidCredentials is returned on any login failure. The message does
// not reveal whether the email exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// employeeService handles employee identity lookups and credentials.
type employeeService struct {
	employeeRepo portsrepo.EmployeeRepositoryFacade
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(employeeRepo portsrepo.EmployeeRepositoryFacade) portssvc.EmployeeSvcFacade {
	return &employeeService{employeeRepo: employeeRepo}
}

var _ portssvc.EmployeeSvcFacade = (*employeeService)(nil)

// FindEmployeeByID retrieves an employee by their id.
func (s *employeeService) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.employeeRepo.FindEmployeeByID(ctx, employeeID)
}

// FindEmployeeByEmail retrieves an employee by their email address.
func (s *employeeService) FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return s.employeeRepo.FindEmployeeByEmail(ctx, strings.ToLower(email))
}

// EnsureEmployeeRecordExists verifies the id resolves to an active employee.
// Every workflow write validates its actor through this before touching the
// database.
func (s *employeeService) EnsureEmployeeRecordExists(ctx context.Context, employeeID string) error {
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !employee.IsActive {
		return fmt.Errorf("%w: employee %s is inactive", apperrors.ErrValidation, employeeID)
	}
	return nil
}

// Authenticate verifies credentials and returns the employee on success.
func (s *employeeService) Authenticate(ctx context.Context, email, password string) (*domain.Employee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	employee, err := s.employeeRepo.FindEmployeeByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up employee by email: %w", err)
	}

	if !utils.CheckPasswordHash(password, employee.PasswordHash) {
		logger.Warn("Password mismatch on login", slog.String("employee_id", employee.EmployeeID))
		return nil, ErrInvalidCredentials
	}

	if !employee.IsActive {
		logger.Warn("Login attempt for inactive employee", slog.String("employee_id", employee.EmployeeID))
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrForbidden)
	}

	return employee, nil
}

// CreateEmployee registers a new employee record with a hashed password.
func (s *employeeService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorID string) (*domain.Employee, error) {
	email := strings.ToLower(req.Email)

	_, err := s.employeeRepo.FindEmployeeByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, email)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing employee: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	employee := domain.Employee{
		EmployeeID:   uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.employeeRepo.SaveEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Employee created",
		slog.String("employee_id", employee.EmployeeID),
		slog.String("role", string(employee.Role)))

	return &employee, nil
}
