package dto

import (
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the bearer token and basic identity.
type LoginResponse struct {
	Token      string              `json:"token"`
	EmployeeID string              `json:"employeeID"`
	Name       string              `json:"name"`
	Role       domain.EmployeeRole `json:"role"`
}

// CreateEmployeeRequest registers a new employee record.
type CreateEmployeeRequest struct {
	Name     string              `json:"name" binding:"required"`
	Email    string              `json:"email" binding:"required,email"`
	Password string              `json:"password" binding:"required,min=8"`
	Role     domain.EmployeeRole `json:"role" binding:"required,oneof=STAFF FINANCE_SCHOOL FINANCE_COMPANY ADMIN"`
}

// EmployeeResponse defines the data returned for an employee.
type EmployeeResponse struct {
	EmployeeID string              `json:"employeeID"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Role       domain.EmployeeRole `json:"role"`
	IsActive   bool                `json:"isActive"`
}

// ToEmployeeResponse converts a domain.Employee to its DTO.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Email:      e.Email,
		Role:       e.Role,
		IsActive:   e.IsActive,
	}
}
