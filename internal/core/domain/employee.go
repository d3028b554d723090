package domain

import "time"

// EmployeeRole determines what an employee may approve.
type EmployeeRole string

const (
	RoleStaff          EmployeeRole = "STAFF"
	RoleFinanceSchool  EmployeeRole = "FINANCE_SCHOOL"
	RoleFinanceCompany EmployeeRole = "FINANCE_COMPANY"
	RoleAdmin          EmployeeRole = "ADMIN"
)

// Employee represents a user of the application in the domain.
type Employee struct {
	EmployeeID   string       `json:"employeeID"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         EmployeeRole `json:"role"`
	IsActive     bool         `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // soft delete
}

// ApproverLoad pairs a candidate approver with the size of their current
// PENDING_APPROVAL backlog. Used by approver assignment.
type ApproverLoad struct {
	Employee     Employee
	PendingCount int
}
