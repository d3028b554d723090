package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // EmployeeID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // EmployeeID reference
}

// EntityType identifies which document type a shared record (workflow log,
// document counter) belongs to.
type EntityType string

const (
	EntityPurchase             EntityType = "PURCHASE"
	EntityReimbursement        EntityType = "REIMBURSEMENT"
	EntityInventoryApplication EntityType = "INVENTORY_APPLICATION"
	EntityFinanceExpense       EntityType = "FINANCE_EXPENSE"
)

// OrgScope is the organizational unit a document is settled under. It decides
// which finance role is eligible to approve a reimbursement.
type OrgScope string

const (
	ScopeSchool  OrgScope = "SCHOOL"
	ScopeCompany OrgScope = "COMPANY"
)
