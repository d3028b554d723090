package services

import (
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	numberingSvc := NewNumberingService(repos.NumberingRepo)
	financeSvc := NewFinanceSyncService(repos.FinanceRepo, numberingSvc)
	employeeSvc := NewEmployeeService(repos.EmployeeRepo)
	eligibilitySvc := NewEligibilityService(repos.ReimbursementRepo, repos.InventoryRepo)
	approverSvc := NewApproverService(repos.EmployeeRepo)

	purchaseSvc := NewPurchaseService(
		repos.PurchaseRepo,
		repos.WorkflowLogRepo,
		financeSvc,
		numberingSvc,
		employeeSvc,
		eligibilitySvc,
	)
	reimbursementSvc := NewReimbursementService(
		repos.ReimbursementRepo,
		repos.PurchaseRepo,
		repos.WorkflowLogRepo,
		financeSvc,
		numberingSvc,
		approverSvc,
		eligibilitySvc,
		employeeSvc,
	)
	inventorySvc := NewInventoryService(
		repos.InventoryRepo,
		repos.PurchaseRepo,
		repos.WorkflowLogRepo,
		numberingSvc,
		employeeSvc,
	)

	return &portssvc.ServiceContainer{
		Purchase:      purchaseSvc,
		Reimbursement: reimbursementSvc,
		Approver:      approverSvc,
		Eligibility:   eligibilitySvc,
		Finance:       financeSvc,
		Numbering:     numberingSvc,
		Inventory:     inventorySvc,
		Employee:      employeeSvc,
	}
}
