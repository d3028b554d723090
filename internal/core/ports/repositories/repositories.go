package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	PurchaseRepo      PurchaseRepositoryWithTx
	ReimbursementRepo ReimbursementRepositoryWithTx
	WorkflowLogRepo   WorkflowLogRepositoryFacade
	FinanceRepo       FinanceRepositoryFacade
	EmployeeRepo      EmployeeRepositoryFacade
	InventoryRepo     InventoryRepositoryWithTx
	NumberingRepo     NumberingRepositoryFacade
}
