package services

// ServiceContainer holds all service facades needed by the handlers.
type ServiceContainer struct {
	Purchase      PurchaseSvcFacade
	Reimbursement ReimbursementSvcFacade
	Approver      ApproverAssignerSvc
	Eligibility   EligibilityCheckerSvc
	Finance       FinanceSvcFacade
	Numbering     NumberingSvcFacade
	Inventory     InventorySvcFacade
	Employee      EmployeeSvcFacade
}
