package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	purchaseRepo := newPgxPurchaseRepository(dbPool)
	reimbursementRepo := newPgxReimbursementRepository(dbPool)
	workflowLogRepo := newPgxWorkflowLogRepository(dbPool)
	financeRepo := newPgxFinanceRepository(dbPool)
	employeeRepo := newPgxEmployeeRepository(dbPool)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	numberingRepo := newPgxNumberingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		PurchaseRepo:      purchaseRepo,
		ReimbursementRepo: reimbursementRepo,
		WorkflowLogRepo:   workflowLogRepo,
		FinanceRepo:       financeRepo,
		EmployeeRepo:      employeeRepo,
		InventoryRepo:     inventoryRepo,
		NumberingRepo:     numberingRepo,
	}
}
