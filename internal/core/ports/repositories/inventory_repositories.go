package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// InventoryReader defines read operations for stock and movement data.
type InventoryReader interface {
	// HasInboundMovementForPurchase reports whether at least one inbound
	// movement (goods receipt) is recorded against the purchase. Backs the
	// inbound-readiness eligibility check.
	HasInboundMovementForPurchase(ctx context.Context, purchaseID string) (bool, error)

	FindStockItemByID(ctx context.Context, itemID string) (*domain.StockItem, error)
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.InventoryApplication, error)
	ListMovementsByPurchase(ctx context.Context, purchaseID string) ([]domain.StockMovement, error)
}

// InventoryWriter defines write operations for stock and movement data.
// Apart from item registration, all writes run inside a caller-supplied
// transaction.
type InventoryWriter interface {
	// SaveStockItem registers a new stock item with a zero quantity.
	SaveStockItem(ctx context.Context, item domain.StockItem) error

	// FindStockItemForUpdateInTx locks the stock snapshot row before the
	// availability comparison, preventing concurrent approvals from
	// over-allocating the same stock.
	FindStockItemForUpdateInTx(ctx context.Context, tx pgx.Tx, itemID string) (*domain.StockItem, error)

	// AdjustStockQuantityInTx applies a signed delta to the locked snapshot.
	AdjustStockQuantityInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal, operatorID string, at time.Time) error

	InsertMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.StockMovement) error
	InsertApplicationInTx(ctx context.Context, tx pgx.Tx, application domain.InventoryApplication) error

	// TransitionApplicationStatusInTx flips the application status guarded on
	// the current status being from. Returns false when the guard did not match.
	TransitionApplicationStatusInTx(ctx context.Context, tx pgx.Tx, applicationID string, from, to domain.ApplicationStatus, operatorID string, at time.Time) (bool, error)
}

// InventoryRepositoryFacade combines inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}

// InventoryRepositoryWithTx extends the facade with transaction capabilities.
type InventoryRepositoryWithTx interface {
	InventoryRepositoryFacade
	TransactionManager
}
