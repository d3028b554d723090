package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
	"github.com/stefan-ysh/procure_approval_app/internal/utils/mapping"
)

const stockItemColumns = `item_id, name, unit, quantity, created_at, created_by, last_updated_at, last_updated_by`

const movementColumns = `movement_id, item_id, direction, quantity, purchase_id, application_id, created_at, created_by`

const applicationColumns = `application_id, application_number, item_id, quantity, reason, applicant_id, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for stock and movement data.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryWithTx {
	return &PgxInventoryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryWithTx = (*PgxInventoryRepository)(nil)

func scanStockItem(row rowScanner) (*domain.StockItem, error) {
	var m models.StockItem
	err := row.Scan(
		&m.ItemID,
		&m.Name,
		&m.Unit,
		&m.Quantity,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainStockItem(m)
	return &d, nil
}

func scanMovement(row rowScanner) (*domain.StockMovement, error) {
	var m models.StockMovement
	err := row.Scan(
		&m.MovementID,
		&m.ItemID,
		&m.Direction,
		&m.Quantity,
		&m.PurchaseID,
		&m.ApplicationID,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainStockMovement(m)
	return &d, nil
}

func scanApplication(row rowScanner) (*domain.InventoryApplication, error) {
	var m models.InventoryApplication
	err := row.Scan(
		&m.ApplicationID,
		&m.ApplicationNumber,
		&m.ItemID,
		&m.Quantity,
		&m.Reason,
		&m.ApplicantID,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainInventoryApplication(m)
	return &d, nil
}

// HasInboundMovementForPurchase reports whether at least one inbound movement
// is recorded against the purchase.
func (r *PgxInventoryRepository) HasInboundMovementForPurchase(ctx context.Context, purchaseID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_movements
			WHERE purchase_id = $1 AND direction = 'INBOUND'
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, purchaseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check inbound movements for purchase %s: %w", purchaseID, err)
	}
	return exists, nil
}

// FindStockItemByID retrieves the stock snapshot for an item.
func (r *PgxInventoryRepository) FindStockItemByID(ctx context.Context, itemID string) (*domain.StockItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stock_items
		WHERE item_id = $1;
	`, stockItemColumns)

	item, err := scanStockItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("stock item %s not found", itemID))
		}
		return nil, fmt.Errorf("failed to find stock item by ID %s: %w", itemID, err)
	}
	return item, nil
}

// FindApplicationByID retrieves an inventory application.
func (r *PgxInventoryRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.InventoryApplication, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM inventory_applications
		WHERE application_id = $1;
	`, applicationColumns)

	application, err := scanApplication(r.Pool.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("inventory application %s not found", applicationID))
		}
		return nil, fmt.Errorf("failed to find inventory application by ID %s: %w", applicationID, err)
	}
	return application, nil
}

// ListMovementsByPurchase returns all movements recorded against a purchase,
// oldest first.
func (r *PgxInventoryRepository) ListMovementsByPurchase(ctx context.Context, purchaseID string) ([]domain.StockMovement, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stock_movements
		WHERE purchase_id = $1
		ORDER BY created_at ASC, movement_id ASC;
	`, movementColumns)

	rows, err := r.Pool.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for purchase %s: %w", purchaseID, err)
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement row: %w", err)
		}
		movements = append(movements, *movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movement rows: %w", err)
	}

	return movements, nil
}

// SaveStockItem registers a new stock item.
func (r *PgxInventoryRepository) SaveStockItem(ctx context.Context, item domain.StockItem) error {
	m := mapping.ToModelStockItem(item)

	query := `
		INSERT INTO stock_items (item_id, name, unit, quantity, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID,
		m.Name,
		m.Unit,
		m.Quantity,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: stock item %s already exists", apperrors.ErrDuplicate, m.ItemID)
		}
		return fmt.Errorf("failed to save stock item %s: %w", m.ItemID, err)
	}
	return nil
}

// FindStockItemForUpdateInTx locks the stock snapshot row before the
// availability comparison. Must be called within a transaction.
func (r *PgxInventoryRepository) FindStockItemForUpdateInTx(ctx context.Context, tx pgx.Tx, itemID string) (*domain.StockItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stock_items
		WHERE item_id = $1
		FOR UPDATE;
	`, stockItemColumns)

	item, err := scanStockItem(tx.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("stock item %s not found", itemID))
		}
		return nil, fmt.Errorf("failed to lock stock item %s: %w", itemID, err)
	}
	return item, nil
}

// AdjustStockQuantityInTx applies a signed delta to the stock snapshot.
func (r *PgxInventoryRepository) AdjustStockQuantityInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal, operatorID string, at time.Time) error {
	query := `
		UPDATE stock_items
		SET quantity = quantity + $2, last_updated_at = $3, last_updated_by = $4
		WHERE item_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, itemID, delta, at, operatorID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock quantity for item %s: %w", itemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("stock item %s not found", itemID))
	}
	return nil
}

// InsertMovementInTx inserts a stock movement inside the caller's transaction.
func (r *PgxInventoryRepository) InsertMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.StockMovement) error {
	m := mapping.ToModelStockMovement(movement)

	query := `
		INSERT INTO stock_movements (movement_id, item_id, direction, quantity, purchase_id, application_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		m.MovementID,
		m.ItemID,
		m.Direction,
		m.Quantity,
		m.PurchaseID,
		m.ApplicationID,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stock movement %s: %w", m.MovementID, err)
	}
	return nil
}

// InsertApplicationInTx inserts an inventory application inside the caller's
// transaction.
func (r *PgxInventoryRepository) InsertApplicationInTx(ctx context.Context, tx pgx.Tx, application domain.InventoryApplication) error {
	m := mapping.ToModelInventoryApplication(application)

	query := `
		INSERT INTO inventory_applications (application_id, application_number, item_id, quantity, reason, applicant_id, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.ApplicationID,
		m.ApplicationNumber,
		m.ItemID,
		m.Quantity,
		m.Reason,
		m.ApplicantID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory application %s: %w", m.ApplicationID, err)
	}
	return nil
}

// TransitionApplicationStatusInTx flips the application status guarded on the
// current status being from.
func (r *PgxInventoryRepository) TransitionApplicationStatusInTx(ctx context.Context, tx pgx.Tx, applicationID string, from, to domain.ApplicationStatus, operatorID string, at time.Time) (bool, error) {
	query := `
		UPDATE inventory_applications
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE application_id = $1 AND status = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, applicationID, string(from), string(to), at, operatorID)
	if err != nil {
		return false, fmt.Errorf("failed to transition inventory application %s to %s: %w", applicationID, to, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
