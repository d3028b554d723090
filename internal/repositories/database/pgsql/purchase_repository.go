package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portsrepo "github.com/stefan-ysh/procure_approval_app/internal/core/ports/repositories"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
	"github.com/stefan-ysh/procure_approval_app/internal/utils/mapping"
	"github.com/stefan-ysh/procure_approval_app/internal/utils/pagination"
)

const purchaseColumns = `purchase_id, purchase_number, item_name, quantity, unit_price, total_amount,
	payment_method, invoice_type, invoice_status, invoice_images, project_id, supplier_id,
	org_scope, applicant_id, status,
	submitted_at, approved_at, approved_by, rejected_at, rejected_by, reject_reason, paid_at, paid_by,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxPurchaseRepository struct {
	BaseRepository
}

// newPgxPurchaseRepository creates a new repository for purchase data.
func newPgxPurchaseRepository(pool *pgxpool.Pool) portsrepo.PurchaseRepositoryWithTx {
	return &PgxPurchaseRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PurchaseRepositoryWithTx = (*PgxPurchaseRepository)(nil)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// marshalStringList serializes an image list for a JSONB column. A nil list
// is stored as an empty array, never as NULL.
func marshalStringList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	var m models.Purchase
	var imagesJSON []byte

	err := row.Scan(
		&m.PurchaseID,
		&m.PurchaseNumber,
		&m.ItemName,
		&m.Quantity,
		&m.UnitPrice,
		&m.TotalAmount,
		&m.PaymentMethod,
		&m.InvoiceType,
		&m.InvoiceStatus,
		&imagesJSON,
		&m.ProjectID,
		&m.SupplierID,
		&m.OrgScope,
		&m.ApplicantID,
		&m.Status,
		&m.SubmittedAt,
		&m.ApprovedAt,
		&m.ApprovedBy,
		&m.RejectedAt,
		&m.RejectedBy,
		&m.RejectReason,
		&m.PaidAt,
		&m.PaidBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &m.InvoiceImages); err != nil {
			return nil, fmt.Errorf("failed to decode invoice images for purchase %s: %w", m.PurchaseID, err)
		}
	}

	d := mapping.ToDomainPurchase(m)
	return &d, nil
}

func purchaseStatusStrings(from []domain.PurchaseStatus) []string {
	ss := make([]string, len(from))
	for i, s := range from {
		ss[i] = string(s)
	}
	return ss
}

// FindPurchaseByID retrieves a purchase by its ID, excluding soft-deleted rows.
func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM purchases
		WHERE purchase_id = $1 AND deleted_at IS NULL;
	`, purchaseColumns)

	purchase, err := scanPurchase(r.Pool.QueryRow(ctx, query, purchaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("purchase %s not found", purchaseID))
		}
		return nil, fmt.Errorf("failed to find purchase by ID %s: %w", purchaseID, err)
	}
	return purchase, nil
}

// ListPurchases retrieves a keyset-paginated page of purchases, newest first,
// optionally filtered by applicant.
func (r *PgxPurchaseRepository) ListPurchases(ctx context.Context, applicantID *string, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	if applicantID != nil {
		args = append(args, *applicantID)
		conditions = append(conditions, fmt.Sprintf("applicant_id = $%d", len(args)))
	}

	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeCursorToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt)
		createdIdx := len(args)
		args = append(args, lastID)
		conditions = append(conditions, fmt.Sprintf("(created_at, purchase_id) < ($%d, $%d)", createdIdx, len(args)))
	}

	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM purchases
		WHERE %s
		ORDER BY created_at DESC, purchase_id DESC
		LIMIT $%d;
	`, purchaseColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	purchases := []domain.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan purchase row: %w", err)
		}
		purchases = append(purchases, *purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating purchase rows: %w", err)
	}

	var token *string
	if len(purchases) > limit {
		purchases = purchases[:limit]
		last := purchases[len(purchases)-1]
		t := pagination.EncodeCursorToken(last.CreatedAt, last.PurchaseID)
		token = &t
	}

	return purchases, token, nil
}

// InsertPurchaseInTx inserts a new purchase inside the caller's transaction.
func (r *PgxPurchaseRepository) InsertPurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error {
	m := mapping.ToModelPurchase(purchase)

	imagesJSON, err := marshalStringList(m.InvoiceImages)
	if err != nil {
		return fmt.Errorf("failed to encode invoice images for purchase %s: %w", m.PurchaseID, err)
	}

	query := `
		INSERT INTO purchases (purchase_id, purchase_number, item_name, quantity, unit_price, total_amount,
			payment_method, invoice_type, invoice_status, invoice_images, project_id, supplier_id,
			org_scope, applicant_id, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, query,
		m.PurchaseID,
		m.PurchaseNumber,
		m.ItemName,
		m.Quantity,
		m.UnitPrice,
		m.TotalAmount,
		m.PaymentMethod,
		m.InvoiceType,
		m.InvoiceStatus,
		imagesJSON,
		m.ProjectID,
		m.SupplierID,
		m.OrgScope,
		m.ApplicantID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: purchase %s already exists", apperrors.ErrDuplicate, m.PurchaseID)
		}
		return fmt.Errorf("failed to insert purchase %s: %w", m.PurchaseID, err)
	}
	return nil
}

// UpdatePurchaseFieldsInTx rewrites the editable descriptive fields, guarded
// on the row still being in one of the given states.
func (r *PgxPurchaseRepository) UpdatePurchaseFieldsInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase, from []domain.PurchaseStatus) (bool, error) {
	m := mapping.ToModelPurchase(purchase)

	imagesJSON, err := marshalStringList(m.InvoiceImages)
	if err != nil {
		return false, fmt.Errorf("failed to encode invoice images for purchase %s: %w", m.PurchaseID, err)
	}

	query := `
		UPDATE purchases
		SET item_name = $2, quantity = $3, unit_price = $4, total_amount = $5,
			payment_method = $6, invoice_type = $7, invoice_status = $8, invoice_images = $9,
			project_id = $10, supplier_id = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE purchase_id = $1 AND status = ANY($14) AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.PurchaseID,
		m.ItemName,
		m.Quantity,
		m.UnitPrice,
		m.TotalAmount,
		m.PaymentMethod,
		m.InvoiceType,
		m.InvoiceStatus,
		imagesJSON,
		m.ProjectID,
		m.SupplierID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		purchaseStatusStrings(from),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update purchase %s: %w", m.PurchaseID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// TransitionPurchaseStatusInTx applies a status-guarded transition. The guard
// is the optimistic concurrency control for the whole state machine: a lost
// race shows up as zero rows affected, never as a stale overwrite.
func (r *PgxPurchaseRepository) TransitionPurchaseStatusInTx(ctx context.Context, tx pgx.Tx, purchaseID string, from []domain.PurchaseStatus, change portsrepo.PurchaseStatusChange) (bool, error) {
	set := []string{"status = $2", "last_updated_at = $3", "last_updated_by = $4"}
	args := []any{purchaseID, string(change.To), change.UpdatedAt, change.UpdatedBy}

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if change.SubmittedAt != nil {
		addSet("submitted_at", *change.SubmittedAt)
	}
	if change.ApprovedAt != nil {
		addSet("approved_at", *change.ApprovedAt)
	}
	if change.ApprovedBy != nil {
		addSet("approved_by", *change.ApprovedBy)
	}
	if change.RejectedAt != nil {
		addSet("rejected_at", *change.RejectedAt)
	}
	if change.RejectedBy != nil {
		addSet("rejected_by", *change.RejectedBy)
	}
	if change.RejectReason != nil {
		addSet("reject_reason", *change.RejectReason)
	}
	if change.PaidAt != nil {
		addSet("paid_at", *change.PaidAt)
	}
	if change.PaidBy != nil {
		addSet("paid_by", *change.PaidBy)
	}
	if change.ClearRejection {
		set = append(set, "rejected_at = NULL", "rejected_by = NULL", "reject_reason = NULL")
	}

	args = append(args, purchaseStatusStrings(from))
	query := fmt.Sprintf(`
		UPDATE purchases
		SET %s
		WHERE purchase_id = $1 AND status = ANY($%d) AND deleted_at IS NULL;
	`, strings.Join(set, ", "), len(args))

	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to transition purchase %s to %s: %w", purchaseID, change.To, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// SoftDeletePurchaseInTx marks the purchase deleted and cancelled, guarded on
// the current status being one of from.
func (r *PgxPurchaseRepository) SoftDeletePurchaseInTx(ctx context.Context, tx pgx.Tx, purchaseID string, from []domain.PurchaseStatus, operatorID string, at time.Time) (bool, error) {
	query := `
		UPDATE purchases
		SET deleted_at = $2, status = $3, last_updated_at = $2, last_updated_by = $4
		WHERE purchase_id = $1 AND status = ANY($5) AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, purchaseID, at, string(domain.PurchaseCancelled), operatorID, purchaseStatusStrings(from))
	if err != nil {
		return false, fmt.Errorf("failed to soft delete purchase %s: %w", purchaseID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
