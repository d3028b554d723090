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

const reimbursementColumns = `reimbursement_id, reimbursement_number, source_type, source_purchase_id,
	org_scope, category, title, amount, occurred_date, details, invoice_images, receipt_images,
	status, pending_approver_id,
	submitted_at, approved_at, approved_by, rejected_at, rejected_by, reject_reason, paid_at, paid_by,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxReimbursementRepository struct {
	BaseRepository
}

// newPgxReimbursementRepository creates a new repository for reimbursement data.
func newPgxReimbursementRepository(pool *pgxpool.Pool) portsrepo.ReimbursementRepositoryWithTx {
	return &PgxReimbursementRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReimbursementRepositoryWithTx = (*PgxReimbursementRepository)(nil)

func scanReimbursement(row rowScanner) (*domain.Reimbursement, error) {
	var m models.Reimbursement
	var detailsJSON, invoiceJSON, receiptJSON []byte

	err := row.Scan(
		&m.ReimbursementID,
		&m.ReimbursementNumber,
		&m.SourceType,
		&m.SourcePurchaseID,
		&m.OrgScope,
		&m.Category,
		&m.Title,
		&m.Amount,
		&m.OccurredDate,
		&detailsJSON,
		&invoiceJSON,
		&receiptJSON,
		&m.Status,
		&m.PendingApproverID,
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

	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &m.Details); err != nil {
			return nil, fmt.Errorf("failed to decode details for reimbursement %s: %w", m.ReimbursementID, err)
		}
	}
	if len(invoiceJSON) > 0 {
		if err := json.Unmarshal(invoiceJSON, &m.InvoiceImages); err != nil {
			return nil, fmt.Errorf("failed to decode invoice images for reimbursement %s: %w", m.ReimbursementID, err)
		}
	}
	if len(receiptJSON) > 0 {
		if err := json.Unmarshal(receiptJSON, &m.ReceiptImages); err != nil {
			return nil, fmt.Errorf("failed to decode receipt images for reimbursement %s: %w", m.ReimbursementID, err)
		}
	}

	d := mapping.ToDomainReimbursement(m)
	return &d, nil
}

func reimbursementStatusStrings(from []domain.ReimbursementStatus) []string {
	ss := make([]string, len(from))
	for i, s := range from {
		ss[i] = string(s)
	}
	return ss
}

func marshalDetails(details map[string]string) ([]byte, error) {
	if details == nil {
		details = map[string]string{}
	}
	return json.Marshal(details)
}

// FindReimbursementByID retrieves a reimbursement by its ID, excluding
// soft-deleted rows.
func (r *PgxReimbursementRepository) FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reimbursements
		WHERE reimbursement_id = $1 AND deleted_at IS NULL;
	`, reimbursementColumns)

	reimbursement, err := scanReimbursement(r.Pool.QueryRow(ctx, query, reimbursementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("reimbursement %s not found", reimbursementID))
		}
		return nil, fmt.Errorf("failed to find reimbursement by ID %s: %w", reimbursementID, err)
	}
	return reimbursement, nil
}

// CountActiveBySourcePurchase counts live reimbursements linked to the given
// purchase, excluding excludeID when non-nil.
func (r *PgxReimbursementRepository) CountActiveBySourcePurchase(ctx context.Context, purchaseID string, excludeID *string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reimbursements
		WHERE source_purchase_id = $1 AND deleted_at IS NULL AND ($2::text IS NULL OR reimbursement_id <> $2);
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, purchaseID, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reimbursements for purchase %s: %w", purchaseID, err)
	}
	return count, nil
}

// ListReimbursements retrieves a keyset-paginated page of reimbursements,
// newest first, optionally filtered by applicant.
func (r *PgxReimbursementRepository) ListReimbursements(ctx context.Context, applicantID *string, limit int, nextToken *string) ([]domain.Reimbursement, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	if applicantID != nil {
		args = append(args, *applicantID)
		conditions = append(conditions, fmt.Sprintf("created_by = $%d", len(args)))
	}

	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeCursorToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt)
		createdIdx := len(args)
		args = append(args, lastID)
		conditions = append(conditions, fmt.Sprintf("(created_at, reimbursement_id) < ($%d, $%d)", createdIdx, len(args)))
	}

	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM reimbursements
		WHERE %s
		ORDER BY created_at DESC, reimbursement_id DESC
		LIMIT $%d;
	`, reimbursementColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query reimbursements: %w", err)
	}
	defer rows.Close()

	reimbursements := []domain.Reimbursement{}
	for rows.Next() {
		reimbursement, err := scanReimbursement(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan reimbursement row: %w", err)
		}
		reimbursements = append(reimbursements, *reimbursement)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating reimbursement rows: %w", err)
	}

	var token *string
	if len(reimbursements) > limit {
		reimbursements = reimbursements[:limit]
		last := reimbursements[len(reimbursements)-1]
		t := pagination.EncodeCursorToken(last.CreatedAt, last.ReimbursementID)
		token = &t
	}

	return reimbursements, token, nil
}

// InsertReimbursementInTx inserts a new reimbursement inside the caller's
// transaction. The partial unique index on source_purchase_id surfaces
// single-link races as a duplicate error.
func (r *PgxReimbursementRepository) InsertReimbursementInTx(ctx context.Context, tx pgx.Tx, reimbursement domain.Reimbursement) error {
	m := mapping.ToModelReimbursement(reimbursement)

	detailsJSON, err := marshalDetails(m.Details)
	if err != nil {
		return fmt.Errorf("failed to encode details for reimbursement %s: %w", m.ReimbursementID, err)
	}
	invoiceJSON, err := marshalStringList(m.InvoiceImages)
	if err != nil {
		return fmt.Errorf("failed to encode invoice images for reimbursement %s: %w", m.ReimbursementID, err)
	}
	receiptJSON, err := marshalStringList(m.ReceiptImages)
	if err != nil {
		return fmt.Errorf("failed to encode receipt images for reimbursement %s: %w", m.ReimbursementID, err)
	}

	query := `
		INSERT INTO reimbursements (reimbursement_id, reimbursement_number, source_type, source_purchase_id,
			org_scope, category, title, amount, occurred_date, details, invoice_images, receipt_images,
			status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, query,
		m.ReimbursementID,
		m.ReimbursementNumber,
		m.SourceType,
		m.SourcePurchaseID,
		m.OrgScope,
		m.Category,
		m.Title,
		m.Amount,
		m.OccurredDate,
		detailsJSON,
		invoiceJSON,
		receiptJSON,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: purchase is already linked to an active reimbursement", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert reimbursement %s: %w", m.ReimbursementID, err)
	}
	return nil
}

// UpdateReimbursementFieldsInTx rewrites the editable fields guarded on the
// row still being in one of the given states.
func (r *PgxReimbursementRepository) UpdateReimbursementFieldsInTx(ctx context.Context, tx pgx.Tx, reimbursement domain.Reimbursement, from []domain.ReimbursementStatus) (bool, error) {
	m := mapping.ToModelReimbursement(reimbursement)

	detailsJSON, err := marshalDetails(m.Details)
	if err != nil {
		return false, fmt.Errorf("failed to encode details for reimbursement %s: %w", m.ReimbursementID, err)
	}
	invoiceJSON, err := marshalStringList(m.InvoiceImages)
	if err != nil {
		return false, fmt.Errorf("failed to encode invoice images for reimbursement %s: %w", m.ReimbursementID, err)
	}
	receiptJSON, err := marshalStringList(m.ReceiptImages)
	if err != nil {
		return false, fmt.Errorf("failed to encode receipt images for reimbursement %s: %w", m.ReimbursementID, err)
	}

	query := `
		UPDATE reimbursements
		SET source_type = $2, source_purchase_id = $3, org_scope = $4, category = $5,
			title = $6, amount = $7, occurred_date = $8, details = $9,
			invoice_images = $10, receipt_images = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE reimbursement_id = $1 AND status = ANY($14) AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ReimbursementID,
		m.SourceType,
		m.SourcePurchaseID,
		m.OrgScope,
		m.Category,
		m.Title,
		m.Amount,
		m.OccurredDate,
		detailsJSON,
		invoiceJSON,
		receiptJSON,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		reimbursementStatusStrings(from),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, fmt.Errorf("%w: purchase is already linked to an active reimbursement", apperrors.ErrDuplicate)
		}
		return false, fmt.Errorf("failed to update reimbursement %s: %w", m.ReimbursementID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// TransitionReimbursementStatusInTx applies a status-guarded transition.
func (r *PgxReimbursementRepository) TransitionReimbursementStatusInTx(ctx context.Context, tx pgx.Tx, reimbursementID string, from []domain.ReimbursementStatus, change portsrepo.ReimbursementStatusChange) (bool, error) {
	set := []string{"status = $2", "last_updated_at = $3", "last_updated_by = $4"}
	args := []any{reimbursementID, string(change.To), change.UpdatedAt, change.UpdatedBy}

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if change.PendingApproverID != nil {
		addSet("pending_approver_id", *change.PendingApproverID)
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
	if change.ClearPendingApprover {
		set = append(set, "pending_approver_id = NULL")
	}

	args = append(args, reimbursementStatusStrings(from))
	query := fmt.Sprintf(`
		UPDATE reimbursements
		SET %s
		WHERE reimbursement_id = $1 AND status = ANY($%d) AND deleted_at IS NULL;
	`, strings.Join(set, ", "), len(args))

	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to transition reimbursement %s to %s: %w", reimbursementID, change.To, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// SoftDeleteReimbursementInTx marks the reimbursement deleted, guarded on the
// current status being one of from.
func (r *PgxReimbursementRepository) SoftDeleteReimbursementInTx(ctx context.Context, tx pgx.Tx, reimbursementID string, from []domain.ReimbursementStatus, operatorID string, at time.Time) (bool, error) {
	query := `
		UPDATE reimbursements
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE reimbursement_id = $1 AND status = ANY($4) AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, reimbursementID, at, operatorID, reimbursementStatusStrings(from))
	if err != nil {
		return false, fmt.Errorf("failed to soft delete reimbursement %s: %w", reimbursementID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
