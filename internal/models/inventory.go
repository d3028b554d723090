package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is the storage shape of the per-item stock snapshot row.
type StockItem struct {
	ItemID   string          `db:"item_id"`
	Name     string          `db:"name"`
	Unit     string          `db:"unit"`
	Quantity decimal.Decimal `db:"quantity"`
	AuditFields
}

// StockMovement is the storage shape of one goods receipt or issue.
type StockMovement struct {
	MovementID    string          `db:"movement_id"`
	ItemID        string          `db:"item_id"`
	Direction     string          `db:"direction"`
	Quantity      decimal.Decimal `db:"quantity"`
	PurchaseID    *string         `db:"purchase_id"`
	ApplicationID *string         `db:"application_id"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}

// InventoryApplication is the storage shape of a stock draw request.
type InventoryApplication struct {
	ApplicationID     string          `db:"application_id"`
	ApplicationNumber string          `db:"application_number"`
	ItemID            string          `db:"item_id"`
	Quantity          decimal.Decimal `db:"quantity"`
	Reason            string          `db:"reason"`
	ApplicantID       string          `db:"applicant_id"`
	Status            string          `db:"status"`
	AuditFields
}
