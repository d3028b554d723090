package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection distinguishes goods received from goods issued.
type MovementDirection string

const (
	MovementInbound  MovementDirection = "INBOUND"
	MovementOutbound MovementDirection = "OUTBOUND"
)

// ApplicationStatus is the lifecycle of an inventory application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// StockItem is the current stock snapshot for one inventory item. The row is
// locked (SELECT ... FOR UPDATE) before any deduction.
type StockItem struct {
	ItemID   string          `json:"itemID"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	AuditFields
}

// StockMovement is one recorded receipt or issue of physical goods.
// Inbound movements against a purchase serve as proof of delivery.
type StockMovement struct {
	MovementID    string            `json:"movementID"`
	ItemID        string            `json:"itemID"`
	Direction     MovementDirection `json:"direction"`
	Quantity      decimal.Decimal   `json:"quantity"`
	PurchaseID    *string           `json:"purchaseID,omitempty"`    // set on inbound goods receipts
	ApplicationID *string           `json:"applicationID,omitempty"` // set on outbound issues
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
}

// InventoryApplication is a request to draw items from stock. Approval
// deducts the stock snapshot atomically with the status flip.
type InventoryApplication struct {
	ApplicationID     string            `json:"applicationID"`
	ApplicationNumber string            `json:"applicationNumber"` // e.g. IA-202608-0001
	ItemID            string            `json:"itemID"`
	Quantity          decimal.Decimal   `json:"quantity"`
	Reason            string            `json:"reason"`
	ApplicantID       string            `json:"applicantID"`
	Status            ApplicationStatus `json:"status"`
	AuditFields
}
