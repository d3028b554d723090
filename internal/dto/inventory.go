package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// CreateStockItemRequest registers a new stock item.
type CreateStockItemRequest struct {
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit" binding:"required"`
}

// RecordInboundRequest registers a goods receipt against a purchase.
type RecordInboundRequest struct {
	ItemID     string          `json:"itemID" binding:"required"`
	PurchaseID string          `json:"purchaseID" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required,dgt0"`
}

// CreateApplicationRequest opens a request to draw items from stock.
type CreateApplicationRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	Reason   string          `json:"reason" binding:"required"`
}

// StockItemResponse defines the data returned for a stock item snapshot.
type StockItemResponse struct {
	ItemID   string          `json:"itemID"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
}

// StockMovementResponse defines the data returned for a stock movement.
type StockMovementResponse struct {
	MovementID    string                   `json:"movementID"`
	ItemID        string                   `json:"itemID"`
	Direction     domain.MovementDirection `json:"direction"`
	Quantity      decimal.Decimal          `json:"quantity"`
	PurchaseID    *string                  `json:"purchaseID,omitempty"`
	ApplicationID *string                  `json:"applicationID,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ApplicationResponse defines the data returned for an inventory application.
type ApplicationResponse struct {
	ApplicationID     string                   `json:"applicationID"`
	ApplicationNumber string                   `json:"applicationNumber"`
	ItemID            string                   `json:"itemID"`
	Quantity          decimal.Decimal          `json:"quantity"`
	Reason            string                   `json:"reason"`
	ApplicantID       string                   `json:"applicantID"`
	Status            domain.ApplicationStatus `json:"status"`
	CreatedAt         time.Time                `json:"createdAt"`
}

// ToStockItemResponse converts a domain stock item to its DTO.
func ToStockItemResponse(i *domain.StockItem) StockItemResponse {
	return StockItemResponse{
		ItemID:   i.ItemID,
		Name:     i.Name,
		Unit:     i.Unit,
		Quantity: i.Quantity,
	}
}

// ToStockMovementResponse converts a domain movement to its DTO.
func ToStockMovementResponse(m *domain.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		MovementID:    m.MovementID,
		ItemID:        m.ItemID,
		Direction:     m.Direction,
		Quantity:      m.Quantity,
		PurchaseID:    m.PurchaseID,
		ApplicationID: m.ApplicationID,
		CreatedAt:     m.CreatedAt,
	}
}

// ToApplicationResponse converts a domain application to its DTO.
func ToApplicationResponse(a *domain.InventoryApplication) ApplicationResponse {
	return ApplicationResponse{
		ApplicationID:     a.ApplicationID,
		ApplicationNumber: a.ApplicationNumber,
		ItemID:            a.ItemID,
		Quantity:          a.Quantity,
		Reason:            a.Reason,
		ApplicantID:       a.ApplicantID,
		Status:            a.Status,
		CreatedAt:         a.CreatedAt,
	}
}
