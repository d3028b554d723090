package services

import (
	"context"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

// InventorySvcFacade covers goods receipts and stock applications. Approval
// of an application deducts stock under a row lock, atomically with the
// status flip.
type InventorySvcFacade interface {
	// CreateStockItem registers a new stock item with a zero quantity.
	CreateStockItem(ctx context.Context, req dto.CreateStockItemRequest, creatorID string) (*domain.StockItem, error)

	// RecordInbound registers a goods receipt against a purchase and bumps
	// the stock snapshot. This is what makes a purchase-sourced
	// reimbursement submittable.
	RecordInbound(ctx context.Context, req dto.RecordInboundRequest, operatorID string) (*domain.StockMovement, error)

	CreateApplication(ctx context.Context, req dto.CreateApplicationRequest, applicantID string) (*domain.InventoryApplication, error)
	ApproveApplication(ctx context.Context, applicationID, operatorID string) (*domain.InventoryApplication, error)
	RejectApplication(ctx context.Context, applicationID, operatorID, reason string) (*domain.InventoryApplication, error)

	GetStockItem(ctx context.Context, itemID string) (*domain.StockItem, error)
	GetApplication(ctx context.Context, applicationID string) (*domain.InventoryApplication, error)
}
