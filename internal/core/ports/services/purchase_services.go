package services

import (
	"context"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
)

// PurchaseSvcFacade is the purchase state machine. All transitions are
// all-or-nothing: the status update, the workflow-log entry and any dependent
// write commit together or not at all.
type PurchaseSvcFacade interface {
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, creatorID string) (*domain.Purchase, error)
	UpdatePurchase(ctx context.Context, purchaseID string, req dto.UpdatePurchaseRequest, operatorID string) (*domain.Purchase, error)
	SubmitPurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error)
	ApprovePurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error)
	RejectPurchase(ctx context.Context, purchaseID, operatorID, reason string) (*domain.Purchase, error)
	WithdrawPurchase(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error)
	MarkPurchasePaid(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error)
	DeletePurchase(ctx context.Context, purchaseID, operatorID string) error

	GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error)
	GetPurchaseLogs(ctx context.Context, purchaseID string) ([]domain.WorkflowLog, error)
}
