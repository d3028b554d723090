package mapping

import (
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
)

// ToModelStockItem converts a domain StockItem to its model shape.
func ToModelStockItem(d domain.StockItem) models.StockItem {
	return models.StockItem{
		ItemID:      d.ItemID,
		Name:        d.Name,
		Unit:        d.Unit,
		Quantity:    d.Quantity,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockItem converts a model StockItem to its domain shape.
func ToDomainStockItem(m models.StockItem) domain.StockItem {
	return domain.StockItem{
		ItemID:      m.ItemID,
		Name:        m.Name,
		Unit:        m.Unit,
		Quantity:    m.Quantity,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockMovement converts a domain StockMovement to its model shape.
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:    d.MovementID,
		ItemID:        d.ItemID,
		Direction:     string(d.Direction),
		Quantity:      d.Quantity,
		PurchaseID:    d.PurchaseID,
		ApplicationID: d.ApplicationID,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainStockMovement converts a model StockMovement to its domain shape.
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:    m.MovementID,
		ItemID:        m.ItemID,
		Direction:     domain.MovementDirection(m.Direction),
		Quantity:      m.Quantity,
		PurchaseID:    m.PurchaseID,
		ApplicationID: m.ApplicationID,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainStockMovementSlice converts a slice of model StockMovements.
func ToDomainStockMovementSlice(ms []models.StockMovement) []domain.StockMovement {
	ds := make([]domain.StockMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockMovement(m)
	}
	return ds
}

// ToModelInventoryApplication converts a domain application to its model shape.
func ToModelInventoryApplication(d domain.InventoryApplication) models.InventoryApplication {
	return models.InventoryApplication{
		ApplicationID:     d.ApplicationID,
		ApplicationNumber: d.ApplicationNumber,
		ItemID:            d.ItemID,
		Quantity:          d.Quantity,
		Reason:            d.Reason,
		ApplicantID:       d.ApplicantID,
		Status:            string(d.Status),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryApplication converts a model application to its domain shape.
func ToDomainInventoryApplication(m models.InventoryApplication) domain.InventoryApplication {
	return domain.InventoryApplication{
		ApplicationID:     m.ApplicationID,
		ApplicationNumber: m.ApplicationNumber,
		ItemID:            m.ItemID,
		Quantity:          m.Quantity,
		Reason:            m.Reason,
		ApplicantID:       m.ApplicantID,
		Status:            domain.ApplicationStatus(m.Status),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
