package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	coresvc "github.com/stefan-ysh/procure_approval_app/internal/core/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
)

// inventoryHandler handles HTTP requests for goods receipts, stock and
// inventory applications.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// newInventoryHandler creates a new inventoryHandler.
func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{
		inventoryService: is,
	}
}

// registerInventoryRoutes registers routes related to inventory.
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	inventory := rg.Group("/inventory")
	{
		inventory.POST("/items", h.createStockItem)
		inventory.POST("/inbound", h.recordInbound)
		inventory.GET("/items/:id", h.getStockItem)
		inventory.POST("/applications", h.createApplication)
		inventory.GET("/applications/:id", h.getApplication)
		inventory.POST("/applications/:id/approve", h.approveApplication)
		inventory.POST("/applications/:id/reject", h.rejectApplication)
	}
}

// respondInventoryError translates service errors into HTTP responses.
func respondInventoryError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, coresvc.ErrRejectReasonRequired),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, coresvc.ErrApplicationNotPending):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, coresvc.ErrInsufficientStock):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Inventory operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred"})
	}
}

// createStockItem godoc
// @Summary Register a stock item
// @Description Creates a new stock item with a zero quantity
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateStockItemRequest true "Item details"
// @Success 201 {object} dto.StockItemResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Security BearerAuth
// @Router /inventory/items [post]
func (h *inventoryHandler) createStockItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStockItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.inventoryService.CreateStockItem(c.Request.Context(), req, creatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		respondInventoryError(c, logger, err)
		return
	}

	logger.Info("Stock item created", slog.String("item_id", item.ItemID))
	c.JSON(http.StatusCreated, dto.ToStockItemResponse(item))
}

// recordInbound godoc
// @Summary Record a goods receipt
// @Description Registers an inbound stock movement against a purchase and bumps the stock snapshot
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   inbound body dto.RecordInboundRequest true "Receipt details"
// @Success 201 {object} dto.StockMovementResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} ErrorResponse "Purchase or stock item not found"
// @Security BearerAuth
// @Router /inventory/inbound [post]
func (h *inventoryHandler) recordInbound(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordInbound", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Operator employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	movement, err := h.inventoryService.RecordInbound(c.Request.Context(), req, operatorID)
	if err != nil {
		respondInventoryError(c, logger, err)
		return
	}

	logger.Info("Inbound movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("purchase_id", req.PurchaseID))
	c.JSON(http.StatusCreated, dto.ToStockMovementResponse(movement))
}

// getStockItem godoc
// @Summary Get a stock item snapshot
// @Tags inventory
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.StockItemResponse
// @Failure 404 {object} ErrorResponse "Stock item not found"
// @Security BearerAuth
// @Router /inventory/items/{id} [get]
func (h *inventoryHandler) getStockItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("id")

	item, err := h.inventoryService.GetStockItem(c.Request.Context(), itemID)
	if err != nil {
		respondInventoryError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStockItemResponse(item))
}

// createApplication godoc
// @Summary Create an inventory application
// @Description Opens a request to draw items from stock; stock is only deducted on approval
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   application body dto.CreateApplicationRequest true "Application details"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Security BearerAuth
// @Router /inventory/applications [post]
func (h *inventoryHandler) createApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateApplication", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	applicantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Applicant employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	application, err := h.inventoryService.CreateApplication(c.Request.Context(), req, applicantID)
	if err != nil {
		respondInventoryError(c, logger, err)
		return
	}

	logger.Info("Inventory application created",
		slog.String("application_id", application.ApplicationID),
		slog.String("application_number", application.ApplicationNumber))
	c.JSON(http.StatusCreated, dto.ToApplicationResponse(application))
}

// getApplication godoc
// @Summary Get an inventory application by ID
// @Tags inventory
// @Produce  json
// @Param   id path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 404 {object} ErrorResponse "Application not found"
// @Security BearerAuth
// @Router /inventory/applications/{id} [get]
func (h *inventoryHandler) getApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	application, err := h.inventoryService.GetApplication(c.Request.Context(), applicationID)
	if err != nil {
		respondInventoryError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(application))
}

// approveApplication godoc
// @Summary Approve an inventory application
// @Description Deducts stock under a row lock and records the outbound movement, atomically with the status flip
// @Tags inventory
// @Produce  json
// @Param   id path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 409 {object} ErrorResponse "Application is not pending"
// @Failure 422 {object} ErrorResponse "Insufficient stock"
// @Security BearerAuth
// @Router /inventory/applications/{id}/approve [post]
func (h *inventoryHandler) approveApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	application, err := h.inventoryService.ApproveApplication(c.Request.Context(), applicationID, operatorID)
	if err != nil {
		respondInventoryError(c, logger, err)
		return
	}

	logger.Info("Inventory application approved", slog.String("application_id", applicationID))
	c.JSON(http.StatusOK, dto.ToApplicationResponse(application))
}

// rejectApplication godoc
// @Summary Reject an inventory application
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   id path string true "Application ID"
// @Param   rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} ErrorResponse "Reason missing"
// @Failure 409 {object} ErrorResponse "Application is not pending"
// @Security BearerAuth
// @Router /inventory/applications/{id}/reject [post]
func (h *inventoryHandler) rejectApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectApplication", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	application, err := h.inventoryService.RejectApplication(c.Request.Context(), applicationID, operatorID, req.Reason)
	if err != nil {
		respondInventoryError(c, logger, err)
		return
	}

	logger.Info("Inventory application rejected", slog.String("application_id", applicationID))
	c.JSON(http.StatusOK, dto.ToApplicationResponse(application))
}
