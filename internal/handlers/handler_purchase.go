package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	coresvc "github.com/stefan-ysh/procure_approval_app/internal/core/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
)

// purchaseHandler handles HTTP requests related to purchases.
type purchaseHandler struct {
	purchaseService portssvc.PurchaseSvcFacade
}

// newPurchaseHandler creates a new purchaseHandler.
func newPurchaseHandler(ps portssvc.PurchaseSvcFacade) *purchaseHandler {
	return &purchaseHandler{
		purchaseService: ps,
	}
}

// registerPurchaseRoutes registers routes related to purchases.
func registerPurchaseRoutes(rg *gin.RouterGroup, purchaseService portssvc.PurchaseSvcFacade) {
	h := newPurchaseHandler(purchaseService)

	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.createPurchase)
		purchases.GET("", h.listPurchases)
		purchases.GET("/:id", h.getPurchase)
		purchases.PUT("/:id", h.updatePurchase)
		purchases.DELETE("/:id", h.deletePurchase)
		purchases.POST("/:id/submit", h.submitPurchase)
		purchases.POST("/:id/approve", h.approvePurchase)
		purchases.POST("/:id/reject", h.rejectPurchase)
		purchases.POST("/:id/withdraw", h.withdrawPurchase)
		purchases.POST("/:id/pay", h.markPurchasePaid)
		purchases.GET("/:id/logs", h.getPurchaseLogs)
	}
}

// respondPurchaseError translates service errors into HTTP responses.
// Validation failures are 400, missing records 404, state-machine guard
// misses 409 and unmet submit gates 422.
func respondPurchaseError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, coresvc.ErrRejectReasonRequired),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, coresvc.ErrPurchaseNotEditable),
		errors.Is(err, coresvc.ErrPurchaseNotSubmittable),
		errors.Is(err, coresvc.ErrPurchaseNotApprovable),
		errors.Is(err, coresvc.ErrPurchaseNotWithdrawable),
		errors.Is(err, coresvc.ErrPurchaseNotPayable),
		errors.Is(err, coresvc.ErrPurchaseNotDeletable),
		errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, coresvc.ErrInvoiceEvidenceMissing):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Purchase operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred"})
	}
}

// createPurchase godoc
// @Summary Create a purchase draft
// @Description Creates a new purchase requisition in DRAFT for the logged-in employee
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchase body dto.CreatePurchaseRequest true "Purchase details"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /purchases [post]
func (h *purchaseHandler) createPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), req, creatorID)
	if err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	logger.Info("Purchase created", slog.String("purchase_id", purchase.PurchaseID), slog.String("purchase_number", purchase.PurchaseNumber))
	c.JSON(http.StatusCreated, dto.ToPurchaseResponse(purchase))
}

// listPurchases godoc
// @Summary List purchases
// @Description Retrieves a keyset-paginated page of purchases, newest first
// @Tags purchases
// @Produce  json
// @Param   applicantID query string false "Filter by applicant"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListPurchasesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /purchases [get]
func (h *purchaseHandler) listPurchases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPurchasesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListPurchases", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.purchaseService.ListPurchases(c.Request.Context(), params)
	if err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getPurchase godoc
// @Summary Get a purchase by ID
// @Tags purchases
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 404 {object} ErrorResponse "Purchase not found"
// @Security BearerAuth
// @Router /purchases/{id} [get]
func (h *purchaseHandler) getPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("id")

	purchase, err := h.purchaseService.GetPurchaseByID(c.Request.Context(), purchaseID)
	if err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}

// updatePurchase godoc
// @Summary Update a purchase draft
// @Description Updates fields on a DRAFT or REJECTED purchase
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Param   purchase body dto.UpdatePurchaseRequest true "Fields to update"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 404 {object} ErrorResponse "Purchase not found"
// @Failure 409 {object} ErrorResponse "Purchase is not editable"
// @Security BearerAuth
// @Router /purchases/{id} [put]
func (h *purchaseHandler) updatePurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("id")

	var req dto.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	purchase, err := h.purchaseService.UpdatePurchase(c.Request.Context(), purchaseID, req, operatorID)
	if err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}

// deletePurchase godoc
// @Summary Delete a purchase draft
// @Description Soft-deletes a DRAFT or REJECTED purchase
// @Tags purchases
// @Param   id path string true "Purchase ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Purchase not found"
// @Failure 409 {object} ErrorResponse "Purchase is not deletable"
// @Security BearerAuth
// @Router /purchases/{id} [delete]
func (h *purchaseHandler) deletePurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("id")

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), purchaseID, operatorID); err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	logger.Info("Purchase deleted", slog.String("purchase_id", purchaseID))
	c.Status(http.StatusNoContent)
}

// submitPurchase godoc
// @Summary Submit a purchase for approval
// @Description Moves a DRAFT or REJECTED purchase to PENDING_APPROVAL
// @Tags purchases
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 409 {object} ErrorResponse "Purchase is not submittable"
// @Failure 422 {object} ErrorResponse "Invoice evidence missing"
// @Security BearerAuth
// @Router /purchases/{id}/submit [post]
func (h *purchaseHandler) submitPurchase(c *gin.Context) {
	h.transition(c, "submit", h.purchaseService.SubmitPurchase)
}

// approvePurchase godoc
// @Summary Approve a pending purchase
// @Tags purchases
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 409 {object} ErrorResponse "Purchase is not awaiting approval"
// @Security BearerAuth
// @Router /purchases/{id}/approve [post]
func (h *purchaseHandler) approvePurchase(c *gin.Context) {
	h.transition(c, "approve", h.purchaseService.ApprovePurchase)
}

// withdrawPurchase godoc
// @Summary Withdraw a pending purchase
// @Description Moves a PENDING_APPROVAL purchase to CANCELLED
// @Tags purchases
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 409 {object} ErrorResponse "Purchase is not withdrawable"
// @Security BearerAuth
// @Router /purchases/{id}/withdraw [post]
func (h *purchaseHandler) withdrawPurchase(c *gin.Context) {
	h.transition(c, "withdraw", h.purchaseService.WithdrawPurchase)
}

// markPurchasePaid godoc
// @Summary Mark an approved purchase as paid
// @Description Flips the purchase to PAID and writes the finance expense record in the same transaction
// @Tags purchases
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 409 {object} ErrorResponse "Purchase is not payable"
// @Security BearerAuth
// @Router /purchases/{id}/pay [post]
func (h *purchaseHandler) markPurchasePaid(c *gin.Context) {
	h.transition(c, "pay", h.purchaseService.MarkPurchasePaid)
}

// rejectPurchase godoc
// @Summary Reject a pending purchase
// @Description Moves a PENDING_APPROVAL purchase to REJECTED with a mandatory reason
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Param   rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} ErrorResponse "Reason missing"
// @Failure 409 {object} ErrorResponse "Purchase is not awaiting approval"
// @Security BearerAuth
// @Router /purchases/{id}/reject [post]
func (h *purchaseHandler) rejectPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("id")

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectPurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	purchase, err := h.purchaseService.RejectPurchase(c.Request.Context(), purchaseID, operatorID, req.Reason)
	if err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}

// getPurchaseLogs godoc
// @Summary Get the workflow log of a purchase
// @Description Returns the full audit trail of a purchase, oldest entry first
// @Tags purchases
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Success 200 {array} dto.WorkflowLogResponse
// @Failure 404 {object} ErrorResponse "Purchase not found"
// @Security BearerAuth
// @Router /purchases/{id}/logs [get]
func (h *purchaseHandler) getPurchaseLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("id")

	logs, err := h.purchaseService.GetPurchaseLogs(c.Request.Context(), purchaseID)
	if err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkflowLogResponses(logs))
}

// transition runs a body-less purchase transition endpoint.
func (h *purchaseHandler) transition(c *gin.Context, action string, fn func(ctx context.Context, purchaseID, operatorID string) (*domain.Purchase, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("id")

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Operator employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	purchase, err := fn(c.Request.Context(), purchaseID, operatorID)
	if err != nil {
		respondPurchaseError(c, logger, err)
		return
	}

	logger.Info("Purchase transition applied",
		slog.String("purchase_id", purchaseID),
		slog.String("action", action),
		slog.String("status", string(purchase.Status)))
	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}
