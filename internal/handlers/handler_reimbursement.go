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

// reimbursementHandler handles HTTP requests related to reimbursements.
type reimbursementHandler struct {
	reimbursementService portssvc.ReimbursementSvcFacade
}

// newReimbursementHandler creates a new reimbursementHandler.
func newReimbursementHandler(rs portssvc.ReimbursementSvcFacade) *reimbursementHandler {
	return &reimbursementHandler{
		reimbursementService: rs,
	}
}

// registerReimbursementRoutes registers routes related to reimbursements.
func registerReimbursementRoutes(rg *gin.RouterGroup, reimbursementService portssvc.ReimbursementSvcFacade) {
	h := newReimbursementHandler(reimbursementService)

	reimbursements := rg.Group("/reimbursements")
	{
		reimbursements.POST("", h.createReimbursement)
		reimbursements.GET("", h.listReimbursements)
		reimbursements.GET("/:id", h.getReimbursement)
		reimbursements.PUT("/:id", h.updateReimbursement)
		reimbursements.DELETE("/:id", h.deleteReimbursement)
		reimbursements.POST("/:id/submit", h.submitReimbursement)
		reimbursements.POST("/:id/approve", h.approveReimbursement)
		reimbursements.POST("/:id/reject", h.rejectReimbursement)
		reimbursements.POST("/:id/withdraw", h.withdrawReimbursement)
		reimbursements.POST("/:id/pay", h.payReimbursement)
		reimbursements.GET("/:id/logs", h.getReimbursementLogs)
	}
}

// respondReimbursementError translates service errors into HTTP responses.
// The eligibility gates (single link, inbound, evidence, approver pool)
// map to 422 because the request is well-formed but not yet satisfiable.
func respondReimbursementError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, coresvc.ErrRejectReasonRequired),
		errors.Is(err, coresvc.ErrSourcePurchaseRequired),
		errors.Is(err, coresvc.ErrDetailFieldMissing),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, coresvc.ErrReimbursementNotEditable),
		errors.Is(err, coresvc.ErrReimbursementNotSubmittable),
		errors.Is(err, coresvc.ErrReimbursementNotApprovable),
		errors.Is(err, coresvc.ErrReimbursementNotWithdrawable),
		errors.Is(err, coresvc.ErrReimbursementNotPayable),
		errors.Is(err, coresvc.ErrReimbursementNotDeletable),
		errors.Is(err, coresvc.ErrSourceRetargetLocked),
		errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, coresvc.ErrPurchaseNotReimbursable),
		errors.Is(err, coresvc.ErrPurchaseAlreadyLinked),
		errors.Is(err, coresvc.ErrInboundNotReady),
		errors.Is(err, coresvc.ErrInvoiceEvidenceMissing),
		errors.Is(err, coresvc.ErrDirectEvidenceMissing),
		errors.Is(err, coresvc.ErrApproverNotFound):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Reimbursement operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred"})
	}
}

// createReimbursement godoc
// @Summary Create a reimbursement draft
// @Description Creates a new reimbursement claim in DRAFT, either direct or backed by a paid-out-of-pocket purchase
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   reimbursement body dto.CreateReimbursementRequest true "Reimbursement details"
// @Success 201 {object} dto.ReimbursementResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 422 {object} ErrorResponse "Source purchase not eligible"
// @Security BearerAuth
// @Router /reimbursements [post]
func (h *reimbursementHandler) createReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReimbursement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reimbursement, err := h.reimbursementService.CreateReimbursement(c.Request.Context(), req, creatorID)
	if err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	logger.Info("Reimbursement created",
		slog.String("reimbursement_id", reimbursement.ReimbursementID),
		slog.String("reimbursement_number", reimbursement.ReimbursementNumber))
	c.JSON(http.StatusCreated, dto.ToReimbursementResponse(reimbursement))
}

// listReimbursements godoc
// @Summary List reimbursements
// @Description Retrieves a keyset-paginated page of reimbursements, newest first
// @Tags reimbursements
// @Produce  json
// @Param   applicantID query string false "Filter by applicant"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListReimbursementsResponse
// @Security BearerAuth
// @Router /reimbursements [get]
func (h *reimbursementHandler) listReimbursements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListReimbursementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListReimbursements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.reimbursementService.ListReimbursements(c.Request.Context(), params)
	if err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getReimbursement godoc
// @Summary Get a reimbursement by ID
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 404 {object} ErrorResponse "Reimbursement not found"
// @Security BearerAuth
// @Router /reimbursements/{id} [get]
func (h *reimbursementHandler) getReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reimbursementID := c.Param("id")

	reimbursement, err := h.reimbursementService.GetReimbursementByID(c.Request.Context(), reimbursementID)
	if err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// updateReimbursement godoc
// @Summary Update a reimbursement draft
// @Description Updates fields on a DRAFT or REJECTED reimbursement. The source purchase cannot be changed once the claim has been submitted.
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Param   reimbursement body dto.UpdateReimbursementRequest true "Fields to update"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} ErrorResponse "Reimbursement is not editable or source is locked"
// @Security BearerAuth
// @Router /reimbursements/{id} [put]
func (h *reimbursementHandler) updateReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reimbursementID := c.Param("id")

	var req dto.UpdateReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateReimbursement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reimbursement, err := h.reimbursementService.UpdateReimbursement(c.Request.Context(), reimbursementID, req, operatorID)
	if err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// deleteReimbursement godoc
// @Summary Delete a reimbursement draft
// @Description Soft-deletes a DRAFT or REJECTED reimbursement, releasing its source purchase
// @Tags reimbursements
// @Param   id path string true "Reimbursement ID"
// @Success 204 "No Content"
// @Failure 409 {object} ErrorResponse "Reimbursement is not deletable"
// @Security BearerAuth
// @Router /reimbursements/{id} [delete]
func (h *reimbursementHandler) deleteReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reimbursementID := c.Param("id")

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reimbursementService.DeleteReimbursement(c.Request.Context(), reimbursementID, operatorID); err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	logger.Info("Reimbursement deleted", slog.String("reimbursement_id", reimbursementID))
	c.Status(http.StatusNoContent)
}

// submitReimbursement godoc
// @Summary Submit a reimbursement for approval
// @Description Runs the eligibility gates, assigns the least-loaded approver for the claim's scope and moves the claim to PENDING_APPROVAL
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} ErrorResponse "Reimbursement is not submittable"
// @Failure 422 {object} ErrorResponse "An eligibility gate failed"
// @Security BearerAuth
// @Router /reimbursements/{id}/submit [post]
func (h *reimbursementHandler) submitReimbursement(c *gin.Context) {
	h.transition(c, "submit", h.reimbursementService.SubmitReimbursement)
}

// approveReimbursement godoc
// @Summary Approve a pending reimbursement
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} ErrorResponse "Reimbursement is not awaiting approval"
// @Security BearerAuth
// @Router /reimbursements/{id}/approve [post]
func (h *reimbursementHandler) approveReimbursement(c *gin.Context) {
	h.transition(c, "approve", h.reimbursementService.ApproveReimbursement)
}

// withdrawReimbursement godoc
// @Summary Withdraw a pending reimbursement back to draft
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} ErrorResponse "Reimbursement is not withdrawable"
// @Security BearerAuth
// @Router /reimbursements/{id}/withdraw [post]
func (h *reimbursementHandler) withdrawReimbursement(c *gin.Context) {
	h.transition(c, "withdraw", h.reimbursementService.WithdrawReimbursement)
}

// payReimbursement godoc
// @Summary Pay a reimbursement
// @Description Settles the claim and writes the finance expense record in the same transaction. Paying a PENDING_APPROVAL claim performs an implicit approval first.
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} ErrorResponse "Reimbursement is not payable"
// @Security BearerAuth
// @Router /reimbursements/{id}/pay [post]
func (h *reimbursementHandler) payReimbursement(c *gin.Context) {
	h.transition(c, "pay", h.reimbursementService.PayReimbursement)
}

// rejectReimbursement godoc
// @Summary Reject a pending reimbursement
// @Description Moves a PENDING_APPROVAL reimbursement to REJECTED with a mandatory reason
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Param   rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 400 {object} ErrorResponse "Reason missing"
// @Failure 409 {object} ErrorResponse "Reimbursement is not awaiting approval"
// @Security BearerAuth
// @Router /reimbursements/{id}/reject [post]
func (h *reimbursementHandler) rejectReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reimbursementID := c.Param("id")

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectReimbursement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reimbursement, err := h.reimbursementService.RejectReimbursement(c.Request.Context(), reimbursementID, operatorID, req.Reason)
	if err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// getReimbursementLogs godoc
// @Summary Get the workflow log of a reimbursement
// @Description Returns the full audit trail of a reimbursement, oldest entry first
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {array} dto.WorkflowLogResponse
// @Failure 404 {object} ErrorResponse "Reimbursement not found"
// @Security BearerAuth
// @Router /reimbursements/{id}/logs [get]
func (h *reimbursementHandler) getReimbursementLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reimbursementID := c.Param("id")

	logs, err := h.reimbursementService.GetReimbursementLogs(c.Request.Context(), reimbursementID)
	if err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkflowLogResponses(logs))
}

// transition runs a body-less reimbursement transition endpoint.
func (h *reimbursementHandler) transition(c *gin.Context, action string, fn func(ctx context.Context, reimbursementID, operatorID string) (*domain.Reimbursement, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reimbursementID := c.Param("id")

	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Operator employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reimbursement, err := fn(c.Request.Context(), reimbursementID, operatorID)
	if err != nil {
		respondReimbursementError(c, logger, err)
		return
	}

	logger.Info("Reimbursement transition applied",
		slog.String("reimbursement_id", reimbursementID),
		slog.String("action", action),
		slog.String("status", string(reimbursement.Status)))
	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}
