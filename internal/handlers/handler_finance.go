package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
)

// financeHandler handles HTTP requests for the finance expense ledger.
type financeHandler struct {
	financeService portssvc.FinanceSvcFacade
}

// newFinanceHandler creates a new financeHandler.
func newFinanceHandler(fs portssvc.FinanceSvcFacade) *financeHandler {
	return &financeHandler{
		financeService: fs,
	}
}

// registerFinanceRoutes registers routes related to the finance ledger. The
// ledger is read-only over HTTP; records are only ever written by the pay
// transitions.
func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade) {
	h := newFinanceHandler(financeService)

	finance := rg.Group("/finance")
	{
		finance.GET("/expenses", h.listExpenses)
		finance.GET("/expenses/:sourceType/:sourceID", h.getExpenseBySource)
	}
}

// listExpenses godoc
// @Summary List finance expense records
// @Description Retrieves a keyset-paginated page of expense records, newest first
// @Tags finance
// @Produce  json
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} ErrorResponse "Invalid cursor"
// @Security BearerAuth
// @Router /finance/expenses [get]
func (h *financeHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.financeService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list expense records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list expense records"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getExpenseBySource godoc
// @Summary Get the expense record for a source entity
// @Description Looks up the ledger record written when the given purchase or reimbursement was paid
// @Tags finance
// @Produce  json
// @Param   sourceType path string true "Source type" Enums(PURCHASE, REIMBURSEMENT)
// @Param   sourceID path string true "Source entity ID"
// @Success 200 {object} dto.ExpenseRecordResponse
// @Failure 400 {object} ErrorResponse "Unknown source type"
// @Failure 404 {object} ErrorResponse "No record for the source"
// @Security BearerAuth
// @Router /finance/expenses/{sourceType}/{sourceID} [get]
func (h *financeHandler) getExpenseBySource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sourceType := domain.ExpenseSource(c.Param("sourceType"))
	if sourceType != domain.ExpenseFromPurchase && sourceType != domain.ExpenseFromReimbursement {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "sourceType must be PURCHASE or REIMBURSEMENT"})
		return
	}
	sourceID := c.Param("sourceID")

	record, err := h.financeService.GetExpenseBySource(c.Request.Context(), sourceType, sourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to look up expense record", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to look up expense record"})
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseRecordResponse(record))
}
