package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
	"github.com/stefan-ysh/procure_approval_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes on the given Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerCustomValidations()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerAuthRoutes(r, cfg, services)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the authenticated /api/v1 route group.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	apiV1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerPurchaseRoutes(apiV1, services.Purchase)
	registerReimbursementRoutes(apiV1, services.Reimbursement)
	registerInventoryRoutes(apiV1, services.Inventory)
	registerFinanceRoutes(apiV1, services.Finance)

	slog.Info("API v1 routes registered")
}

// registerCustomValidations adds the dgt0 tag for strictly positive
// decimal amounts. Registering twice is a no-op error we can ignore.
func registerCustomValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})
}
