package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/stefan-ysh/procure_approval_app/internal/apperrors"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	coresvc "github.com/stefan-ysh/procure_approval_app/internal/core/services"
	"github.com/stefan-ysh/procure_approval_app/internal/dto"
	"github.com/stefan-ysh/procure_approval_app/internal/middleware"
	"github.com/stefan-ysh/procure_approval_app/internal/platform/config"
	"github.com/stefan-ysh/procure_approval_app/internal/utils"
)

// ErrorResponse is the standard error body returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// authHandler handles login and employee registration.
type authHandler struct {
	employeeService portssvc.EmployeeSvcFacade
	cfg             *config.Config
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(es portssvc.EmployeeSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		employeeService: es,
		cfg:             cfg,
	}
}

// registerAuthRoutes registers the public auth endpoints. Both are rate
// limited per client IP to slow down credential stuffing.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.Employee, cfg)

	rate, err := limiter.NewRateFromFormatted("10-M")
	if err != nil {
		slog.Error("Failed to parse auth rate limit, falling back to 10/min", slog.String("error", err.Error()))
		rate = limiter.Rate{Period: time.Minute, Limit: 10}
	}
	store := memory.NewStore()
	authRateLimiter := limitergin.NewMiddleware(limiter.New(store, rate))

	auth := r.Group("/auth", authRateLimiter)
	{
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
	}
}

// login godoc
// @Summary Authenticate an employee
// @Description Verifies credentials and returns a bearer token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 403 {object} ErrorResponse "Account inactive"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	employee, err := h.employeeService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, coresvc.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to authenticate employee", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to authenticate"})
		}
		return
	}

	token, err := utils.GenerateJWT(employee.EmployeeID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Employee logged in", slog.String("employee_id", employee.EmployeeID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:      token,
		EmployeeID: employee.EmployeeID,
		Name:       employee.Name,
		Role:       employee.Role,
	})
}

// register godoc
// @Summary Register a new employee
// @Description Creates a new employee account
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   employee body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	// Self registration: the new record is attributed to itself via SYSTEM.
	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req, "SYSTEM")
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create employee", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register employee"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}
