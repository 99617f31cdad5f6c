package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portssvc "github.com/scroogebank/corebank/internal/core/ports/services"
	"github.com/scroogebank/corebank/internal/dto"
	"github.com/scroogebank/corebank/internal/middleware"
)

// operatorHandler handles the operator-only aggregate endpoints.
type operatorHandler struct {
	operatorService portssvc.OperatorSvcFacade
}

// newOperatorHandler creates a new operatorHandler.
func newOperatorHandler(os portssvc.OperatorSvcFacade) *operatorHandler {
	return &operatorHandler{operatorService: os}
}

// registerOperatorRoutes registers the operator-only routes. The role gate
// sits on the group so every endpoint added here is covered.
func registerOperatorRoutes(rg *gin.RouterGroup, operatorService portssvc.OperatorSvcFacade) {
	h := newOperatorHandler(operatorService)

	operator := rg.Group("/admin/operator", middleware.RequireRole(string(domain.RoleOperator)))
	{
		operator.GET("/balance", h.bankBalance)
		operator.GET("/loan-funds", h.loanFunds)
		operator.GET("/can-approve-loan", h.canApproveLoan)
	}
}

// bankBalance godoc
// @Summary Total bank cash
// @Description Returns the signed sum of every ledger entry. The figure may be negative.
// @Tags operator
// @Produce json
// @Success 200 {object} dto.BankBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Operator role required"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Security BearerAuth
// @Router /admin/operator/balance [get]
func (h *operatorHandler) bankBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balance, err := h.operatorService.BankBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute bank balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBankBalanceResponse(balance))
}

// loanFunds godoc
// @Summary Lending capacity breakdown
// @Description Returns base cash, net deposits, the loanable share of deposits, outstanding loans and the resulting capacity.
// @Tags operator
// @Produce json
// @Success 200 {object} dto.LoanFundsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Operator role required"
// @Failure 500 {object} map[string]string "Failed to compute loan funds"
// @Security BearerAuth
// @Router /admin/operator/loan-funds [get]
func (h *operatorHandler) loanFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	funds, err := h.operatorService.LoanFunds(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute loan funds", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute loan funds"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanFundsResponse(funds))
}

// canApproveLoan godoc
// @Summary Dry-run loan capacity check
// @Description Reports whether a loan of the given amount would currently be approved. Reserves nothing; the answer can be stale by the time an application runs.
// @Tags operator
// @Produce json
// @Param amount query string true "Requested amount in currency units"
// @Success 200 {object} dto.CanApproveLoanResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Operator role required"
// @Failure 500 {object} map[string]string "Failed to check capacity"
// @Security BearerAuth
// @Router /admin/operator/can-approve-loan [get]
func (h *operatorHandler) canApproveLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.CanApproveLoanQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind CanApproveLoan query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.operatorService.CanApproveLoan(c.Request.Context(), query.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to check loan capacity", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check capacity"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
