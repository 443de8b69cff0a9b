package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

type ExpensesHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *ExpensesHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/expenses")
	group.GET("", h.listExpenses)
	group.POST("", h.createExpense)
	group.PUT("/:id", h.updateExpense)
	group.DELETE("/:id", h.deleteExpense)
}

// @Summary List expenses
// @Tags expenses
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param category query string false "category"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} apiResponse
// @Router /api/v1/expenses [get]
func (h *ExpensesHandler) listExpenses(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListExpensesParams{
		Limit:    limit,
		Offset:   offset,
		Category: strQueryPtr(c, "category"),
		Since:    timeQueryPtr(c, "since"),
		Until:    timeQueryPtr(c, "until"),
		Asc:      boolQueryPtr(c, "ascending"),
	}
	items, err := h.Repo.ListExpenses(c.Request.Context(), params)
	if err != nil {
		h.warn("list expenses failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountExpenses(c.Request.Context(), params)
	if err != nil {
		h.warn("count expenses failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

type expenseRequest struct {
	Label      string          `json:"label" binding:"required"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency"`
	IncurredAt time.Time       `json:"incurred_at" binding:"required"`
}

// @Summary Record an expense
// @Tags expenses
// @Param request body expenseRequest true "expense"
// @Success 200 {object} apiResponse
// @Router /api/v1/expenses [post]
func (h *ExpensesHandler) createExpense(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.Amount.IsNegative() {
		Error(c, http.StatusBadRequest, "amount must not be negative", nil)
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "GBP"
	}
	item := &models.Expense{
		Label:      strings.TrimSpace(req.Label),
		Category:   strings.ToLower(strings.TrimSpace(req.Category)),
		Amount:     req.Amount,
		Currency:   currency,
		IncurredAt: req.IncurredAt,
	}
	if err := h.Repo.InsertExpense(c.Request.Context(), item); err != nil {
		h.warn("create expense failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Update an expense
// @Tags expenses
// @Param id path int true "expense id"
// @Param request body expenseRequest true "expense"
// @Success 200 {object} apiResponse
// @Router /api/v1/expenses/{id} [put]
func (h *ExpensesHandler) updateExpense(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	existing, err := h.Repo.GetExpenseByID(c.Request.Context(), id)
	if err != nil {
		h.warn("get expense failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "expense not found", nil)
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.Amount.IsNegative() {
		Error(c, http.StatusBadRequest, "amount must not be negative", nil)
		return
	}
	existing.Label = strings.TrimSpace(req.Label)
	existing.Category = strings.ToLower(strings.TrimSpace(req.Category))
	existing.Amount = req.Amount
	if strings.TrimSpace(req.Currency) != "" {
		existing.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	}
	existing.IncurredAt = req.IncurredAt
	if err := h.Repo.UpdateExpense(c.Request.Context(), existing); err != nil {
		h.warn("update expense failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, existing, nil)
}

// @Summary Delete an expense
// @Tags expenses
// @Param id path int true "expense id"
// @Success 200 {object} apiResponse
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpensesHandler) deleteExpense(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteExpense(c.Request.Context(), id); err != nil {
		h.warn("delete expense failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *ExpensesHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
