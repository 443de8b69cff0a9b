package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/repository"
	"soletrack/internal/service"
)

type SalesHandler struct {
	Repo    repository.Repository
	Service *service.SalesService
	Logger  *zap.Logger
}

func (h *SalesHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/sales")
	group.GET("", h.listSales)
	group.GET("/:id", h.getSale)
	group.GET("/summary", h.summary)
	group.DELETE("/:id", h.deleteSale)
}

// @Summary List sales
// @Tags sales
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param style_id query string false "style id"
// @Param platform query string false "platform"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/v1/sales [get]
func (h *SalesHandler) listSales(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListSalesParams{
		Limit:    limit,
		Offset:   offset,
		StyleID:  strQueryPtr(c, "style_id"),
		Platform: strQueryPtr(c, "platform"),
		Since:    timeQueryPtr(c, "since"),
		Until:    timeQueryPtr(c, "until"),
		OrderBy: parseOrder(c.Query("order_by"), map[string]string{
			"sold_at":    "sold_at",
			"sold_price": "sold_price",
			"margin":     "margin",
		}),
		Asc: boolQueryPtr(c, "ascending"),
	}
	items, err := h.Repo.ListSales(c.Request.Context(), params)
	if err != nil {
		h.warn("list sales failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountSales(c.Request.Context(), params)
	if err != nil {
		h.warn("count sales failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get a sale
// @Tags sales
// @Param id path int true "sale id"
// @Success 200 {object} apiResponse
// @Router /api/v1/sales/{id} [get]
func (h *SalesHandler) getSale(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetSaleByID(c.Request.Context(), id)
	if err != nil {
		h.warn("get sale failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "sale not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Sales summary, optionally for one UK tax year
// @Tags sales
// @Param tax_year query int false "tax year start, e.g. 2025 for 2025-26"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} apiResponse
// @Router /api/v1/sales/summary [get]
func (h *SalesHandler) summary(c *gin.Context) {
	if h.Repo == nil || h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	if taxYear := intQuery(c, "tax_year", 0); taxYear > 0 {
		summary, expenses, err := h.Service.SummaryForTaxYear(c.Request.Context(), taxYear)
		if err != nil {
			h.warn("tax year summary failed", err)
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
		since, until := service.TaxYearBounds(taxYear)
		Ok(c, gin.H{
			"tax_year":       taxYear,
			"since":          since.Format(time.RFC3339),
			"until":          until.Format(time.RFC3339),
			"sales":          summary,
			"total_expenses": expenses,
			"net_profit":     summary.TotalMargin.Sub(expenses),
		}, nil)
		return
	}

	since := timeQueryPtr(c, "since")
	until := timeQueryPtr(c, "until")
	summary, err := h.Repo.SalesSummary(c.Request.Context(), since, until)
	if err != nil {
		h.warn("sales summary failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, summary, nil)
}

// @Summary Delete a sale
// @Tags sales
// @Param id path int true "sale id"
// @Success 200 {object} apiResponse
// @Router /api/v1/sales/{id} [delete]
func (h *SalesHandler) deleteSale(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteSale(c.Request.Context(), id); err != nil {
		h.warn("delete sale failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *SalesHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
