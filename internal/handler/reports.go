package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/repository"
	"soletrack/internal/service"
)

type ReportsHandler struct {
	Export *service.ExportService
	Logger *zap.Logger
}

func (h *ReportsHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/reports")
	group.GET("/sales.csv", h.salesCSV)
	group.GET("/expenses.csv", h.expensesCSV)
	group.GET("/tax.csv", h.taxCSV)
}

func csvHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// @Summary Export sales as CSV
// @Tags reports
// @Param style_id query string false "style id"
// @Param platform query string false "platform"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Produce text/csv
// @Success 200 {string} string "csv"
// @Router /api/v1/reports/sales.csv [get]
func (h *ReportsHandler) salesCSV(c *gin.Context) {
	if h.Export == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	params := repository.ListSalesParams{
		StyleID:  strQueryPtr(c, "style_id"),
		Platform: strQueryPtr(c, "platform"),
		Since:    timeQueryPtr(c, "since"),
		Until:    timeQueryPtr(c, "until"),
		Limit:    intQuery(c, "limit", 1000),
	}
	csvHeaders(c, "sales.csv")
	if err := h.Export.WriteSalesCSV(c.Request.Context(), c.Writer, params); err != nil {
		h.warn("sales csv failed", err)
		c.Status(http.StatusBadGateway)
	}
}

// @Summary Export expenses as CSV
// @Tags reports
// @Param category query string false "category"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Produce text/csv
// @Success 200 {string} string "csv"
// @Router /api/v1/reports/expenses.csv [get]
func (h *ReportsHandler) expensesCSV(c *gin.Context) {
	if h.Export == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	params := repository.ListExpensesParams{
		Category: strQueryPtr(c, "category"),
		Since:    timeQueryPtr(c, "since"),
		Until:    timeQueryPtr(c, "until"),
		Limit:    intQuery(c, "limit", 1000),
	}
	csvHeaders(c, "expenses.csv")
	if err := h.Export.WriteExpensesCSV(c.Request.Context(), c.Writer, params); err != nil {
		h.warn("expenses csv failed", err)
		c.Status(http.StatusBadGateway)
	}
}

// @Summary Export a UK tax year report as CSV
// @Tags reports
// @Param tax_year query int false "tax year start, defaults to the current tax year"
// @Produce text/csv
// @Success 200 {string} string "csv"
// @Router /api/v1/reports/tax.csv [get]
func (h *ReportsHandler) taxCSV(c *gin.Context) {
	if h.Export == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	taxYear := intQuery(c, "tax_year", 0)
	if taxYear <= 0 {
		taxYear = service.TaxYearFor(time.Now())
	}
	csvHeaders(c, fmt.Sprintf("tax-%d.csv", taxYear))
	if err := h.Export.WriteTaxReportCSV(c.Request.Context(), c.Writer, taxYear); err != nil {
		h.warn("tax csv failed", err)
		c.Status(http.StatusBadGateway)
	}
}

func (h *ReportsHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
