package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/repository"
	"soletrack/internal/service"
)

type ValuationHandler struct {
	Repo    repository.Repository
	Service *service.ValuationService
	Logger  *zap.Logger
}

func (h *ValuationHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/valuation")
	group.GET("", h.listSnapshots)
	group.POST("/snapshot", h.takeSnapshot)
}

// @Summary List valuation snapshots
// @Tags valuation
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} apiResponse
// @Router /api/v1/valuation [get]
func (h *ValuationHandler) listSnapshots(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Repo.ListValuationSnapshots(c.Request.Context(), repository.ListValuationSnapshotsParams{
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
		Since:  timeQueryPtr(c, "since"),
		Until:  timeQueryPtr(c, "until"),
	})
	if err != nil {
		h.warn("list valuation snapshots failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Take a valuation snapshot now
// @Tags valuation
// @Success 200 {object} apiResponse
// @Router /api/v1/valuation/snapshot [post]
func (h *ValuationHandler) takeSnapshot(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	snapshot, err := h.Service.Snapshot(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.warn("valuation snapshot failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, snapshot, nil)
}

func (h *ValuationHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
