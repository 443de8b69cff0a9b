package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/cache"
	"soletrack/internal/db"
	"soletrack/internal/service"
)

// CronHandler exposes the scheduled jobs to an external scheduler (e.g. a
// platform cron hitting the service over HTTP). Guarded by X-Cron-Secret,
// not by the bearer token.
type CronHandler struct {
	Ingest    *service.MarketIngestService
	Valuation *service.ValuationService
	Cache     cache.Cache
	DB        *db.DB
	Secret    string
	Logger    *zap.Logger
}

func (h *CronHandler) Register(r *gin.Engine) {
	group := r.Group("/cron", CronSecret(h.Secret))
	group.POST("/market-sync", h.marketSync)
	group.POST("/refresh-view", h.refreshView)
	group.POST("/valuation", h.valuation)
	group.POST("/health-sweep", h.healthSweep)
}

// @Summary Cron: sync watchlist market data
// @Tags cron
// @Param X-Cron-Secret header string true "cron secret"
// @Success 200 {object} apiResponse
// @Router /cron/market-sync [post]
func (h *CronHandler) marketSync(c *gin.Context) {
	if h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Ingest.SyncWatchlist(c.Request.Context())
	if err != nil {
		h.warn("cron market sync failed", err)
		Error(c, http.StatusBadGateway, err.Error(), map[string]any{"partial": result})
		return
	}
	Ok(c, result, nil)
}

// @Summary Cron: refresh the latest_prices view
// @Tags cron
// @Param X-Cron-Secret header string true "cron secret"
// @Success 200 {object} apiResponse
// @Router /cron/refresh-view [post]
func (h *CronHandler) refreshView(c *gin.Context) {
	if h.DB == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	if err := db.RefreshLatestPrices(h.DB); err != nil {
		h.warn("cron refresh view failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Cache != nil {
		if err := h.Cache.DeletePrefix(c.Request.Context(), "prices:"); err != nil {
			h.warn("cron invalidate cache failed", err)
		}
	}
	Ok(c, gin.H{"refreshed": true}, nil)
}

// @Summary Cron: take a valuation snapshot
// @Tags cron
// @Param X-Cron-Secret header string true "cron secret"
// @Success 200 {object} apiResponse
// @Router /cron/valuation [post]
func (h *CronHandler) valuation(c *gin.Context) {
	if h.Valuation == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	snapshot, err := h.Valuation.Snapshot(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.warn("cron valuation failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, snapshot, nil)
}

// @Summary Cron: recompute provider staleness
// @Tags cron
// @Param X-Cron-Secret header string true "cron secret"
// @Success 200 {object} apiResponse
// @Router /cron/health-sweep [post]
func (h *CronHandler) healthSweep(c *gin.Context) {
	if h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	if err := h.Ingest.HealthSweep(c.Request.Context()); err != nil {
		h.warn("cron health sweep failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"swept": true}, nil)
}

func (h *CronHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
