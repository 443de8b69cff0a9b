package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/cache"
	"soletrack/internal/db"
	"soletrack/internal/models"
	"soletrack/internal/repository"
	"soletrack/internal/service"
)

type MarketDataHandler struct {
	Repo     repository.Repository
	Ingest   *service.MarketIngestService
	Cache    cache.Cache
	CacheTTL time.Duration
	DB       *db.DB
	Logger   *zap.Logger
}

func (h *MarketDataHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/market-data")
	group.GET("", h.listMarketData)
	group.GET("/latest", h.latestPrices)
	group.POST("/sync", h.syncMarketData)
	group.GET("/providers", h.listProviders)
	group.POST("/refresh-view", h.refreshView)
}

// @Summary List market data history
// @Tags market-data
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param provider query string false "provider (stockx|alias)"
// @Param style_id query string false "style id"
// @Param size query string false "size key"
// @Param currency query string false "currency code"
// @Param is_flex query bool false "flex tier"
// @Param is_consigned query bool false "consigned tier"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} apiResponse
// @Router /api/v1/market-data [get]
func (h *MarketDataHandler) listMarketData(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)
	params := repository.ListMarketDataParams{
		Limit:       limit,
		Offset:      offset,
		Provider:    strQueryPtr(c, "provider"),
		StyleID:     strQueryPtr(c, "style_id"),
		SizeKey:     strQueryPtr(c, "size"),
		Currency:    strQueryPtr(c, "currency"),
		IsFlex:      boolQueryPtr(c, "is_flex"),
		IsConsigned: boolQueryPtr(c, "is_consigned"),
		Since:       timeQueryPtr(c, "since"),
		OrderBy: parseOrder(c.Query("order_by"), map[string]string{
			"snapshot_at": "snapshot_at",
			"lowest_ask":  "lowest_ask",
		}),
		Asc: boolQueryPtr(c, "ascending"),
	}
	items, err := h.Repo.ListMarketData(c.Request.Context(), params)
	if err != nil {
		h.warn("list market data failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountMarketData(c.Request.Context(), params)
	if err != nil {
		h.warn("count market data failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Latest price per size
// @Tags market-data
// @Param provider query string false "provider (stockx|alias)"
// @Param style_id query string false "style id"
// @Param size query string false "size key"
// @Param is_flex query bool false "flex tier"
// @Param is_consigned query bool false "consigned tier"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/market-data/latest [get]
func (h *MarketDataHandler) latestPrices(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	params := repository.ListLatestPricesParams{
		Provider:    strQueryPtr(c, "provider"),
		StyleID:     strQueryPtr(c, "style_id"),
		SizeKey:     strQueryPtr(c, "size"),
		IsFlex:      boolQueryPtr(c, "is_flex"),
		IsConsigned: boolQueryPtr(c, "is_consigned"),
		Limit:       intQuery(c, "limit", 500),
		Offset:      intQuery(c, "offset", 0),
	}

	key := latestPricesCacheKey(params)
	if h.Cache != nil {
		if cached, err := h.Cache.Get(c.Request.Context(), key); err == nil && cached != nil {
			var items []models.LatestPrice
			if err := json.Unmarshal(cached, &items); err == nil {
				Ok(c, items, map[string]any{"cached": true})
				return
			}
		}
	}

	items, err := h.Repo.ListLatestPrices(c.Request.Context(), params)
	if err != nil {
		h.warn("list latest prices failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			ttl := h.CacheTTL
			if ttl <= 0 {
				ttl = time.Minute
			}
			if err := h.Cache.Set(c.Request.Context(), key, payload, ttl); err != nil {
				h.warn("cache latest prices failed", err)
			}
		}
	}
	Ok(c, items, nil)
}

func latestPricesCacheKey(params repository.ListLatestPricesParams) string {
	part := func(s *string) string {
		if s == nil {
			return "-"
		}
		return strings.ToLower(strings.TrimSpace(*s))
	}
	flag := func(b *bool) string {
		if b == nil {
			return "-"
		}
		if *b {
			return "1"
		}
		return "0"
	}
	return fmt.Sprintf("prices:%s:%s:%s:%s:%s:%d:%d",
		part(params.Provider), part(params.StyleID), part(params.SizeKey),
		flag(params.IsFlex), flag(params.IsConsigned), params.Limit, params.Offset)
}

type syncRequest struct {
	StyleIDs  []string `json:"style_ids"`
	Providers []string `json:"providers"`
	Watchlist bool     `json:"watchlist"`
}

// @Summary Trigger a market data sync
// @Tags market-data
// @Param request body syncRequest true "sync request"
// @Success 200 {object} apiResponse
// @Router /api/v1/market-data/sync [post]
func (h *MarketDataHandler) syncMarketData(c *gin.Context) {
	if h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var (
		result service.IngestResult
		err    error
	)
	if req.Watchlist || len(req.StyleIDs) == 0 {
		result, err = h.Ingest.SyncWatchlist(c.Request.Context())
	} else {
		result, err = h.Ingest.SyncStyles(c.Request.Context(), service.IngestOptions{
			StyleIDs:  req.StyleIDs,
			Providers: req.Providers,
		})
	}
	if err != nil {
		h.warn("market data sync failed", err)
		Error(c, http.StatusBadGateway, err.Error(), map[string]any{"partial": result})
		return
	}
	Ok(c, result, nil)
}

// @Summary Provider health
// @Tags market-data
// @Success 200 {object} apiResponse
// @Router /api/v1/market-data/providers [get]
func (h *MarketDataHandler) listProviders(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Repo.ListProviderHealth(c.Request.Context())
	if err != nil {
		h.warn("list provider health failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	states, err := h.Repo.ListSyncStates(c.Request.Context())
	if err != nil {
		h.warn("list sync states failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"providers": items, "sync_states": states}, nil)
}

// @Summary Refresh the latest_prices view
// @Tags market-data
// @Success 200 {object} apiResponse
// @Router /api/v1/market-data/refresh-view [post]
func (h *MarketDataHandler) refreshView(c *gin.Context) {
	if h.DB == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	started := time.Now()
	if err := db.RefreshLatestPrices(h.DB); err != nil {
		h.warn("refresh latest prices failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Cache != nil {
		if err := h.Cache.DeletePrefix(c.Request.Context(), "prices:"); err != nil {
			h.warn("invalidate price cache failed", err)
		}
	}
	Ok(c, gin.H{"refreshed": true, "took_ms": time.Since(started).Milliseconds()}, nil)
}

func (h *MarketDataHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
