package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

type WatchlistHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *WatchlistHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/watchlist")
	group.GET("", h.listWatchItems)
	group.POST("", h.createWatchItem)
	group.DELETE("/:id", h.deleteWatchItem)
}

// @Summary List watched styles
// @Tags watchlist
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param style_id query string false "style id"
// @Param provider query string false "provider"
// @Success 200 {object} apiResponse
// @Router /api/v1/watchlist [get]
func (h *WatchlistHandler) listWatchItems(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	params := repository.ListWatchItemsParams{
		Limit:    limit,
		Offset:   offset,
		StyleID:  strQueryPtr(c, "style_id"),
		Provider: strQueryPtr(c, "provider"),
	}
	items, err := h.Repo.ListWatchItems(c.Request.Context(), params)
	if err != nil {
		h.warn("list watchlist failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountWatchItems(c.Request.Context(), params)
	if err != nil {
		h.warn("count watchlist failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

type watchItemRequest struct {
	StyleID  string  `json:"style_id" binding:"required"`
	SizeKey  *string `json:"size"`
	Provider *string `json:"provider"`
	Note     *string `json:"note"`
}

// @Summary Watch a style
// @Tags watchlist
// @Param request body watchItemRequest true "watch item"
// @Success 200 {object} apiResponse
// @Router /api/v1/watchlist [post]
func (h *WatchlistHandler) createWatchItem(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req watchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.Provider != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Provider))
		switch name {
		case "", models.ProviderStockX, models.ProviderAlias:
			if name == "" {
				req.Provider = nil
			} else {
				req.Provider = &name
			}
		default:
			Error(c, http.StatusBadRequest, "unknown provider: "+name, nil)
			return
		}
	}
	item := &models.WatchItem{
		StyleID:  strings.ToUpper(strings.TrimSpace(req.StyleID)),
		SizeKey:  req.SizeKey,
		Provider: req.Provider,
		Note:     req.Note,
	}
	if err := h.Repo.InsertWatchItem(c.Request.Context(), item); err != nil {
		h.warn("create watch item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Unwatch a style
// @Tags watchlist
// @Param id path int true "watch item id"
// @Success 200 {object} apiResponse
// @Router /api/v1/watchlist/{id} [delete]
func (h *WatchlistHandler) deleteWatchItem(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteWatchItem(c.Request.Context(), id); err != nil {
		h.warn("delete watch item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *WatchlistHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
