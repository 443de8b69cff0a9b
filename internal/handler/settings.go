package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/repository"
	"soletrack/internal/service"
)

type SettingsHandler struct {
	Repo    repository.Repository
	Service *service.SystemSettingsService
	Logger  *zap.Logger
}

func (h *SettingsHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/settings")
	group.GET("", h.listSettings)
	group.PUT("/switches/:key", h.setSwitch)
}

// @Summary List system settings
// @Tags settings
// @Success 200 {object} apiResponse
// @Router /api/v1/settings [get]
func (h *SettingsHandler) listSettings(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Repo.ListSystemSettings(c.Request.Context())
	if err != nil {
		h.warn("list settings failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

type switchRequest struct {
	Enabled bool `json:"enabled"`
}

// @Summary Toggle a feature switch
// @Tags settings
// @Param key path string true "switch key, e.g. feature.market_sync"
// @Param request body switchRequest true "state"
// @Success 200 {object} apiResponse
// @Router /api/v1/settings/switches/{key} [put]
func (h *SettingsHandler) setSwitch(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	key := strings.TrimSpace(c.Param("key"))
	if _, ok := service.DefaultFeatureSwitches()[key]; !ok {
		Error(c, http.StatusBadRequest, "unknown switch: "+key, nil)
		return
	}
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.Service.SetEnabled(c.Request.Context(), key, req.Enabled); err != nil {
		h.warn("set switch failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"key": key, "enabled": req.Enabled}, nil)
}

func (h *SettingsHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
