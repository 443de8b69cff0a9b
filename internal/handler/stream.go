package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soletrack/internal/service"
	"soletrack/internal/stream"
)

type StreamHandler struct {
	Hub      *stream.Hub
	Settings *service.SystemSettingsService
	Logger   *zap.Logger
}

func (h *StreamHandler) Register(r *gin.RouterGroup) {
	r.GET("/stream", h.serve)
}

// @Summary Websocket price stream
// @Tags stream
// @Success 101 {string} string "switching protocols"
// @Router /api/v1/stream [get]
func (h *StreamHandler) serve(c *gin.Context) {
	if h.Hub == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	if h.Settings != nil && !h.Settings.IsEnabled(c.Request.Context(), service.FeatureStream, true) {
		Error(c, http.StatusServiceUnavailable, "stream disabled", nil)
		return
	}
	if err := h.Hub.Serve(c.Writer, c.Request); err != nil && h.Logger != nil {
		h.Logger.Debug("stream session ended", zap.Error(err))
	}
}
