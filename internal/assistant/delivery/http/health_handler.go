package http

import (
	"net/http"

	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness and metrics endpoints.
type HealthHandler struct {
	metrics *metrics.Recorder
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(rec *metrics.Recorder) *HealthHandler {
	return &HealthHandler{metrics: rec}
}

// RegisterRoutes registers /healthz and, when metrics are enabled, /metrics.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
	}
}

// Healthz godoc
// @Summary Liveness probe
// @Tags health
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
