package http

import (
	"ai-crypto-assistant/internal/assistant/service"
	"ai-crypto-assistant/pkg/logger"
	"ai-crypto-assistant/pkg/metrics"

	"github.com/labstack/echo/v4"
	swagger "github.com/swaggo/echo-swagger"
)

// NewServer builds the Echo instance with every assistant route registered.
func NewServer(assistantService service.AssistantService, log *logger.Logger, rec *metrics.Recorder) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recover(log))
	e.Use(RequestContext(log))

	apiV1 := e.Group("/api/v1")
	NewAssistantHandler(assistantService, log).RegisterRoutes(apiV1)
	NewHealthHandler(rec).RegisterRoutes(e)

	e.GET("/swagger/*", swagger.WrapHandler)
	return e
}
