package http

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/pkg/common"
	"ai-crypto-assistant/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestContext tags every request with an id, taken from X-Request-ID when the
// client sends one, and logs the request once it completes.
func RequestContext(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(common.RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			ctx := logger.WithRequestID(req.Context(), id)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(common.RequestIDHeader, id)

			start := time.Now()
			err := next(c)

			log.InfoContext(ctx, "HTTP request",
				logger.StringField("method", req.Method),
				logger.StringField("path", c.Path()),
				logger.IntField("status", c.Response().Status),
				logger.DurationField("latency", time.Since(start)),
			)
			return err
		}
	}
}

// Recover turns a handler panic into a 500 response.
func Recover(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.ErrorContext(c.Request().Context(), "Recovered panic in HTTP handler",
						logger.StringField("panic", fmt.Sprintf("%v", r)),
						logger.StringField("stack", string(debug.Stack())),
					)
					err = c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
				}
			}()
			return next(c)
		}
	}
}
