package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/logger"
)

// Logging writes one structured entry per HTTP request. Server errors are
// logged at error level.
func Logging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			kv := []any{
				"request_id", RequestIDFromContext(c),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"latency", latency,
			}
			if uid, ok := c.Get(ContextKeyUserID).(string); ok && uid != "" {
				kv = append(kv, "user_id", uid)
			}
			if status >= 500 {
				log.Error("http request", kv...)
			} else {
				log.Info("http request", kv...)
			}

			return err
		}
	}
}
