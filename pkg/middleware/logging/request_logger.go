package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmazurov/order_service/internal/logging"
)

// RequestLogger attaches a per-request logger to the request context and
// emits one access line per request, leveled by outcome.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With(
				"method", c.Request().Method,
				"route", c.Path(),
				"path", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status

			args := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			if err != nil {
				args = append(args, "error", err.Error())
			}

			switch {
			case err != nil || status >= 500:
				l.Error("request completed", args...)
			case status >= 400:
				l.Warn("request completed", args...)
			default:
				l.Info("request completed", args...)
			}
			return nil
		}
	}
}

// requestID prefers the id the RequestID middleware stamped on the response,
// falling back to one supplied by the caller.
func requestID(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
