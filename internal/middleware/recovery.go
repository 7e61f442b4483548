package middleware

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

const stackBufferSize = 4 << 10

// RecoveryConfig holds configuration for the panic recovery middleware.
type RecoveryConfig struct {
	Logger *slog.Logger
}

// Recovery returns a middleware that converts panics into 500 responses
// and logs the stack trace.
func Recovery(config RecoveryConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}

					stack := make([]byte, stackBufferSize)
					stack = stack[:runtime.Stack(stack, false)]

					config.Logger.Error("panic recovered",
						slog.Any("panic", r),
						slog.String("request_id", GetRequestID(c)),
						slog.String("method", c.Request().Method),
						slog.String("path", c.Request().URL.Path),
						slog.String("stack", string(stack)),
					)

					err = c.JSON(http.StatusInternalServerError, map[string]any{
						"success": false,
						"error": map[string]string{
							"code":    "INTERNAL_ERROR",
							"message": "internal server error",
						},
					})
				}
			}()

			return next(c)
		}
	}
}
