package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couriermsg/courier/internal/middleware"
)

func newLoggingEcho(buf *bytes.Buffer, skipPaths ...string) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(buf, nil))

	e := echo.New()
	e.Use(middleware.Logging(middleware.LoggingConfig{
		Logger:    logger,
		SkipPaths: skipPaths,
	}))
	e.GET("/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func TestLogging_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggingEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	requestID := rec.Header().Get(middleware.HeaderRequestID)
	assert.Len(t, requestID, 36)
	assert.Contains(t, buf.String(), "request_id="+requestID)
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestLogging_PropagatesIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggingEcho(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(middleware.HeaderRequestID, "incoming-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "incoming-id", rec.Header().Get(middleware.HeaderRequestID))
	assert.Contains(t, buf.String(), "request_id=incoming-id")
}

func TestLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		level string
	}{
		{name: "success logs info", path: "/ok", level: "level=INFO"},
		{name: "client error logs warn", path: "/missing", level: "level=WARN"},
		{name: "server error logs error", path: "/boom", level: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := newLoggingEcho(&buf)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Contains(t, buf.String(), tt.level)
		})
	}
}

func TestLogging_SkipPaths(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggingEcho(&buf, "/health")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String())
}
