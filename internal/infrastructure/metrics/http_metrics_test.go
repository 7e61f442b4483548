package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couriermsg/courier/internal/infrastructure/metrics"
)

func TestHTTPMetrics_Middleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(registry)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/threads/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/threads/abc", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/threads/:id", "200"))
	assert.InDelta(t, 3, count, 0.001, "path label uses the route pattern")

	assert.InDelta(t, 0, testutil.ToFloat64(m.RequestsInFlight), 0.001)
}

func TestHTTPMetrics_ErrorStatus(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(registry)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/missing", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/missing", "404"))
	assert.InDelta(t, 1, count, 0.001)
}

func TestNewChatMetrics_Registers(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewChatMetrics(registry)

	m.MessagesCreated.Inc()
	m.LoginsTotal.WithLabelValues("success").Inc()
	m.LoginsTotal.WithLabelValues("failed").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesCreated), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("success")), 0.001)

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
