package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health status values reported by the health endpoints.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusReady     = "ready"
	StatusNotReady  = "not_ready"
)

// ComponentStatus represents the health status of a single component.
type ComponentStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the response for health endpoints.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components []ComponentStatus `json:"components,omitempty"`
}

// HealthChecker reports whether the backing infrastructure is reachable.
// The request context is passed through so probes respect cancellation.
type HealthChecker interface {
	IsReady(ctx context.Context) bool
	GetHealthStatus(ctx context.Context) []ComponentStatus
}

// HealthEndpoints manages health check endpoint registration.
type HealthEndpoints struct {
	checker HealthChecker
}

// NewHealthEndpoints creates a new HealthEndpoints instance.
func NewHealthEndpoints(checker HealthChecker) *HealthEndpoints {
	return &HealthEndpoints{checker: checker}
}

// Register registers the liveness, readiness and detail endpoints.
func (h *HealthEndpoints) Register(e *echo.Echo) {
	e.GET("/health", h.handleHealth)
	e.GET("/ready", h.handleReady)
	e.GET("/health/details", h.handleHealthDetails)
}

// handleHealth is the liveness probe. It returns 200 whenever the process
// is running, regardless of backing services.
func (h *HealthEndpoints) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: StatusHealthy})
}

// handleReady is the readiness probe. It returns 503 until every backing
// component responds.
func (h *HealthEndpoints) handleReady(c echo.Context) error {
	if h.checker == nil || h.checker.IsReady(c.Request().Context()) {
		return c.JSON(http.StatusOK, HealthResponse{Status: StatusReady})
	}
	return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: StatusNotReady})
}

func (h *HealthEndpoints) handleHealthDetails(c echo.Context) error {
	if h.checker == nil {
		return c.JSON(http.StatusOK, HealthResponse{Status: StatusHealthy})
	}

	components := h.checker.GetHealthStatus(c.Request().Context())

	status := StatusHealthy
	httpStatus := http.StatusOK
	for _, component := range components {
		if component.Status != StatusHealthy {
			status = StatusUnhealthy
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(httpStatus, HealthResponse{
		Status:     status,
		Components: components,
	})
}
