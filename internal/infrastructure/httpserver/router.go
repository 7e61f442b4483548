package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couriermsg/courier/internal/middleware"
)

// DefaultAPIPrefix is the prefix for all API routes.
const DefaultAPIPrefix = "/api/v1"

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger *slog.Logger

	// AuthMiddleware protects routes that require a valid access token.
	AuthMiddleware echo.MiddlewareFunc

	// RateLimitMiddleware is applied globally when set.
	RateLimitMiddleware echo.MiddlewareFunc

	// MetricsMiddleware records per-request metrics when set.
	MetricsMiddleware echo.MiddlewareFunc

	CORSConfig     middleware.CORSConfig
	LoggingConfig  middleware.LoggingConfig
	RecoveryConfig middleware.RecoveryConfig

	// APIPrefix overrides DefaultAPIPrefix when set.
	APIPrefix string
}

// Router manages the route groups and the global middleware chain.
type Router struct {
	echo   *echo.Echo
	config RouterConfig
	logger *slog.Logger

	public *echo.Group
	auth   *echo.Group
}

// NewRouter creates a new router with the given configuration.
func NewRouter(e *echo.Echo, config RouterConfig) *Router {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.APIPrefix == "" {
		config.APIPrefix = DefaultAPIPrefix
	}

	r := &Router{
		echo:   e,
		config: config,
		logger: config.Logger,
	}

	r.setupGlobalMiddleware()
	r.setupRouteGroups()

	return r
}

// setupGlobalMiddleware applies global middleware to the Echo instance.
// Recovery goes first so it catches panics from everything below it.
func (r *Router) setupGlobalMiddleware() {
	r.echo.Use(middleware.Recovery(r.config.RecoveryConfig))
	r.echo.Use(middleware.CORS(r.config.CORSConfig))
	r.echo.Use(middleware.Logging(r.config.LoggingConfig))

	if r.config.MetricsMiddleware != nil {
		r.echo.Use(r.config.MetricsMiddleware)
	}
	if r.config.RateLimitMiddleware != nil {
		r.echo.Use(r.config.RateLimitMiddleware)
	}
}

// setupRouteGroups creates the route group hierarchy.
func (r *Router) setupRouteGroups() {
	r.public = r.echo.Group(r.config.APIPrefix)

	if r.config.AuthMiddleware != nil {
		r.auth = r.public.Group("", r.config.AuthMiddleware)
	} else {
		r.auth = r.public
		r.logger.Warn("no auth middleware configured, authenticated routes are public")
	}
}

// Echo returns the underlying Echo instance.
func (r *Router) Echo() *echo.Echo {
	return r.echo
}

// Public returns the route group that requires no authentication.
// Registration, login and token refresh live here.
func (r *Router) Public() *echo.Group {
	return r.public
}

// Auth returns the route group that requires a valid access token.
// Threads, messages and the unread counter live here.
func (r *Router) Auth() *echo.Group {
	return r.auth
}

// RegisterMetricsEndpoint exposes the Prometheus scrape endpoint for the
// given gatherer. A nil gatherer falls back to the default registry.
func (r *Router) RegisterMetricsEndpoint(path string, gatherer prometheus.Gatherer) {
	if path == "" {
		path = "/metrics"
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	r.echo.GET(path, echo.WrapHandler(handler))
}
