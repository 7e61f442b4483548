// Package main provides the API server entry point.
package main

import (
	"github.com/labstack/echo/v4"

	"github.com/couriermsg/courier/internal/infrastructure/httpserver"
	"github.com/couriermsg/courier/internal/middleware"
)

// publicPaths are exempt from authentication. Health probes and the auth
// bootstrap endpoints live here; refresh is public because the refresh
// token travels in the request body.
var publicPaths = []string{
	"/health",
	"/ready",
	"/health/details",
	"/metrics",
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
}

// SetupRoutes configures all API routes and middleware chains.
func SetupRoutes(c *Container) *httpserver.Router {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	routerConfig := httpserver.RouterConfig{
		Logger: c.Logger,
		AuthMiddleware: middleware.Auth(middleware.AuthConfig{
			Logger:    c.Logger,
			Verifier:  c.TokenManager,
			SkipPaths: publicPaths,
		}),
		CORSConfig: middleware.CORSConfig{
			AllowOrigins:     c.Config.CORS.AllowOrigins,
			AllowCredentials: c.Config.CORS.AllowCredentials,
		},
		LoggingConfig: middleware.LoggingConfig{
			Logger:    c.Logger,
			SkipPaths: []string{"/health", "/ready", "/metrics"},
		},
		RecoveryConfig: middleware.RecoveryConfig{
			Logger: c.Logger,
		},
		APIPrefix: httpserver.DefaultAPIPrefix,
	}

	if c.HTTPMetrics != nil {
		routerConfig.MetricsMiddleware = c.HTTPMetrics.Middleware()
	}

	if c.Config.RateLimit.Enabled {
		var store middleware.RateLimitStore
		if c.Redis != nil {
			store = middleware.NewRedisRateLimitStore(c.Redis)
		} else {
			// Single-process fallback when Redis is not wired.
			store = middleware.NewMemoryRateLimitStore()
		}

		routerConfig.RateLimitMiddleware = middleware.RateLimit(middleware.RateLimitConfig{
			Logger:    c.Logger,
			Store:     store,
			Limit:     c.Config.RateLimit.Requests,
			Window:    c.Config.RateLimit.Window,
			SkipPaths: []string{"/health", "/ready", "/health/details", "/metrics"},
		})
	}

	router := httpserver.NewRouter(e, routerConfig)

	// Container implements httpserver.HealthChecker, so it backs the
	// readiness and detail probes directly.
	httpserver.NewHealthEndpoints(c).Register(e)

	if c.Registry != nil {
		router.RegisterMetricsEndpoint("/metrics", c.Registry)
	}

	c.AuthHandler.RegisterRoutes(router)
	c.ThreadHandler.RegisterRoutes(router)
	c.MessageHandler.RegisterRoutes(router)

	return router
}
