// Package middleware contains the Echo middleware chain: authentication,
// request logging, panic recovery, CORS and rate limiting.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/uuid"
	"github.com/couriermsg/courier/internal/infrastructure/auth"
)

// Context keys for authentication data.
const (
	// ContextKeyUserID is the echo context key for the caller's user ID.
	ContextKeyUserID = "user_id"

	// ContextKeyUsername is the echo context key for the caller's username.
	ContextKeyUsername = "username"
)

// Auth errors.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
)

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger

	// Verifier validates bearer tokens.
	Verifier TokenVerifier

	// SkipPaths are paths that don't require authentication.
	SkipPaths []string
}

// Auth returns a middleware that requires a valid bearer access token.
// On success the caller's user ID lands both in the echo context and in
// the request context, where the application layer reads it.
func Auth(config AuthConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if _, ok := skipPaths[path]; ok {
				return next(c)
			}

			if config.Verifier == nil {
				config.Logger.Error("token verifier not configured")
				return respondAuthError(c, ErrInvalidToken)
			}

			token, err := extractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return respondAuthError(c, err)
			}

			claims, err := config.Verifier.VerifyAccessToken(token)
			if err != nil {
				config.Logger.Warn("token validation failed",
					slog.String("path", path),
					slog.String("remote_ip", c.RealIP()),
				)
				return respondAuthError(c, ErrInvalidToken)
			}

			userID, err := uuid.ParseUUID(claims.Subject)
			if err != nil {
				return respondAuthError(c, ErrInvalidToken)
			}

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyUsername, claims.Username)
			ctx := shared.WithUserID(c.Request().Context(), userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

func respondAuthError(c echo.Context, err error) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success": false,
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": err.Error(),
		},
	})
}

// GetUserID retrieves the authenticated user ID from the echo context.
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(ContextKeyUserID).(uuid.UUID); ok {
		return id
	}
	return ""
}

// GetUsername retrieves the authenticated username from the echo context.
func GetUsername(c echo.Context) string {
	if name, ok := c.Get(ContextKeyUsername).(string); ok {
		return name
	}
	return ""
}
