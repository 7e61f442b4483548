// Package httphandler contains the HTTP handlers for the public API.
package httphandler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	authapp "github.com/couriermsg/courier/internal/application/auth"
	"github.com/couriermsg/courier/internal/domain/uuid"
	"github.com/couriermsg/courier/internal/infrastructure/httpserver"
	"github.com/couriermsg/courier/internal/infrastructure/metrics"
	"github.com/couriermsg/courier/internal/middleware"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents account data in API responses.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse represents an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse represents a successful login or refresh.
type LoginResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// Service interfaces for auth operations.
// Declared on the consumer side per project guidelines.
type (
	// RegisterService creates new accounts and signs them in.
	RegisterService interface {
		Execute(ctx context.Context, cmd authapp.RegisterCommand) (authapp.LoginResult, error)
	}

	// LoginService exchanges credentials for a token pair.
	LoginService interface {
		Execute(ctx context.Context, cmd authapp.LoginCommand) (authapp.LoginResult, error)
	}

	// RefreshService rotates a refresh token into a fresh pair.
	RefreshService interface {
		Execute(ctx context.Context, cmd authapp.RefreshCommand) (authapp.LoginResult, error)
	}

	// LogoutService revokes the caller's refresh token.
	LogoutService interface {
		Execute(ctx context.Context, cmd authapp.LogoutCommand) error
	}

	// CurrentUserService loads the caller's own account.
	CurrentUserService interface {
		Execute(ctx context.Context, query authapp.CurrentUserQuery) (authapp.User, error)
	}
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	register    RegisterService
	login       LoginService
	refresh     RefreshService
	logout      LogoutService
	currentUser CurrentUserService
	metrics     *metrics.ChatMetrics
}

// NewAuthHandler creates a new AuthHandler. Metrics may be nil.
func NewAuthHandler(
	register RegisterService,
	login LoginService,
	refresh RefreshService,
	logout LogoutService,
	currentUser CurrentUserService,
	chatMetrics *metrics.ChatMetrics,
) *AuthHandler {
	return &AuthHandler{
		register:    register,
		login:       login,
		refresh:     refresh,
		logout:      logout,
		currentUser: currentUser,
		metrics:     chatMetrics,
	}
}

// RegisterRoutes registers auth routes with the router.
func (h *AuthHandler) RegisterRoutes(r *httpserver.Router) {
	r.Public().POST("/auth/register", h.Register)
	r.Public().POST("/auth/login", h.Login)
	r.Public().POST("/auth/refresh", h.Refresh)

	r.Auth().POST("/auth/logout", h.Logout)
	r.Auth().GET("/auth/me", h.Me)
}

// Register handles POST /api/v1/auth/register.
// A new account is signed in immediately, so the 201 body carries the
// first token pair alongside the user.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
	}

	result, err := h.register.Execute(c.Request().Context(), authapp.RegisterCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	if h.metrics != nil {
		h.metrics.UsersRegistered.Inc()
	}

	return httpserver.RespondCreated(c, toLoginResponse(result))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
	}

	result, err := h.login.Execute(c.Request().Context(), authapp.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginsTotal.WithLabelValues("failed").Inc()
		}
		return httpserver.RespondError(c, err)
	}

	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}

	return httpserver.RespondOK(c, toLoginResponse(result))
}

// Refresh handles POST /api/v1/auth/refresh.
// The presented refresh token is consumed and a new pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
	}

	result, err := h.refresh.Execute(c.Request().Context(), authapp.RefreshCommand{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	if h.metrics != nil {
		h.metrics.TokensRefreshed.Inc()
	}

	return httpserver.RespondOK(c, toLoginResponse(result))
}

// Logout handles POST /api/v1/auth/logout.
// Revoking an already-revoked token is a success.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(
			c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	if err := h.logout.Execute(c.Request().Context(), authapp.LogoutCommand{UserID: userID}); err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondNoContent(c)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(
			c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	usr, err := h.currentUser.Execute(c.Request().Context(), authapp.CurrentUserQuery{UserID: userID})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, toUserResponse(usr))
}

func toUserResponse(usr authapp.User) UserResponse {
	return UserResponse{
		ID:        usr.ID,
		Username:  usr.Username,
		CreatedAt: usr.CreatedAt,
	}
}

func toLoginResponse(result authapp.LoginResult) LoginResponse {
	return LoginResponse{
		User: toUserResponse(result.User),
		Tokens: TokenResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
			ExpiresIn:    result.Tokens.ExpiresIn,
		},
	}
}
