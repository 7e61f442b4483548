package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// CORSConfig holds configuration for cross-origin request handling.
type CORSConfig struct {
	// AllowOrigins lists allowed origins. Empty means same-origin only.
	AllowOrigins []string

	// AllowCredentials enables cookies and authorization headers in
	// cross-origin requests.
	AllowCredentials bool
}

// CORS returns a middleware configured for the API's cross-origin policy.
func CORS(config CORSConfig) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: config.AllowOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			HeaderRequestID,
		},
		AllowCredentials: config.AllowCredentials,
		MaxAge:           3600,
	})
}
