package httphandler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/uuid"
	"github.com/couriermsg/courier/internal/middleware"
)

// newJSONContext builds an echo context for a JSON request, optionally
// authenticated as userID.
func newJSONContext(method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if !userID.IsZero() {
		c.Set(middleware.ContextKeyUserID, userID)
	}
	return c, rec
}

func getContext(target string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	return newJSONContext(http.MethodGet, target, "", userID)
}

// threadValidationError builds the error a use case reports for a single
// bad field.
func threadValidationError(field string) error {
	ve := shared.NewValidationError()
	ve.Add(field, "is not valid")
	return ve.ErrOrNil()
}
