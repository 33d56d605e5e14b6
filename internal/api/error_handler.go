package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/tarsapi"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Keeps the backend's status code for failed backend calls.
//   - Hides unexpected errors behind a generic message.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// It does not log. The request logger records the status and the full error
// chain once per request.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors and the fixed validation messages raised by handlers.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrMissingIdentifier):
		return http.StatusBadRequest, "Username, email, or userId is required"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found. Please check your credentials."
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusForbidden, "User account is inactive."
	case errors.Is(err, domain.ErrClientIDNotAssigned):
		return http.StatusInternalServerError, "Failed to get or create client ID"
	}

	// Backend failures keep the upstream status and message.
	if apiErr, ok := tarsapi.AsError(err); ok {
		return apiErr.HTTPStatus(), apiErr.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}
