package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// idParam parses a numeric path parameter, failing with 400.
func idParam(c echo.Context, name string) (domain.ID, error) {
	id, err := domain.ParseID(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a number", name))
	}
	return id, nil
}

// textParam returns a path parameter with percent-escapes decoded.
func textParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// bindAndValidate binds the request into req and validates it. Any failure
// becomes a 400 carrying msg.
func bindAndValidate(c echo.Context, req any, msg string) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
	}
	return nil
}
