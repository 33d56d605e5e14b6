package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/ports"
)

type AuthHandler struct {
	loginService ports.LoginService
}

func NewAuthHandler(loginService ports.LoginService) *AuthHandler {
	return &AuthHandler{loginService: loginService}
}

// Login resolves a username, email or user id into the account the browser
// keeps as its session. No password is involved.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Any one identifier"
// @Success      200   {object}  domain.LoginResult
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrMissingIdentifier
	}

	result, err := h.loginService.Login(c.Request().Context(), domain.Credentials{
		Username: req.Username,
		Email:    req.Email,
		UserID:   req.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
