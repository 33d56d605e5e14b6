package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/ports"
)

// UserBackend is the part of the backend the user routes use.
type UserBackend interface {
	ListUsers(ctx context.Context) ([]domain.UserPreferences, error)
	ListClientUsers(ctx context.Context, clientID domain.ID) ([]domain.UserPreferences, error)
	DeleteTarsUser(ctx context.Context, userID domain.ID) (*domain.TarsUser, error)
}

type UserHandler struct {
	directory ports.UserDirectory
	backend   UserBackend
}

func NewUserHandler(directory ports.UserDirectory, backend UserBackend) *UserHandler {
	return &UserHandler{directory: directory, backend: backend}
}

// ListTarsUsers returns every account for the admin dashboard.
//
// @Summary      List TARS users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.TarsUser
// @Failure      500  {object}  errorResponse
// @Router       /api/tarsUsers [get]
func (h *UserHandler) ListTarsUsers(c echo.Context) error {
	users, err := h.directory.ListTarsUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.TarsUser{}
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteTarsUser removes an account.
//
// @Summary      Delete a TARS user
// @Tags         users
// @Produce      json
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  deleteUserResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /api/tarsUsers/{userId} [delete]
func (h *UserHandler) DeleteTarsUser(c echo.Context) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}

	deleted, err := h.backend.DeleteTarsUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || strings.Contains(strings.ToLower(err.Error()), "not found") {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("User with ID %s not found", userID)).SetInternal(err)
		}
		return err
	}

	return c.JSON(http.StatusOK, deleteUserResponse{
		Message:     fmt.Sprintf("User \"%s\" deleted successfully", deleted.Username),
		DeletedUser: deleted,
	})
}

// ListUsers relays every preference record.
//
// @Summary      List user preference records
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.UserPreferences
// @Failure      500  {object}  errorResponse
// @Router       /api/userList [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.backend.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// ListClientUsers relays the preference records of one client.
//
// @Summary      List a client's user preference records
// @Tags         users
// @Produce      json
// @Param        clientId  path      int  true  "Client id"
// @Success      200       {array}   domain.UserPreferences
// @Failure      400       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/userList/client/{clientId} [get]
func (h *UserHandler) ListClientUsers(c echo.Context) error {
	clientID, err := idParam(c, "clientId")
	if err != nil {
		return err
	}

	users, err := h.backend.ListClientUsers(c.Request().Context(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
