package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/ports"
)

// ClientBackend is the part of the backend the client routes use.
type ClientBackend interface {
	Index(ctx context.Context) (string, error)
	CreateClient(ctx context.Context, name, email string) (*domain.Client, error)
	CreateClientUser(ctx context.Context, in domain.NewClientUser) (*domain.TarsUser, error)
}

type ClientHandler struct {
	backend   ClientBackend
	directory ports.UserDirectory
	identity  ports.IdentityService
}

func NewClientHandler(backend ClientBackend, directory ports.UserDirectory, identity ports.IdentityService) *ClientHandler {
	return &ClientHandler{backend: backend, directory: directory, identity: identity}
}

// Index relays the backend's welcome text.
//
// @Summary      Backend welcome message
// @Tags         clients
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/index [get]
func (h *ClientHandler) Index(c echo.Context) error {
	msg, err := h.backend.Index(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// ClientID returns this installation's client id, registering one on first use.
//
// @Summary      Installation client id
// @Tags         clients
// @Produce      json
// @Success      200  {object}  clientIDResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/client-id [get]
func (h *ClientHandler) ClientID(c echo.Context) error {
	id, err := h.identity.ClientID(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientIDResponse{ClientID: id})
}

// List returns every known client.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200  {array}   domain.Client
// @Failure      500  {object}  errorResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.directory.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return c.JSON(http.StatusOK, clients)
}

// Create registers a client with the backend.
//
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/client/create [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := bindAndValidate(c, &req, "Name and email are required"); err != nil {
		return err
	}

	client, err := h.backend.CreateClient(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// CreateUser adds a user under an existing client.
//
// @Summary      Create client user
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      createClientUserRequest  true  "User details"
// @Success      200   {object}  domain.TarsUser
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/client/createUser [post]
func (h *ClientHandler) CreateUser(c echo.Context) error {
	var req createClientUserRequest
	if err := bindAndValidate(c, &req, "clientId, username, email, and role are required"); err != nil {
		return err
	}

	user, err := h.backend.CreateClientUser(c.Request().Context(), domain.NewClientUser{
		ClientID: req.ClientID,
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
