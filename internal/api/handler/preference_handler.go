package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/ports"
)

// PreferenceBackend reads and writes raw preference records on the backend.
type PreferenceBackend interface {
	GetUserPreference(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error)
	AddUserPreference(ctx context.Context, userID domain.ID, record json.RawMessage) (json.RawMessage, error)
	UpdateUserPreference(ctx context.Context, userID domain.ID, record json.RawMessage) (json.RawMessage, error)
}

type PreferenceHandler struct {
	prefs   ports.PreferenceService
	backend PreferenceBackend
}

func NewPreferenceHandler(prefs ports.PreferenceService, backend PreferenceBackend) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, backend: backend}
}

// Set replaces the given preference lists of a user.
//
// @Summary      Set user preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "User id"
// @Param        body  body      setPreferenceRequest  true  "Preference lists"
// @Success      200   {object}  domain.UserPreferences
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/setPreference/{id} [put]
func (h *PreferenceHandler) Set(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req setPreferenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	saved, err := h.prefs.Set(c.Request().Context(), id, domain.PreferenceLists{
		CityPreferences:        req.CityPreferences,
		WeatherPreferences:     req.WeatherPreferences,
		TemperaturePreferences: req.TemperaturePreferences,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

// Remove clears a user's preferences.
//
// @Summary      Remove user preferences
// @Tags         preferences
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/user/{id}/remove [put]
func (h *PreferenceHandler) Remove(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	msg, err := h.prefs.Remove(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Add creates a user's preference record on the backend.
//
// @Summary      Add user preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "User id"
// @Param        body  body      domain.UserPreferences  true  "Preference record"
// @Success      200   {object}  domain.UserPreferences
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/user/{id}/add [put]
func (h *PreferenceHandler) Add(c echo.Context) error {
	return h.forwardRecord(c, h.backend.AddUserPreference)
}

// Update replaces a user's preference record on the backend.
//
// @Summary      Update user preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "User id"
// @Param        body  body      domain.UserPreferences  true  "Preference record"
// @Success      200   {object}  domain.UserPreferences
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/user/{id}/update [put]
func (h *PreferenceHandler) Update(c echo.Context) error {
	return h.forwardRecord(c, h.backend.UpdateUserPreference)
}

type recordWriter func(ctx context.Context, userID domain.ID, record json.RawMessage) (json.RawMessage, error)

// forwardRecord sends the request body to the backend unchanged and relays
// whatever the backend answers.
func (h *PreferenceHandler) forwardRecord(c echo.Context, write recordWriter) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	record, err := preferenceRecord(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	out, err := write(c.Request().Context(), id, record)
	if err != nil {
		return err
	}
	return relay(c, out)
}

// preferenceRecord accepts an empty body or a JSON object.
func preferenceRecord(body []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("{}"), nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("preference record must be a JSON object")
	}
	return json.RawMessage(body), nil
}

// Get relays the backend's preference record for a user.
//
// @Summary      Get user preference record
// @Tags         preferences
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.UserPreferences
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/user/{id} [get]
func (h *PreferenceHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	prefs, err := h.backend.GetUserPreference(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs.Normalize())
}

// ByClient returns the preference record attached to a client.
//
// @Summary      Get preferences by client
// @Tags         preferences
// @Produce      json
// @Param        clientId  path      int  true  "Client id"
// @Success      200       {object}  domain.UserPreferences
// @Failure      400       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/user/client/{clientId} [get]
func (h *PreferenceHandler) ByClient(c echo.Context) error {
	clientID, err := idParam(c, "clientId")
	if err != nil {
		return err
	}

	prefs, err := h.prefs.ForClient(c.Request().Context(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

// ForUser returns a user's preferences, or empty lists when none are stored.
//
// @Summary      Get preferences for the profile page
// @Tags         preferences
// @Produce      json
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  profilePreferencesResponse
// @Failure      400     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /api/preferences/user/{userId} [get]
func (h *PreferenceHandler) ForUser(c echo.Context) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}

	prefs, err := h.prefs.ForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProfilePreferences(userID, prefs))
}
