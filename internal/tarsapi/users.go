package tarsapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// Index returns the backend's welcome text.
func (c *Client) Index(ctx context.Context) (string, error) {
	var out string
	err := c.do(ctx, request{op: "get index", method: http.MethodGet, path: "/"}, &out)
	return out, err
}

func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var out []domain.Client
	if err := c.do(ctx, request{op: "get client list", method: http.MethodGet, path: "/clients"}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Client{}
	}
	return out, nil
}

// CreateClient registers a new client and returns it with the id the
// backend assigned.
func (c *Client) CreateClient(ctx context.Context, name, email string) (*domain.Client, error) {
	var out domain.Client
	err := c.do(ctx, request{
		op:     "create client",
		method: http.MethodPost,
		path:   "/client/create",
		body:   map[string]string{"name": name, "email": email},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateClientUser(ctx context.Context, in domain.NewClientUser) (*domain.TarsUser, error) {
	var out domain.TarsUser
	err := c.do(ctx, request{
		op:     "create client user",
		method: http.MethodPost,
		path:   "/client/createUser",
		body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserPreference(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error) {
	var out domain.UserPreferences
	err := c.do(ctx, request{op: "get user preferences", method: http.MethodGet, path: "/user/" + segment(userID)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserPreferenceByClient(ctx context.Context, clientID domain.ID) (*domain.UserPreferences, error) {
	var out domain.UserPreferences
	err := c.do(ctx, request{
		op:     "get client user preferences",
		method: http.MethodGet,
		path:   "/user/client/" + segment(clientID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetUserPreference sends only the lists that are non-nil, so an omitted
// list is left untouched and an explicit empty list clears it.
func (c *Client) SetUserPreference(ctx context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error) {
	body := map[string]any{"id": userID}
	if lists.CityPreferences != nil {
		body["cityPreferences"] = lists.CityPreferences
	}
	if lists.WeatherPreferences != nil {
		body["weatherPreferences"] = lists.WeatherPreferences
	}
	if lists.TemperaturePreferences != nil {
		body["temperaturePreferences"] = lists.TemperaturePreferences
	}

	var out domain.UserPreferences
	err := c.do(ctx, request{
		op:     "set user preferences",
		method: http.MethodPut,
		path:   "/setPreference/" + segment(userID),
		body:   body,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveUserPreference clears the user's preferences and returns the
// backend's confirmation text.
func (c *Client) RemoveUserPreference(ctx context.Context, userID domain.ID) (string, error) {
	var out string
	err := c.do(ctx, request{
		op:     "remove user preferences",
		method: http.MethodPut,
		path:   "/user/" + segment(userID) + "/remove",
	}, &out)
	return out, err
}

// AddUserPreference creates the user's preference record from the profile
// editor's payload and relays the backend's answer.
func (c *Client) AddUserPreference(ctx context.Context, userID domain.ID, record json.RawMessage) (json.RawMessage, error) {
	return c.putPreferenceRecord(ctx, "add user preferences", userID, "/add", record)
}

// UpdateUserPreference replaces an existing preference record.
func (c *Client) UpdateUserPreference(ctx context.Context, userID domain.ID, record json.RawMessage) (json.RawMessage, error) {
	return c.putPreferenceRecord(ctx, "update user preferences", userID, "/update", record)
}

func (c *Client) putPreferenceRecord(ctx context.Context, op string, userID domain.ID, action string, record json.RawMessage) (json.RawMessage, error) {
	if len(record) == 0 {
		record = json.RawMessage("{}")
	}
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPut,
		path:   "/user/" + segment(userID) + action,
		body:   record,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.UserPreferences, error) {
	var out []domain.UserPreferences
	if err := c.do(ctx, request{op: "get user list", method: http.MethodGet, path: "/userList"}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.UserPreferences{}
	}
	return out, nil
}

func (c *Client) ListClientUsers(ctx context.Context, clientID domain.ID) ([]domain.UserPreferences, error) {
	var out []domain.UserPreferences
	err := c.do(ctx, request{
		op:     "get client user list",
		method: http.MethodGet,
		path:   "/userList/client/" + segment(clientID),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.UserPreferences{}
	}
	return out, nil
}

func (c *Client) ListTarsUsers(ctx context.Context) ([]domain.TarsUser, error) {
	var out []domain.TarsUser
	if err := c.do(ctx, request{op: "get TARS users", method: http.MethodGet, path: "/tarsUsers"}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.TarsUser{}
	}
	return out, nil
}

// DeleteTarsUser removes an account and returns the deleted record.
func (c *Client) DeleteTarsUser(ctx context.Context, userID domain.ID) (*domain.TarsUser, error) {
	var out domain.TarsUser
	err := c.do(ctx, request{
		op:     "delete TARS user",
		method: http.MethodDelete,
		path:   "/tarsUsers/" + segment(userID),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.UserID == 0 {
		out.UserID = userID
	}
	return &out, nil
}

// Login resolves credentials on the backend. Rejections keep the backend's
// status code (401, 403, 404).
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	var out domain.LoginResult
	err := c.do(ctx, request{op: "login", method: http.MethodPost, path: "/login", body: creds}, &out)
	if err != nil {
		return nil, err
	}
	out.Preferences.Normalize()
	return &out, nil
}
