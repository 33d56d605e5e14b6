package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/tarsapi"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newContext builds an echo context with the validator installed. params
// alternates names and values.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func requireHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
	if msg != "" && he.Message != msg {
		t.Fatalf("expected message %q, got %v", msg, he.Message)
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

var errUpstream = &tarsapi.Error{Op: "do something", StatusCode: 500, Message: "Backend error"}

// ---------------------------------------------------------------------------
// Backend stub
// ---------------------------------------------------------------------------

type stubBackend struct {
	indexFn            func(ctx context.Context) (string, error)
	createClientFn     func(ctx context.Context, name, email string) (*domain.Client, error)
	createClientUserFn func(ctx context.Context, in domain.NewClientUser) (*domain.TarsUser, error)
	getPreferenceFn    func(ctx context.Context, id domain.ID) (*domain.UserPreferences, error)
	writeRecordFn      func(op string, id domain.ID, record json.RawMessage) (json.RawMessage, error)
	listUsersFn        func(ctx context.Context) ([]domain.UserPreferences, error)
	listClientUsersFn  func(ctx context.Context, id domain.ID) ([]domain.UserPreferences, error)
	deleteTarsUserFn   func(ctx context.Context, id domain.ID) (*domain.TarsUser, error)
	travelFn           func(op string, args ...any) (json.RawMessage, error)
}

func (s *stubBackend) Index(ctx context.Context) (string, error) { return s.indexFn(ctx) }

func (s *stubBackend) CreateClient(ctx context.Context, name, email string) (*domain.Client, error) {
	return s.createClientFn(ctx, name, email)
}

func (s *stubBackend) CreateClientUser(ctx context.Context, in domain.NewClientUser) (*domain.TarsUser, error) {
	return s.createClientUserFn(ctx, in)
}

func (s *stubBackend) GetUserPreference(ctx context.Context, id domain.ID) (*domain.UserPreferences, error) {
	return s.getPreferenceFn(ctx, id)
}

func (s *stubBackend) AddUserPreference(_ context.Context, id domain.ID, record json.RawMessage) (json.RawMessage, error) {
	return s.writeRecordFn("add", id, record)
}

func (s *stubBackend) UpdateUserPreference(_ context.Context, id domain.ID, record json.RawMessage) (json.RawMessage, error) {
	return s.writeRecordFn("update", id, record)
}

func (s *stubBackend) ListUsers(ctx context.Context) ([]domain.UserPreferences, error) {
	return s.listUsersFn(ctx)
}

func (s *stubBackend) ListClientUsers(ctx context.Context, id domain.ID) ([]domain.UserPreferences, error) {
	return s.listClientUsersFn(ctx, id)
}

func (s *stubBackend) DeleteTarsUser(ctx context.Context, id domain.ID) (*domain.TarsUser, error) {
	return s.deleteTarsUserFn(ctx, id)
}

func (s *stubBackend) WeatherRecommendation(_ context.Context, city string, days int) (json.RawMessage, error) {
	return s.travelFn("recommendation", city, days)
}

func (s *stubBackend) WeatherAlertsByCity(_ context.Context, city string) (json.RawMessage, error) {
	return s.travelFn("alertsByCity", city)
}

func (s *stubBackend) WeatherAlertsByCoordinates(_ context.Context, lat, lon float64) (json.RawMessage, error) {
	return s.travelFn("alertsByCoordinates", lat, lon)
}

func (s *stubBackend) UserWeatherAlerts(_ context.Context, id domain.ID) (json.RawMessage, error) {
	return s.travelFn("userAlerts", id)
}

func (s *stubBackend) CrimeSummary(_ context.Context, q tarsapi.CrimeQuery) (json.RawMessage, error) {
	return s.travelFn("crime", q)
}

func (s *stubBackend) CountryAdvisory(_ context.Context, country string) (json.RawMessage, error) {
	return s.travelFn("advisory", country)
}

func (s *stubBackend) CitySummary(_ context.Context, q tarsapi.CitySummaryQuery) (json.RawMessage, error) {
	return s.travelFn("citySummary", q)
}

func (s *stubBackend) CountrySummary(_ context.Context, country string) (json.RawMessage, error) {
	return s.travelFn("countrySummary", country)
}

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubIdentity struct {
	id  domain.ID
	err error
}

func (s *stubIdentity) ClientID(context.Context) (domain.ID, error) { return s.id, s.err }

type stubDirectory struct {
	users   []domain.TarsUser
	clients []domain.Client
	err     error
}

func (s *stubDirectory) ListTarsUsers(context.Context) ([]domain.TarsUser, error) {
	return s.users, s.err
}

func (s *stubDirectory) ListClients(context.Context) ([]domain.Client, error) {
	return s.clients, s.err
}

type stubLoginService struct {
	loginFn func(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
}

func (s *stubLoginService) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	return s.loginFn(ctx, creds)
}

type stubPreferenceService struct {
	forUserFn   func(ctx context.Context, id domain.ID) (*domain.UserPreferences, error)
	forClientFn func(ctx context.Context, id domain.ID) (*domain.UserPreferences, error)
	setFn       func(ctx context.Context, id domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error)
	removeFn    func(ctx context.Context, id domain.ID) (string, error)
}

func (s *stubPreferenceService) ForUser(ctx context.Context, id domain.ID) (*domain.UserPreferences, error) {
	return s.forUserFn(ctx, id)
}

func (s *stubPreferenceService) ForClient(ctx context.Context, id domain.ID) (*domain.UserPreferences, error) {
	return s.forClientFn(ctx, id)
}

func (s *stubPreferenceService) Set(ctx context.Context, id domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error) {
	return s.setFn(ctx, id, lists)
}

func (s *stubPreferenceService) Remove(ctx context.Context, id domain.ID) (string, error) {
	return s.removeFn(ctx, id)
}
