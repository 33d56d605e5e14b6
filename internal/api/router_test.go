package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/api/handler"
	"github.com/coms4156/tars-client/internal/api/metrics"
	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/service"
	"github.com/coms4156/tars-client/internal/infrastructure/filestore"
	"github.com/coms4156/tars-client/internal/tarsapi"
)

// ---------------------------------------------------------------------------
// Test fixture
// ---------------------------------------------------------------------------

type fixture struct {
	t       *testing.T
	server  http.Handler
	dataDir string
	reg     *prometheus.Registry
}

// fakeBackend answers the handful of backend routes the tests reach.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "Welcome to the TARS Home Page!")
	})
	mux.HandleFunc("POST /client/create", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"clientId":41,"name":"x","email":"y"}`)
	})
	mux.HandleFunc("DELETE /tarsUsers/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"userId":7,"clientId":1,"username":"ada","email":"ada@x.io","role":"user","active":true}`)
	})
	mux.HandleFunc("GET /country/{country}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("country") == "Atlantis" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"message":"advisory service down"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"country":"`+r.PathValue("country")+`","level":"2"}`)
	})
	mux.HandleFunc("PUT /user/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		action := r.PathValue("action")
		if action != "add" && action != "update" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"action":"`+action+`","id":`+r.PathValue("id")+`,"record":`+string(body)+`}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newFixture(t *testing.T, staticDir string) *fixture {
	t.Helper()
	return newLoggedFixture(t, staticDir, zerolog.Nop())
}

func newLoggedFixture(t *testing.T, staticDir string, log zerolog.Logger) *fixture {
	t.Helper()

	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "users.json"), `[
  {"userId": 1, "clientId": 1, "username": "ada", "email": "ada@x.io", "role": "user", "active": true},
  {"userId": 2, "clientId": 1, "username": "bob", "email": "bob@x.io", "role": "user", "active": false}
]`)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	backend := tarsapi.New(fakeBackend(t).URL, tarsapi.WithObserver(m))
	dir := filestore.NewDirectory(dataDir, log)
	clientIDs := filestore.NewClientIDFile(filepath.Join(t.TempDir(), "client-config.json"), log)

	e := NewRouter(Services{
		Backend:     backend,
		Directory:   dir,
		Identity:    service.NewIdentityService(clientIDs, backend, m, log),
		Login:       service.NewDirectoryLoginService(dir, dir, log),
		Preferences: service.NewPreferenceService(dir, backend, m, log),
		Readiness:   map[string]handler.Pinger{"backend": backend},
	}, Options{
		Logger:     log,
		StaticDir:  staticDir,
		Registerer: reg,
		Gatherer:   reg,
	})

	return &fixture{t: t, server: e, dataDir: dataDir, reg: reg}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	f.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	if body.Error != msg {
		t.Fatalf("expected error %q, got %q", msg, body.Error)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_Health(t *testing.T) {
	f := newFixture(t, t.TempDir())

	rec := f.do(http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "TARS Client Server is running") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}

	rec = f.do(http.MethodGet, "/api/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Index_RelaysText(t *testing.T) {
	f := newFixture(t, t.TempDir())

	rec := f.do(http.MethodGet, "/api/index", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Welcome to the TARS Home Page!") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_ValidationMessages(t *testing.T) {
	f := newFixture(t, t.TempDir())

	cases := []struct {
		name, method, target, body, msg string
	}{
		{"create client", http.MethodPost, "/api/client/create", `{"name":"only"}`, "Name and email are required"},
		{"create user", http.MethodPost, "/api/client/createUser", `{"clientId":1}`, "clientId, username, email, and role are required"},
		{"login", http.MethodPost, "/api/login", `{}`, "Username, email, or userId is required"},
		{"weather recommendation", http.MethodGet, "/api/recommendation/weather?city=Paris", "", "city and days parameters are required"},
		{"weather alerts", http.MethodGet, "/api/alert/weather", "", "Either city or lat/lon parameters are required"},
		{"crime summary", http.MethodGet, "/api/crime/summary?state=NY&offense=%20", "", "state, offense, month, and year parameters are required"},
		{"bad id", http.MethodGet, "/api/user/abc", "", "id must be a number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, f.do(tc.method, tc.target, tc.body), http.StatusBadRequest, tc.msg)
		})
	}
}

func TestRouter_UnknownAPIPath(t *testing.T) {
	f := newFixture(t, t.TempDir())

	expectError(t, f.do(http.MethodGet, "/api/does-not-exist", ""), http.StatusNotFound,
		"API endpoint not found: /api/does-not-exist")
	expectError(t, f.do(http.MethodPost, "/api/nested/unknown", `{}`), http.StatusNotFound,
		"API endpoint not found: /api/nested/unknown")
}

func TestRouter_MissingBundle(t *testing.T) {
	f := newFixture(t, t.TempDir())

	expectError(t, f.do(http.MethodGet, "/dashboard", ""), http.StatusNotFound, bundleMissingMessage)
}

func TestRouter_ServesBundleWithHistoryFallback(t *testing.T) {
	static := t.TempDir()
	writeFile(t, filepath.Join(static, "index.html"), "<html>tars</html>")
	writeFile(t, filepath.Join(static, "app.js"), "console.log('tars')")
	f := newFixture(t, static)

	rec := f.do(http.MethodGet, "/app.js", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("expected asset, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/profile/settings", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<html>tars</html>") {
		t.Fatalf("expected index.html, got %d: %s", rec.Code, rec.Body.String())
	}

	// API paths never fall through to the bundle.
	expectError(t, f.do(http.MethodGet, "/api/nope", ""), http.StatusNotFound, "API endpoint not found: /api/nope")
}

func TestRouter_BackendErrorKeepsStatus(t *testing.T) {
	f := newFixture(t, t.TempDir())

	expectError(t, f.do(http.MethodGet, "/api/country/Atlantis", ""), http.StatusBadGateway,
		"failed to get country advisory: advisory service down")

	rec := f.do(http.MethodGet, "/api/country/France", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "{\"advisory\":{\"country\":\"France\",\"level\":\"2\"}}\n" {
		t.Fatalf("unexpected advisory body: %q", rec.Body.String())
	}
}

func TestRouter_DeleteTarsUser(t *testing.T) {
	f := newFixture(t, t.TempDir())

	expectError(t, f.do(http.MethodDelete, "/api/tarsUsers/99", ""), http.StatusNotFound, "User with ID 99 not found")

	rec := f.do(http.MethodDelete, "/api/tarsUsers/7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"message":"User \"ada\" deleted successfully"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_Login(t *testing.T) {
	f := newFixture(t, t.TempDir())

	expectError(t, f.do(http.MethodPost, "/api/login", `{"username":"nobody"}`), http.StatusNotFound,
		"User not found. Please check your credentials.")
	expectError(t, f.do(http.MethodPost, "/api/login", `{"email":"BOB@x.io"}`), http.StatusForbidden,
		"User account is inactive.")

	rec := f.do(http.MethodPost, "/api/login", `{"username":"ada"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got domain.LoginResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if got.UserID != 1 || got.Preferences.CityPreferences == nil {
		t.Fatalf("unexpected login result: %+v", got)
	}
}

func TestRouter_SetThenReadPreferences(t *testing.T) {
	f := newFixture(t, t.TempDir())

	rec := f.do(http.MethodPut, "/api/setPreference/5", `{"cityPreferences":["Paris"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/api/preferences/user/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got domain.UserPreferences
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(got.CityPreferences) != 1 || got.CityPreferences[0] != "Paris" {
		t.Fatalf("expected Paris, got %+v", got)
	}
	if got.WeatherPreferences == nil || len(got.WeatherPreferences) != 0 {
		t.Fatalf("expected empty weather list, got %#v", got.WeatherPreferences)
	}

	// Unknown users fall back to empty lists.
	rec = f.do(http.MethodGet, "/api/preferences/user/404", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected fallback 200, got %d", rec.Code)
	}
}

func TestRouter_ClientIDIsStable(t *testing.T) {
	f := newFixture(t, t.TempDir())

	first := f.do(http.MethodGet, "/api/client-id", "")
	second := f.do(http.MethodGet, "/api/client-id", "")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("unexpected status %d / %d", first.Code, second.Code)
	}
	if first.Body.String() != "{\"clientId\":41}\n" || second.Body.String() != first.Body.String() {
		t.Fatalf("unexpected bodies %q / %q", first.Body.String(), second.Body.String())
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	f := newFixture(t, t.TempDir())

	_ = f.do(http.MethodGet, "/api/index", "")

	rec := f.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"tars_client_upstream_requests_total", "tars_client_requests_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}

func TestRouter_AddAndUpdatePreferences_RelayBackend(t *testing.T) {
	f := newFixture(t, t.TempDir())

	for _, action := range []string{"add", "update"} {
		rec := f.do(http.MethodPut, "/api/user/5/"+action, `{"id":5,"cityPreferences":["Paris"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", action, rec.Code, rec.Body.String())
		}
		var got struct {
			Action string                 `json:"action"`
			ID     int                    `json:"id"`
			Record domain.UserPreferences `json:"record"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s: invalid body %q: %v", action, rec.Body.String(), err)
		}
		if got.Action != action || got.ID != 5 || len(got.Record.CityPreferences) != 1 || got.Record.CityPreferences[0] != "Paris" {
			t.Fatalf("%s: unexpected relay %+v", action, got)
		}
	}

	expectError(t, f.do(http.MethodPut, "/api/user/5/update", `[1,2]`), http.StatusBadRequest, "invalid payload")
}

func TestRouter_EmptyPreferencesForUserZero_KeepUserID(t *testing.T) {
	f := newFixture(t, t.TempDir())

	rec := f.do(http.MethodGet, "/api/preferences/user/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := "{\"id\":0,\"userId\":0,\"cityPreferences\":[],\"weatherPreferences\":[],\"temperaturePreferences\":[]}\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected body:\n got %s\nwant %s", rec.Body.String(), want)
	}
}

func TestRouter_FailedRequestLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	f := newLoggedFixture(t, t.TempDir(), zerolog.New(&buf))

	cases := []struct {
		name, method, target, body string
		level, errPart            string
	}{
		{"validation", http.MethodPost, "/api/client/create", `{"name":"only"}`, "warn", "email (required)"},
		{"backend", http.MethodGet, "/api/country/Atlantis", "", "error", "failed to get country advisory"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			_ = f.do(tc.method, tc.target, tc.body)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != 1 {
				t.Fatalf("expected one log line, got %d: %s", len(lines), buf.String())
			}
			var entry map[string]any
			if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
				t.Fatalf("invalid log line %q: %v", lines[0], err)
			}
			if entry["level"] != tc.level {
				t.Fatalf("expected level %s, got %v", tc.level, entry["level"])
			}
			if msg, _ := entry["error"].(string); !strings.Contains(msg, tc.errPart) {
				t.Fatalf("expected error containing %q, got %v", tc.errPart, entry["error"])
			}
		})
	}
}
