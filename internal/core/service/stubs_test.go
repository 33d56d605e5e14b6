package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory client id store
// ---------------------------------------------------------------------------

type stubClientIDStore struct {
	mu      sync.Mutex
	id      domain.ID
	loadErr error
	saves   int
}

func (s *stubClientIDStore) Load(context.Context) (domain.ID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return 0, false, s.loadErr
	}
	return s.id, s.id != 0, nil
}

func (s *stubClientIDStore) SaveIfAbsent(_ context.Context, id domain.ID) (domain.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == 0 {
		s.id = id
		s.saves++
	}
	return s.id, nil
}

// ---------------------------------------------------------------------------
// Backend stubs
// ---------------------------------------------------------------------------

type stubRegistrar struct {
	nextID  domain.ID
	err     error
	calls   int
	lastReq [2]string
}

func (r *stubRegistrar) CreateClient(_ context.Context, name, email string) (*domain.Client, error) {
	r.calls++
	r.lastReq = [2]string{name, email}
	if r.err != nil {
		return nil, r.err
	}
	return &domain.Client{ClientID: r.nextID, Name: name, Email: email}, nil
}

type stubBackendLogin struct {
	result *domain.LoginResult
	err    error
	got    domain.Credentials
}

func (b *stubBackendLogin) Login(_ context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	b.got = creds
	if b.err != nil {
		return nil, b.err
	}
	clone := *b.result
	return &clone, nil
}

type stubRemover struct {
	message string
	removed []domain.ID
}

func (r *stubRemover) RemoveUserPreference(_ context.Context, userID domain.ID) (string, error) {
	r.removed = append(r.removed, userID)
	return r.message, nil
}

// ---------------------------------------------------------------------------
// In-memory directory
// ---------------------------------------------------------------------------

type stubDirectory struct {
	users   []domain.TarsUser
	clients []domain.Client
	prefs   map[domain.ID]domain.UserPreferences
	listErr error
	prefErr error
}

func newStubDirectory(users ...domain.TarsUser) *stubDirectory {
	return &stubDirectory{users: users, prefs: map[domain.ID]domain.UserPreferences{}}
}

func (d *stubDirectory) ListTarsUsers(context.Context) ([]domain.TarsUser, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	return append([]domain.TarsUser(nil), d.users...), nil
}

func (d *stubDirectory) ListClients(context.Context) ([]domain.Client, error) {
	return append([]domain.Client(nil), d.clients...), nil
}

func (d *stubDirectory) Preferences(_ context.Context, userID domain.ID) (*domain.UserPreferences, error) {
	if d.prefErr != nil {
		return nil, d.prefErr
	}
	p, ok := d.prefs[userID]
	if !ok {
		return nil, domain.ErrPreferencesNotFound
	}
	return &p, nil
}

func (d *stubDirectory) PreferencesByClient(_ context.Context, clientID domain.ID) (*domain.UserPreferences, error) {
	if d.prefErr != nil {
		return nil, d.prefErr
	}
	for _, p := range d.prefs {
		if p.ClientID == clientID {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrPreferencesNotFound
}

func (d *stubDirectory) SavePreferences(_ context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error) {
	if d.prefErr != nil {
		return nil, d.prefErr
	}
	rec, ok := d.prefs[userID]
	if !ok {
		rec = *domain.EmptyPreferences(userID)
		rec.UserID = 0
	}
	if lists.CityPreferences != nil {
		rec.CityPreferences = lists.CityPreferences
	}
	if lists.WeatherPreferences != nil {
		rec.WeatherPreferences = lists.WeatherPreferences
	}
	if lists.TemperaturePreferences != nil {
		rec.TemperaturePreferences = lists.TemperaturePreferences
	}
	d.prefs[userID] = rec
	clone := rec
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Recorder
// ---------------------------------------------------------------------------

type countingRecorder struct {
	created   int
	fallbacks map[string]int
}

func (r *countingRecorder) ClientIDCreated() { r.created++ }

func (r *countingRecorder) PreferenceFallback(source string) {
	if r.fallbacks == nil {
		r.fallbacks = map[string]int{}
	}
	r.fallbacks[source]++
}

// upstreamNotFound mimics a backend 404 without importing the HTTP client.
type upstreamNotFound struct{}

func (upstreamNotFound) Error() string        { return "failed to get user preferences: User not found" }
func (upstreamNotFound) Is(target error) bool { return target == domain.ErrNotFound }

var errBoom = errors.New("boom")
