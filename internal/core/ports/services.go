package ports

import (
	"context"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// IdentityService resolves the client id of this installation, registering
// a new client with the backend on first use.
type IdentityService interface {
	ClientID(ctx context.Context) (domain.ID, error)
}

// LoginService resolves credentials into a user record with preferences.
type LoginService interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
}

// PreferenceService reads and updates user preferences.
type PreferenceService interface {
	// ForUser never fails on a missing record; it returns empty lists instead.
	ForUser(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error)
	ForClient(ctx context.Context, clientID domain.ID) (*domain.UserPreferences, error)
	Set(ctx context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error)
	Remove(ctx context.Context, userID domain.ID) (string, error)
}

// Recorder receives domain counters. A nil Recorder is never passed to
// services; use NopRecorder instead.
type Recorder interface {
	ClientIDCreated()
	PreferenceFallback(source string)
}

// NopRecorder discards every observation.
type NopRecorder struct{}

func (NopRecorder) ClientIDCreated()          {}
func (NopRecorder) PreferenceFallback(string) {}
