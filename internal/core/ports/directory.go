package ports

import (
	"context"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// UserDirectory lists the accounts and clients known to the system.
type UserDirectory interface {
	ListTarsUsers(ctx context.Context) ([]domain.TarsUser, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// PreferenceStore reads and writes preference records keyed by user id.
// Implementations return an error matching domain.ErrPreferencesNotFound or
// domain.ErrNotFound when no record exists.
type PreferenceStore interface {
	Preferences(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error)
	PreferencesByClient(ctx context.Context, clientID domain.ID) (*domain.UserPreferences, error)
	// SavePreferences replaces the non-nil lists of the record for userID,
	// creating it when absent, and returns the stored record.
	SavePreferences(ctx context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error)
}
