package tarsapi

import (
	"context"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// Directory serves user, client and preference lookups from the backend.
type Directory struct {
	client *Client
}

func NewDirectory(c *Client) *Directory {
	return &Directory{client: c}
}

func (d *Directory) ListTarsUsers(ctx context.Context) ([]domain.TarsUser, error) {
	return d.client.ListTarsUsers(ctx)
}

func (d *Directory) ListClients(ctx context.Context) ([]domain.Client, error) {
	return d.client.ListClients(ctx)
}

func (d *Directory) Preferences(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error) {
	return d.client.GetUserPreference(ctx, userID)
}

func (d *Directory) PreferencesByClient(ctx context.Context, clientID domain.ID) (*domain.UserPreferences, error) {
	return d.client.GetUserPreferenceByClient(ctx, clientID)
}

func (d *Directory) SavePreferences(ctx context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error) {
	return d.client.SetUserPreference(ctx, userID, lists)
}
