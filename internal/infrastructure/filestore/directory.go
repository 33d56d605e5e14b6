package filestore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/core/domain"
)

const (
	usersFile       = "users.json"
	clientsFile     = "clients.json"
	preferencesFile = "userPreferences.json"
)

// Directory reads the user, client and preference documents kept in one
// data directory. A missing document holds no records.
type Directory struct {
	dir string
	log zerolog.Logger
}

func NewDirectory(dir string, log zerolog.Logger) *Directory {
	return &Directory{dir: dir, log: log}
}

func (d *Directory) path(name string) string {
	return filepath.Join(d.dir, name)
}

func (d *Directory) ListTarsUsers(ctx context.Context) ([]domain.TarsUser, error) {
	users := []domain.TarsUser{}
	if err := d.readList(ctx, usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Directory) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients := []domain.Client{}
	if err := d.readList(ctx, clientsFile, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (d *Directory) Preferences(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error) {
	prefs, err := d.readPreferences(ctx)
	if err != nil {
		return nil, err
	}
	for i := range prefs {
		if prefs[i].ID == userID {
			found := prefs[i]
			return found.Normalize(), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, domain.ErrPreferencesNotFound)
}

func (d *Directory) PreferencesByClient(ctx context.Context, clientID domain.ID) (*domain.UserPreferences, error) {
	prefs, err := d.readPreferences(ctx)
	if err != nil {
		return nil, err
	}
	for i := range prefs {
		if prefs[i].ClientID == clientID {
			found := prefs[i]
			return found.Normalize(), nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", clientID, domain.ErrPreferencesNotFound)
}

// SavePreferences updates the record for userID in place, or appends one.
// Nil lists keep their stored value.
func (d *Directory) SavePreferences(ctx context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error) {
	path := d.path(preferencesFile)
	var saved domain.UserPreferences

	err := withLock(ctx, path, true, func() error {
		prefs := []domain.UserPreferences{}
		if _, err := readJSON(path, &prefs); err != nil {
			return err
		}

		idx := -1
		for i := range prefs {
			if prefs[i].ID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			prefs = append(prefs, *domain.EmptyPreferences(userID))
			prefs[len(prefs)-1].UserID = 0
			idx = len(prefs) - 1
		}

		rec := &prefs[idx]
		if lists.CityPreferences != nil {
			rec.CityPreferences = lists.CityPreferences
		}
		if lists.WeatherPreferences != nil {
			rec.WeatherPreferences = lists.WeatherPreferences
		}
		if lists.TemperaturePreferences != nil {
			rec.TemperaturePreferences = lists.TemperaturePreferences
		}
		rec.Normalize()

		if err := writeJSON(path, prefs); err != nil {
			return err
		}
		saved = *rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.log.Info().Stringer("user_id", userID).Str("path", path).Msg("preferences saved")
	return &saved, nil
}

func (d *Directory) readPreferences(ctx context.Context) ([]domain.UserPreferences, error) {
	prefs := []domain.UserPreferences{}
	if err := d.readList(ctx, preferencesFile, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (d *Directory) readList(ctx context.Context, name string, out any) error {
	path := d.path(name)
	return withLock(ctx, path, false, func() error {
		found, err := readJSON(path, out)
		if err != nil {
			return err
		}
		if !found {
			d.log.Warn().Str("path", path).Msg("data file not found, treating as empty")
			return nil
		}
		return nil
	})
}
