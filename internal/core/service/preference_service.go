package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/ports"
)

// PreferenceRemover clears a user's preferences on the backend.
type PreferenceRemover interface {
	RemoveUserPreference(ctx context.Context, userID domain.ID) (string, error)
}

type PreferenceService struct {
	store    ports.PreferenceStore
	remover  PreferenceRemover
	recorder ports.Recorder
	logger   zerolog.Logger
}

func NewPreferenceService(store ports.PreferenceStore, remover PreferenceRemover, recorder ports.Recorder, logger zerolog.Logger) *PreferenceService {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &PreferenceService{store: store, remover: remover, recorder: recorder, logger: logger}
}

// ForUser returns the user's record, or empty lists when none is stored.
func (s *PreferenceService) ForUser(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error) {
	prefs, err := s.store.Preferences(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		s.recorder.PreferenceFallback("user")
		s.logger.Debug().Stringer("user_id", userID).Msg("no stored preferences, serving empty lists")
		return domain.EmptyPreferences(userID), nil
	}
	if prefs == nil {
		s.recorder.PreferenceFallback("user")
		return domain.EmptyPreferences(userID), nil
	}

	prefs.UserID = userID
	if prefs.ID == 0 {
		prefs.ID = userID
	}
	return prefs.Normalize(), nil
}

// ForClient returns the first record belonging to clientID, or an empty
// record carrying only the client id.
func (s *PreferenceService) ForClient(ctx context.Context, clientID domain.ID) (*domain.UserPreferences, error) {
	prefs, err := s.store.PreferencesByClient(ctx, clientID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		s.recorder.PreferenceFallback("client")
		empty := domain.EmptyPreferences(0)
		empty.ClientID = clientID
		return empty, nil
	}
	return prefs.Normalize(), nil
}

func (s *PreferenceService) Set(ctx context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error) {
	saved, err := s.store.SavePreferences(ctx, userID, lists)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Stringer("user_id", userID).
		Int("cities", len(saved.CityPreferences)).
		Int("weather", len(saved.WeatherPreferences)).
		Int("temperature", len(saved.TemperaturePreferences)).
		Msg("preferences updated")
	return saved.Normalize(), nil
}

func (s *PreferenceService) Remove(ctx context.Context, userID domain.ID) (string, error) {
	return s.remover.RemoveUserPreference(ctx, userID)
}
