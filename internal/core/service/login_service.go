package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/ports"
)

// BackendLogin resolves credentials on the backend.
type BackendLogin interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
}

// LoginService resolves credentials into a LoginResult. It either delegates
// to the backend or searches a local directory, depending on construction.
type LoginService struct {
	backend   BackendLogin
	directory ports.UserDirectory
	prefs     ports.PreferenceStore
	logger    zerolog.Logger
}

// NewBackendLoginService delegates every attempt to the backend.
func NewBackendLoginService(backend BackendLogin, logger zerolog.Logger) *LoginService {
	return &LoginService{backend: backend, logger: logger}
}

// NewDirectoryLoginService matches attempts against directory and attaches
// preferences from prefs.
func NewDirectoryLoginService(directory ports.UserDirectory, prefs ports.PreferenceStore, logger zerolog.Logger) *LoginService {
	return &LoginService{directory: directory, prefs: prefs, logger: logger}
}

func (s *LoginService) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	creds.Email = strings.TrimSpace(creds.Email)
	if !creds.HasIdentifier() {
		return nil, domain.ErrMissingIdentifier
	}

	if s.directory == nil {
		result, err := s.backend.Login(ctx, creds)
		if err != nil {
			return nil, err
		}
		result.Preferences.Normalize()
		return result, nil
	}

	users, err := s.directory.ListTarsUsers(ctx)
	if err != nil {
		return nil, err
	}

	user := findUser(users, creds)
	if user == nil {
		s.logger.Info().
			Stringer("user_id", creds.UserID).
			Str("username", creds.Username).
			Str("email", creds.Email).
			Msg("login: no matching user")
		return nil, domain.ErrUserNotFound
	}
	if !user.Active {
		return nil, domain.ErrInactiveAccount
	}

	result := &domain.LoginResult{
		UserID:   user.UserID,
		ClientID: user.ClientID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	prefs, err := s.prefs.Preferences(ctx, user.UserID)
	switch {
	case err == nil && prefs != nil:
		result.Preferences = prefs.Lists()
	case err != nil && !isNotFound(err):
		s.logger.Warn().Err(err).Stringer("user_id", user.UserID).Msg("login: preferences unavailable, using empty lists")
	}
	result.Preferences.Normalize()

	s.logger.Info().Stringer("user_id", user.UserID).Str("role", user.Role).Msg("login succeeded")
	return result, nil
}

// findUser matches by user id, else username, else email. Name and email
// comparisons ignore case.
func findUser(users []domain.TarsUser, creds domain.Credentials) *domain.TarsUser {
	for i := range users {
		u := &users[i]
		switch {
		case creds.UserID != 0:
			if u.UserID == creds.UserID {
				return u
			}
		case creds.Username != "":
			if u.Username != "" && strings.EqualFold(u.Username, creds.Username) {
				return u
			}
		default:
			if u.Email != "" && strings.EqualFold(u.Email, creds.Email) {
				return u
			}
		}
	}
	return nil
}

// isNotFound reports whether err means the record does not exist.
func isNotFound(err error) bool {
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrPreferencesNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
