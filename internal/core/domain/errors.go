package domain

import "errors"

var (
	// ErrNotFound is matched by any lookup miss, local or upstream.
	ErrNotFound = errors.New("not found")

	ErrMissingIdentifier    = errors.New("username, email, or userId is required")
	ErrUserNotFound         = errors.New("user not found")
	ErrInactiveAccount      = errors.New("user account is inactive")
	ErrPreferencesNotFound  = errors.New("preferences not found")
	ErrClientIDNotAssigned  = errors.New("backend did not assign a client id")
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
)
