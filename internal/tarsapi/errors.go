package tarsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// ErrNotFound is matched by an *Error carrying an upstream 404.
var ErrNotFound = domain.ErrNotFound

// Error is returned by every Client method that fails, whether the backend
// answered with a non-2xx status or the request never completed.
type Error struct {
	// Op names the failed operation, e.g. "get user preferences".
	Op string
	// StatusCode is the upstream HTTP status, or 0 when no response arrived.
	StatusCode int
	// Message is the most specific description available.
	Message string
	// Err is the transport or decode error, if any.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// HTTPStatus is the status to answer the browser with: the backend's own
// 4xx/5xx, otherwise 500.
func (e *Error) HTTPStatus() int {
	if e.StatusCode >= http.StatusBadRequest && e.StatusCode <= 599 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// errorMessage picks the message for a failed response: the structured
// error or message field, then the raw body, then a generic status line.
func errorMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Sprintf("request failed with status code %d", status)
	}

	var structured struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &structured); err == nil {
		if structured.Error != "" {
			return structured.Error
		}
		if structured.Message != "" {
			return structured.Message
		}
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil && text != "" {
		return text
	}
	return string(trimmed)
}
