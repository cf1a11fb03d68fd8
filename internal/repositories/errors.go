package repositories

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound means the document does not exist. Absence is a normal
	// outcome, distinct from a backend failure.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable marks the connectivity class: the backend is
	// unreachable or offline. This class is recoverable-and-expected; callers
	// degrade to local state instead of failing.
	ErrUnavailable = errors.New("document store unavailable")
)

// Message shapes that identify the connectivity class when drivers do not
// wrap ErrUnavailable themselves.
var unavailableHints = []string{
	"unavailable",
	"offline",
	"connection refused",
	"connection reset",
	"failed to get document",
	"i/o timeout",
	"no such host",
	"database is closed",
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err belongs to the offline/unavailable class.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range unavailableHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
