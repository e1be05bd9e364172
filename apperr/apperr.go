// Package apperr defines the error taxonomy shared by the catalog,
// playlist and export services. Handlers map these kinds to HTTP
// status codes; infrastructure failures stay plain errors.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced entity id has no matching row.
	ErrNotFound = errors.New("not found")

	// ErrInvariant means a uniqueness or precondition constraint was
	// violated (duplicate like, duplicate collaboration, duplicate
	// playlist song, duplicate username, removing a missing edge).
	ErrInvariant = errors.New("invariant violation")

	// ErrAuthorization means the caller lacks the required grant.
	ErrAuthorization = errors.New("not authorized")
)

// NotFound wraps ErrNotFound with a message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Invariant wraps ErrInvariant with a message.
func Invariant(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvariant)...)
}

// Authorization wraps ErrAuthorization with a message.
func Authorization(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrAuthorization)...)
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvariant reports whether err is an ErrInvariant.
func IsInvariant(err error) bool { return errors.Is(err, ErrInvariant) }

// IsAuthorization reports whether err is an ErrAuthorization.
func IsAuthorization(err error) bool { return errors.Is(err, ErrAuthorization) }
