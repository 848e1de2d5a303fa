package domain

import "errors"

var (
	// ErrDuplicateUsername is returned when a principal with the same username exists.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is the single login failure. It deliberately does not
	// say whether the username or the secret was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("principal not found")

	// ErrInvalidCredentialFormat means a stored credential hash could not be parsed.
	ErrInvalidCredentialFormat = errors.New("stored credential has an invalid format")

	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("session not found")
)
