package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Unknown email and wrong
	// password both map here so responses cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAlreadyRegistered occurs when a registration reuses an existing email.
	ErrAlreadyRegistered = errors.New("email already registered")
)
