package shared

import "errors"

var (
	// ErrNotFound indicates a missing record. Ownership checks surface it
	// for foreign records as well, so callers cannot probe other accounts.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login or bearer-token failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail indicates a registration conflict.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidVerification indicates an unknown or already consumed
	// email-verification token.
	ErrInvalidVerification = errors.New("invalid or consumed verification token")
)
