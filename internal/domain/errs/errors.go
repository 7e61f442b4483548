package errs

import "errors"

var (
	// ErrNotFound is returned when a resource is not found, when the caller
	// is not permitted to see it, or when a precondition on it fails. The
	// causes are deliberately collapsed so callers cannot probe for the
	// existence of threads they do not participate in.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a uniqueness constraint is violated
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input data is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthenticationFailed is returned on invalid credentials or tokens
	ErrAuthenticationFailed = errors.New("authentication failed")
)
