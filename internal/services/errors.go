package services

import "errors"

// Service-level failures the transport layer maps onto HTTP statuses.
// Storage errors other than these propagate unchanged and surface as
// generic server errors.
var (
	// ErrValidation marks a missing or malformed input. Wrap it with the
	// field-specific message.
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken is returned when the requested email belongs to
	// another account.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned on any login failure. Unknown
	// email and wrong password deliberately share this error so the
	// response never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when a user attempts to mutate state
	// they do not own.
	ErrForbidden = errors.New("forbidden")
)
