package service

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated means the acting user could not be resolved, e.g. a
	// token whose account has since been deleted.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation wraps every malformed-submission failure; handlers map it
	// to a 400 with the wrapped detail.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyProcessed is the reported no-op outcome when a request was
	// resolved before this call. It is not a failure.
	ErrAlreadyProcessed = errors.New("already_processed")

	// ErrInvariant marks a caller bug in image ownership handling. It should
	// never surface in normal operation.
	ErrInvariant = errors.New("image ownership invariant violated")
)
