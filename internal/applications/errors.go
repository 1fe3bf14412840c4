package applications

import "errors"

var (
	// ErrNotFound means no application row exists for the reference number.
	ErrNotFound = errors.New("application not found")
	// ErrInvalidInput rejects a submission before any store is touched.
	ErrInvalidInput = errors.New("invitation code is required")
	// ErrBadTransition rejects a status write outside the transition table.
	ErrBadTransition = errors.New("status transition not permitted")
)
