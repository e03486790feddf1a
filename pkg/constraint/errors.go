package constraint

import "errors"

var (
	// ErrUnknownValidator is returned when a rule names a validator that is not registered.
	ErrUnknownValidator = errors.New("constraint: unknown validator")

	// ErrInvalidOption is returned when a validator option has an unsupported shape.
	ErrInvalidOption = errors.New("constraint: invalid validator option")

	// ErrAsyncRejected wraps an error payload handed to a customAsync resolver.
	ErrAsyncRejected = errors.New("constraint: async validation rejected")
)
