package form

import "errors"

var (
	// ErrSuperseded is the cancellation cause of an asynchronous validation
	// replaced by a newer one for the same field. It never reaches a control.
	ErrSuperseded = errors.New("validation superseded by a newer request")

	// ErrAsyncTimeout is the cancellation cause of an asynchronous validation
	// that did not settle within the configured timeout.
	ErrAsyncTimeout = errors.New("asynchronous validation timed out")

	// ErrControlRemoved cancels the validation of a control removed while it was pending.
	ErrControlRemoved = errors.New("control removed")

	// ErrReset cancels pending validations when the form is reset.
	ErrReset = errors.New("form reset")

	// ErrClosed is returned by operations on a closed form.
	ErrClosed = errors.New("form is closed")

	// ErrControlExists is returned when adding a control that is already registered.
	ErrControlExists = errors.New("control already exists")

	// ErrEmptyControlName is returned when adding a control without a name.
	ErrEmptyControlName = errors.New("control name cannot be empty")

	// ErrInvalidEvent is returned when a change event cannot be decoded.
	ErrInvalidEvent = errors.New("invalid change event")
)
