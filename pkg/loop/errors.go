package loop

import "errors"

var (
	// ErrClosed is returned when posting to a closed loop.
	ErrClosed = errors.New("loop is closed")

	// ErrNilTask is returned when posting a nil task.
	ErrNilTask = errors.New("task cannot be nil")
)
