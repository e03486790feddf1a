package async

import "errors"

var (
	ErrTimeout  = errors.New("async: operation timed out waiting for future completion")
	ErrRejected = errors.New("async: promise rejected")
)
