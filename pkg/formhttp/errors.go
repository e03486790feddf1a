package formhttp

import "errors"

var (
	ErrRulesetNotFound = errors.New("rule set not found")
	ErrSessionNotFound = errors.New("form session not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrStreamRequired  = errors.New("stream endpoint requires an event-stream request")
)
