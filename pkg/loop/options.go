package loop

import (
	"io"
	"log/slog"
)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithName tags log records with the loop name.
func WithName(name string) Option {
	return func(l *Loop) {
		l.name = name
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
