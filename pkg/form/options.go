package form

import (
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// RenderFunc receives aggregate validity and a snapshot of every control after
// each validity-affecting change. It runs on the form's loop goroutine.
type RenderFunc func(valid bool, controls map[string]Control)

// ErrorHandler receives programming errors raised by asynchronous validations:
// malformed rules, rejected resolvers and timeouts. It runs on the form's loop goroutine.
type ErrorHandler func(field string, err error)

// Option configures a Form.
type Option func(*Form)

// WithDefaults sets initial values. An empty default is stored as absent.
func WithDefaults(defaults map[string]string) Option {
	return func(f *Form) {
		f.defaults = maps.Clone(defaults)
	}
}

// WithOptions sets the message options passed to the evaluator.
func WithOptions(opts constraint.Options) Option {
	return func(f *Form) {
		f.opts = opts
	}
}

// WithEvaluator replaces the default rule evaluator.
func WithEvaluator(ev *constraint.Evaluator) Option {
	return func(f *Form) {
		if ev != nil {
			f.evaluator = ev
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithAsyncTimeout bounds every asynchronous validation. Zero disables the bound.
func WithAsyncTimeout(d time.Duration) Option {
	if d < 0 {
		panic("WithAsyncTimeout: duration must be >= 0")
	}
	return func(f *Form) {
		f.asyncTimeout = d
	}
}

// WithErrorHandler sets the sink for asynchronous programming errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(f *Form) {
		if h != nil {
			f.onError = h
		}
	}
}

// WithAsyncFailureMessage makes a rejected or timed-out asynchronous
// validation leave msg as the field's error, so the form stays invalid until
// the field is validated again. By default such a field ends with no errors.
// The ErrorHandler is called either way.
func WithAsyncFailureMessage(msg string) Option {
	return func(f *Form) {
		f.failMessage = msg
	}
}

// WithRender registers the render callback at construction, so the initial
// validation is reported too.
func WithRender(fn RenderFunc) Option {
	return func(f *Form) {
		f.render = fn
	}
}

// WithConfig applies an env-loaded Config.
func WithConfig(cfg Config) Option {
	return func(f *Form) {
		if cfg.AsyncTimeout >= 0 {
			f.asyncTimeout = cfg.AsyncTimeout
		}
		f.opts.FullMessages = cfg.FullMessages
	}
}

func defaultErrorHandler(log *slog.Logger, id string) ErrorHandler {
	return func(field string, err error) {
		log.Error("asynchronous validation failed",
			logger.FormID(id),
			logger.Field(field),
			logger.Error(err))
	}
}
