package formhttp

import (
	"log/slog"

	"github.com/dmitrymomot/formvalidate/pkg/form"
	"github.com/dmitrymomot/formvalidate/pkg/i18n"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces the default configuration. Zero fields keep defaults.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		def := DefaultConfig()
		if cfg.MaxSessions <= 0 {
			cfg.MaxSessions = def.MaxSessions
		}
		if cfg.SettleTimeout <= 0 {
			cfg.SettleTimeout = def.SettleTimeout
		}
		if cfg.StreamBuffer <= 0 {
			cfg.StreamBuffer = def.StreamBuffer
		}
		if cfg.MaxBodySize <= 0 {
			cfg.MaxBodySize = def.MaxBodySize
		}
		s.cfg = cfg
	}
}

// WithLogger sets the logger. If nil, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l == nil {
			l = logger.Discard()
		}
		s.logger = l
	}
}

// WithTranslator renders validation messages in the request language
// negotiated by i18n.Middleware.
func WithTranslator(tr *i18n.Translator) Option {
	return func(s *Service) { s.translator = tr }
}

// WithFullMessages prefixes messages with the field label for every rule set,
// in addition to rule sets that set full_messages themselves.
func WithFullMessages(on bool) Option {
	return func(s *Service) { s.fullMessages = on }
}

// WithFormOptions adds options to every form the service creates, e.g.
// form.WithAsyncTimeout or form.WithErrorHandler.
func WithFormOptions(opts ...form.Option) Option {
	return func(s *Service) { s.formOpts = append(s.formOpts, opts...) }
}

// WithViews replaces the HTML fragments rendered for htmx and DataStar.
func WithViews(v Views) Option {
	return func(s *Service) {
		if v.Feedback != nil {
			s.views.Feedback = v.Feedback
		}
	}
}
