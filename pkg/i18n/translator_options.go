package i18n

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language every lookup falls back to and that
// Match returns when nothing in Accept-Language is supported. The tag is
// canonicalized ("EN-us" becomes "en-US"); an unparsable tag keeps "en".
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if tag, err := language.Parse(lang); err == nil {
			t.defaultLang = tag.String()
		}
	}
}

// WithFallbackToKey controls what T returns for a missing key: the key
// itself (the default) or "". Messages is unaffected: a missing validation
// message always keeps the built-in English text.
func WithFallbackToKey(fallback bool) Option {
	return func(t *Translator) { t.fallbackToKey = fallback }
}

// WithLogger sets the logger. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l == nil {
			l = logger.Discard()
		}
		t.logger = l.With(logger.Component("i18n"))
	}
}

// WithMissingTranslationsLogging logs every lookup miss at level. Misses are
// routine for validation messages a catalogue does not override, so Debug
// suits most deployments. Off by default.
func WithMissingTranslationsLogging(level slog.Level) Option {
	return func(t *Translator) {
		t.logMissing = true
		t.missingLevel = level
	}
}
