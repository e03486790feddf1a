package i18n

import (
	"net/http"
	"strings"
)

// LangExtractor determines the preferred language of a request.
type LangExtractor func(r *http.Request) string

// ExtractorConfig holds configuration for the language extractor.
type ExtractorConfig struct {
	CookieName     string
	QueryParamName string
	SupportedLangs []string
	DefaultLang    string
}

// ExtractorOption configures the language extractor.
type ExtractorOption func(*ExtractorConfig)

// WithCookieName sets the cookie checked for a language preference.
func WithCookieName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.CookieName = name
		}
	}
}

// WithQueryParamName sets the query parameter checked for a language.
func WithQueryParamName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.QueryParamName = name
		}
	}
}

// WithSupportedLanguages restricts results to langs.
func WithSupportedLanguages(langs ...string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if len(langs) > 0 {
			c.SupportedLangs = langs
		}
	}
}

// WithExtractorDefault sets the language returned when nothing matches.
func WithExtractorDefault(lang string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if lang != "" {
			c.DefaultLang = lang
		}
	}
}

// DefaultLangExtractor checks, in order, the "lang" cookie, the "lang" query
// parameter and the Accept-Language header. With supported languages set,
// each source is negotiated against them and unmatched values are skipped.
func DefaultLangExtractor(opts ...ExtractorOption) LangExtractor {
	cfg := &ExtractorConfig{
		CookieName:     "lang",
		QueryParamName: "lang",
		DefaultLang:    DefaultLanguage,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var negotiate func(string) string
	if len(cfg.SupportedLangs) > 0 {
		m := newMatcher(cfg.SupportedLangs)
		negotiate = func(v string) string { return matchHeader(m, cfg.SupportedLangs, v, "") }
	} else {
		negotiate = func(v string) string {
			if len(v) > 35 {
				return ""
			}
			lang, _, _ := strings.Cut(v, ",")
			lang, _, _ = strings.Cut(lang, ";")
			return strings.ToLower(strings.TrimSpace(lang))
		}
	}

	return func(r *http.Request) string {
		if cfg.CookieName != "" {
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if lang := negotiate(strings.TrimSpace(c.Value)); lang != "" {
					return lang
				}
			}
		}
		if cfg.QueryParamName != "" {
			if v := strings.TrimSpace(r.URL.Query().Get(cfg.QueryParamName)); v != "" {
				if lang := negotiate(v); lang != "" {
					return lang
				}
			}
		}
		if v := r.Header.Get("Accept-Language"); v != "" {
			if lang := negotiate(v); lang != "" {
				return lang
			}
		}
		return cfg.DefaultLang
	}
}

// Middleware stores the language chosen by extr in the request context.
// A nil extr uses DefaultLangExtractor().
func Middleware(extr LangExtractor) func(http.Handler) http.Handler {
	if extr == nil {
		extr = DefaultLangExtractor()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := extr(r)
			if lang == "" {
				lang = DefaultLanguage
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
