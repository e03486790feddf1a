package i18n_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/i18n"
)

var catalogueFS = fstest.MapFS{
	"en.yaml": {Data: []byte(`
en:
  welcome: "Hello, %{name}!"
  validation:
    presence: "can't be blank"
    length:
      too_short: "is too short (minimum is %{count} characters)"
`)},
	"de.json": {Data: []byte(`{
  "de": {
    "welcome": "Hallo, %{name}!",
    "validation": {"presence": "darf nicht leer sein"}
  }
}`)},
	"README.md": {Data: []byte("ignored")},
}

func newTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(context.Background(), i18n.NewFSAdapter(catalogueFS), opts...)
	require.NoError(t, err)
	return tr
}

func TestNewTranslator(t *testing.T) {
	t.Parallel()

	t.Run("loads every catalogue file", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		assert.Equal(t, []string{"en", "de"}, tr.SupportedLanguages())
	})

	t.Run("nil adapter", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewTranslator(context.Background(), nil)
		assert.ErrorIs(t, err, i18n.ErrNilAdapter)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"bad.yaml": {Data: []byte("en: [unclosed")}}
		_, err := i18n.NewTranslator(context.Background(), i18n.NewFSAdapter(fsys))
		assert.ErrorIs(t, err, i18n.ErrFailedToParseYAML)
	})

	t.Run("language value must be a map", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"bad.json": {Data: []byte(`{"en": "oops"}`)}}
		_, err := i18n.NewTranslator(context.Background(), i18n.NewFSAdapter(fsys))
		assert.ErrorIs(t, err, i18n.ErrInvalidStructure)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := i18n.NewTranslator(ctx, i18n.NewFSAdapter(catalogueFS))
		assert.ErrorIs(t, err, i18n.ErrLoadingCancelled)
	})
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	tests := []struct {
		name string
		lang string
		key  string
		args []string
		want string
	}{
		{"substitutes params", "en", "welcome", []string{"name", "Ann"}, "Hello, Ann!"},
		{"other language", "de", "welcome", []string{"name", "Ann"}, "Hallo, Ann!"},
		{"nested key", "en", "validation.length.too_short", []string{"count", "3"}, "is too short (minimum is 3 characters)"},
		{"falls back to default language", "de", "validation.length.too_short", []string{"count", "3"}, "is too short (minimum is 3 characters)"},
		{"unknown language uses default", "fr", "welcome", []string{"name", "Ann"}, "Hello, Ann!"},
		{"missing key returns key", "en", "nope.missing", nil, "nope.missing"},
		{"unknown placeholder kept", "en", "welcome", nil, "Hello, %{name}!"},
		{"odd args ignore the last", "en", "welcome", []string{"name", "Ann", "extra"}, "Hello, Ann!"},
		{"non-string node returns key", "en", "validation.length", nil, "validation.length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tr.T(tt.lang, tt.key, tt.args...))
		})
	}

	t.Run("no fallback to key", func(t *testing.T) {
		t.Parallel()
		strict := newTranslator(t, i18n.WithFallbackToKey(false))
		assert.Empty(t, strict.T("en", "nope"))
	})

	t.Run("missing keys are logged at the configured level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		logged := newTranslator(t, i18n.WithLogger(l), i18n.WithMissingTranslationsLogging(slog.LevelDebug))
		buf.Reset()
		assert.Equal(t, "nope", logged.T("de", "nope"))
		out := buf.String()
		assert.Contains(t, out, `"level":"DEBUG"`)
		assert.Contains(t, out, `"msg":"Translation not found"`)
		assert.Contains(t, out, `"key":"nope"`)
		assert.Contains(t, out, `"component":"i18n"`)
	})

	t.Run("misses are silent by default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		quiet := newTranslator(t, i18n.WithLogger(l))
		buf.Reset()
		quiet.T("de", "nope")
		assert.Empty(t, buf.String())
	})

	t.Run("nil logger and bad default language are ignored", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t, i18n.WithLogger(nil), i18n.WithDefaultLanguage("not a tag!"),
			i18n.WithMissingTranslationsLogging(slog.LevelWarn))
		assert.Equal(t, "en", tr.DefaultLanguage())
		assert.Equal(t, "nope", tr.T("en", "nope"))
	})

	t.Run("default language is canonicalized", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t, i18n.WithDefaultLanguage("DE"))
		assert.Equal(t, "de", tr.DefaultLanguage())
		assert.Equal(t, "Hallo, Ann!", tr.T("fr", "welcome", "name", "Ann"))
	})

	t.Run("Td uses explicit default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Hi Bo", tr.Td("en", "nope", "Hi %{name}", "name", "Bo"))
	})

	t.Run("Tc reads the context language", func(t *testing.T) {
		t.Parallel()
		ctx := i18n.SetLocale(context.Background(), "de")
		assert.Equal(t, "Hallo, Ann!", tr.Tc(ctx, "welcome", "name", "Ann"))
	})

	t.Run("HasTranslation is language specific", func(t *testing.T) {
		t.Parallel()
		assert.True(t, tr.HasTranslation("de", "welcome"))
		assert.False(t, tr.HasTranslation("de", "validation.length.too_short"))
		assert.False(t, tr.HasTranslation("fr", "welcome"))
	})

	t.Run("Catalogue", func(t *testing.T) {
		t.Parallel()
		cat, err := tr.Catalogue("de")
		require.NoError(t, err)
		assert.Equal(t, "Hallo, %{name}!", cat["welcome"])

		_, err = tr.Catalogue("fr")
		assert.ErrorIs(t, err, i18n.ErrLanguageNotSupported)
	})
}

func TestTranslator_Messages(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)
	ev := constraint.New()

	rules := constraint.Rules{
		"name":     {"presence": map[string]any{"allowEmpty": false}},
		"password": {"length": map[string]any{"minimum": 8}},
		"email":    {"email": true},
	}
	values := constraint.Values{"password": constraint.Some("abc"), "email": constraint.Some("nope")}

	t.Run("german with english fallback", func(t *testing.T) {
		t.Parallel()
		err := ev.Validate(values, rules, constraint.Options{Translator: tr.Messages("de")})
		errs, ok := constraint.AsErrors(err)
		require.True(t, ok)
		assert.Equal(t, []string{"darf nicht leer sein"}, errs["name"])
		assert.Equal(t, []string{"is too short (minimum is 8 characters)"}, errs["password"])
		assert.Equal(t, []string{"is not a valid email"}, errs["email"])
	})

	t.Run("context language", func(t *testing.T) {
		t.Parallel()
		ctx := i18n.SetLocale(context.Background(), "de")
		msg, ok := tr.MessagesContext(ctx).Translate("validation.presence", nil)
		assert.True(t, ok)
		assert.Equal(t, "darf nicht leer sein", msg)
	})

	t.Run("missing key reports false", func(t *testing.T) {
		t.Parallel()
		_, ok := tr.Messages("en").Translate("validation.custom", nil)
		assert.False(t, ok)
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"de", "de"},
		{"de-CH,de;q=0.9,en;q=0.5", "de"},
		{"en-GB", "en"},
		{"fr-CH, de;q=0.9, en;q=0.8", "de"},
		{"fr", "en"},
		{"en;q=0.3, de;q=0.8", "de"},
		{"*", "en"},
		{";;;", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tr.Match(tt.header))
		})
	}

	t.Run("ParseAcceptLanguage", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "de", i18n.ParseAcceptLanguage("de-AT", []string{"en", "de"}, "en"))
		assert.Equal(t, "xx", i18n.ParseAcceptLanguage("de", nil, "xx"))
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	extr := i18n.DefaultLangExtractor(i18n.WithSupportedLanguages("en", "de"))
	var got string
	h := i18n.Middleware(extr)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = i18n.GetLocale(r.Context())
	}))

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"accept-language", func(r *http.Request) { r.Header.Set("Accept-Language", "de-DE,de;q=0.9") }, "de"},
		{"cookie wins over header", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
			r.Header.Set("Accept-Language", "de")
		}, "en"},
		{"query wins over header", func(r *http.Request) {
			r.URL.RawQuery = "lang=de"
			r.Header.Set("Accept-Language", "en")
		}, "de"},
		{"unsupported cookie is skipped", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "lang", Value: "fr"})
			r.Header.Set("Accept-Language", "de")
		}, "de"},
		{"nothing matches", func(r *http.Request) { r.Header.Set("Accept-Language", "ja") }, "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			h.ServeHTTP(httptest.NewRecorder(), r)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("without supported languages", func(t *testing.T) {
		var lang string
		h := i18n.Middleware(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			lang = i18n.GetLocale(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "PT-br;q=0.9")
		h.ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, "pt-br", lang)
	})
}

func TestGetLocale_Default(t *testing.T) {
	t.Parallel()
	assert.Equal(t, i18n.DefaultLanguage, i18n.GetLocale(context.Background()))

	_, ok := i18n.LocaleFrom(context.Background())
	assert.False(t, ok)

	lang, ok := i18n.LocaleFrom(i18n.SetLocale(context.Background(), "uk"))
	assert.True(t, ok)
	assert.Equal(t, "uk", lang)
}
