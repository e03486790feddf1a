package i18n

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// Translator looks up translations loaded from an adapter.
type Translator struct {
	translations   map[string]map[string]any
	defaultLang    string
	fallbackToKey  bool
	logMissing     bool
	missingLevel   slog.Level
	logger         *slog.Logger
	mu             sync.RWMutex
	adapter        TranslationAdapter

	langs   []string
	matcher language.Matcher
}

// NewTranslator loads translations from adapter.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, options ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        logger.Discard(),
		adapter:       adapter,
	}
	for _, option := range options {
		option(t)
	}

	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload fetches translations from the adapter again and swaps them in.
func (t *Translator) Reload(ctx context.Context) error {
	translations, err := t.adapter.Load(ctx)
	if err != nil {
		return err
	}
	if err := validateTranslations(translations); err != nil {
		return err
	}
	if len(translations) == 0 {
		t.logger.WarnContext(ctx, "No translations provided")
	}

	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	langs = orderLanguages(langs, t.defaultLang)

	t.mu.Lock()
	t.translations = translations
	t.langs = langs
	t.matcher = newMatcher(langs)
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "Translations loaded", slog.Any("languages", langs))
	return nil
}

func validateTranslations(trans map[string]map[string]any) error {
	for lang, tree := range trans {
		if lang == "" {
			return ErrEmptyLanguageCode
		}
		if tree == nil {
			return fmt.Errorf("%w: nil translations for %q", ErrInvalidStructure, lang)
		}
	}
	return nil
}

// orderLanguages sorts langs and moves def to the front, where the matcher
// treats it as the fallback.
func orderLanguages(langs []string, def string) []string {
	sort.Strings(langs)
	for i, l := range langs {
		if l == def {
			copy(langs[1:i+1], langs[:i])
			langs[0] = def
			break
		}
	}
	return langs
}

// SupportedLanguages returns the loaded language codes, default first.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.langs...)
}

// DefaultLanguage returns the language used when nothing matches.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Match negotiates an Accept-Language header (or a single code) against the
// loaded languages and returns the best one, or the default language.
func (t *Translator) Match(accept string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return matchHeader(t.matcher, t.langs, accept, t.defaultLang)
}

func (t *Translator) getTranslation(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := m

	for i, part := range parts {
		if i == len(parts)-1 {
			val, ok := current[part]
			return val, ok
		}

		next, ok := current[part]
		if !ok {
			return nil, false
		}

		currentMap, ok := next.(map[string]any)
		if !ok {
			anyMap, isAnyMap := next.(map[any]any)
			if !isAnyMap {
				return nil, false
			}
			currentMap = make(map[string]any, len(anyMap))
			for k, v := range anyMap {
				if ks, ok := k.(string); ok {
					currentMap[ks] = v
				}
			}
		}
		current = currentMap
	}

	return nil, false
}

// lookup finds a string translation in lang, then in the default language.
func (t *Translator) lookup(lang, key string) (string, bool) {
	for _, l := range []string{lang, t.defaultLang} {
		tree, ok := t.translations[l]
		if !ok {
			continue
		}
		val, ok := t.getTranslation(tree, key)
		if !ok {
			continue
		}
		switch v := val.(type) {
		case string:
			return v, true
		case fmt.Stringer:
			return v.String(), true
		default:
			if t.logMissing {
				t.logger.Log(context.Background(), t.missingLevel, "Translation is not a string",
					slog.String("lang", l), slog.String("key", key), slog.String("type", fmt.Sprintf("%T", v)))
			}
			return "", false
		}
	}
	if t.logMissing {
		t.logger.Log(context.Background(), t.missingLevel, "Translation not found",
			slog.String("lang", lang), slog.String("key", key))
	}
	return "", false
}

// HasTranslation reports whether lang itself has a translation for key.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tree, ok := t.translations[lang]
	if !ok {
		return false
	}
	_, ok = t.getTranslation(tree, key)
	return ok
}

func buildParams(args []string) map[string]string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		params[args[i]] = args[i+1]
	}
	return params
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// namedSprintf replaces %{name} placeholders; unknown ones are kept.
func namedSprintf(tmpl string, params map[string]string) string {
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

// T translates key for lang, substituting key/value pairs from args:
//
//	tr.T("en", "welcome", "name", "John") // "Hello, John!"
//
// A missing translation falls back to the default language and then to the
// key itself, or to "" when WithFallbackToKey(false) is set.
func (t *Translator) T(lang, key string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if tmpl, ok := t.lookup(lang, key); ok {
		return namedSprintf(tmpl, buildParams(args))
	}
	if t.fallbackToKey {
		return namedSprintf(key, buildParams(args))
	}
	return ""
}

// Td translates key with an explicit fallback template.
func (t *Translator) Td(lang, key, defaultValue string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if tmpl, ok := t.lookup(lang, key); ok {
		return namedSprintf(tmpl, buildParams(args))
	}
	return namedSprintf(defaultValue, buildParams(args))
}

// Tc translates key using the language stored in ctx by Middleware.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}

// Messages returns a constraint.Translator rendering validation messages in
// lang. Keys without a translation report false so the built-in English
// message is kept.
func (t *Translator) Messages(lang string) constraint.Translator {
	return constraint.TranslatorFunc(func(key string, params map[string]any) (string, bool) {
		t.mu.RLock()
		defer t.mu.RUnlock()

		tmpl, ok := t.lookup(lang, key)
		if !ok {
			return "", false
		}
		str := make(map[string]string, len(params))
		for k, v := range params {
			str[k] = fmt.Sprint(v)
		}
		return namedSprintf(tmpl, str), true
	})
}

// MessagesContext is Messages for the language stored in ctx.
func (t *Translator) MessagesContext(ctx context.Context) constraint.Translator {
	return t.Messages(GetLocale(ctx))
}

// Catalogue returns a copy of the translation tree for lang.
func (t *Translator) Catalogue(lang string) (map[string]any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tree, ok := t.translations[lang]
	if !ok {
		return nil, errors.Join(ErrLanguageNotSupported, fmt.Errorf("language %q", lang))
	}
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = v
	}
	return out, nil
}
