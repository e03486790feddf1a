package i18n

import "context"

type localeKey struct{}

// SetLocale returns a context carrying lang. Middleware calls it for every
// request.
func SetLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, localeKey{}, lang)
}

// LocaleFrom returns the language stored by SetLocale.
func LocaleFrom(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(localeKey{}).(string)
	return lang, ok && lang != ""
}

// GetLocale is LocaleFrom falling back to DefaultLanguage.
func GetLocale(ctx context.Context) string {
	if lang, ok := LocaleFrom(ctx); ok {
		return lang
	}
	return DefaultLanguage
}
