// Package i18n translates validation messages and other strings from
// catalogues stored in YAML or JSON files.
//
// A catalogue file maps language codes to nested translation trees:
//
//	en:
//	  validation:
//	    presence: can't be blank
//	    length:
//	      too_short: is too short (minimum is %{count} characters)
//	de:
//	  validation:
//	    presence: darf nicht leer sein
//
// Keys are looked up with dot notation and named placeholders (%{name}) are
// substituted from the arguments.
//
// # Usage
//
//	tr, err := i18n.NewTranslator(ctx, i18n.NewFSAdapter(os.DirFS("./locales")),
//		i18n.WithDefaultLanguage("en"),
//	)
//	if err != nil {
//		return err
//	}
//
//	lang := tr.Match("de-CH,de;q=0.9,en;q=0.5") // "de"
//	opts := constraint.Options{Translator: tr.Messages(lang)}
//
// Language negotiation uses golang.org/x/text/language, so regional variants
// fall back to their base language ("en-GB" matches "en").
//
// # HTTP Middleware
//
// Middleware stores the negotiated language in the request context; Tc and
// MessagesContext read it back:
//
//	r.Use(i18n.Middleware(i18n.DefaultLangExtractor(
//		i18n.WithSupportedLanguages(tr.SupportedLanguages()...),
//	)))
package i18n
