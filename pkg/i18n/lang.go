package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the language code used when no language is detected.
const DefaultLanguage = "en"

// maxAcceptLanguageLength bounds the header we are willing to parse.
const maxAcceptLanguageLength = 4096

func newMatcher(langs []string) language.Matcher {
	tags := make([]language.Tag, len(langs))
	for i, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			tag = language.Und
		}
		tags[i] = tag
	}
	return language.NewMatcher(tags)
}

// matchHeader negotiates accept against langs. Only exact or high-confidence
// matches count, so "en-GB" selects "en" but "pt" never selects "es".
func matchHeader(m language.Matcher, langs []string, accept, def string) string {
	accept = strings.TrimSpace(accept)
	if accept == "" || len(langs) == 0 {
		return def
	}
	if len(accept) > maxAcceptLanguageLength {
		accept = accept[:maxAcceptLanguageLength]
	}

	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return def
	}

	// The matcher scores each desired tag in order; try them one by one so a
	// lower-priority exact match beats nothing.
	for _, tag := range desired {
		_, idx, conf := m.Match(tag)
		if conf >= language.High && idx >= 0 && idx < len(langs) {
			return langs[idx]
		}
	}
	return def
}

// ParseAcceptLanguage negotiates an Accept-Language header against the
// supported languages and returns the best match or defaultLang.
//
//	ParseAcceptLanguage("fr-CH, de;q=0.9, en;q=0.8", []string{"en", "de"}, "en") // "de"
func ParseAcceptLanguage(header string, supportedLangs []string, defaultLang string) string {
	if len(supportedLangs) == 0 {
		return defaultLang
	}
	return matchHeader(newMatcher(supportedLangs), supportedLangs, header, defaultLang)
}
