package constraint

import (
	"strings"
	"unicode"
)

// Translator resolves a message key into a localized message.
type Translator interface {
	Translate(key string, params map[string]any) (string, bool)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(key string, params map[string]any) (string, bool)

func (f TranslatorFunc) Translate(key string, params map[string]any) (string, bool) {
	return f(key, params)
}

// Options tune message rendering for a single evaluation.
type Options struct {
	// FullMessages prefixes every message with the prettified field name
	// unless the message starts with "^".
	FullMessages bool
	// Translator, when set, replaces default messages by key.
	Translator Translator
}

// Violation is a failed check before it is rendered into a message.
// Violations without a Key carry caller-supplied text and are never translated.
type Violation struct {
	Key     string
	Message string
	Params  map[string]any
}

func (o Options) render(field string, v Violation, override string) string {
	msg := v.Message
	switch {
	case override != "":
		msg = override
	case o.Translator != nil && v.Key != "":
		if tr, ok := o.Translator.Translate(v.Key, withField(v.Params, field)); ok && tr != "" {
			msg = tr
		}
	}
	return o.decorate(field, msg)
}

func (o Options) decorate(field, msg string) string {
	if rest, ok := strings.CutPrefix(msg, "^"); ok {
		return rest
	}
	if !o.FullMessages || msg == "" {
		return msg
	}
	return Prettify(field) + " " + msg
}

func withField(params map[string]any, field string) map[string]any {
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out["field"] = field
	return out
}

// Prettify turns a field name into a human label: "first_name" and
// "firstName" both become "First name".
func Prettify(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if out == "" {
		return out
	}
	runes := []rune(out)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
