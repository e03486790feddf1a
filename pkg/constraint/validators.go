package constraint

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/formvalidate/pkg/cache"
)

// Input is everything a validator sees for one field.
type Input struct {
	Field  string
	Value  Value
	Values Values
	Option any
}

// ValidatorFunc checks one field against one option and returns its violations.
// An error means the option itself is unusable.
type ValidatorFunc func(in Input) ([]Violation, error)

// CustomFunc computes the message of a custom rule; an empty result passes.
type CustomFunc func(field string, value Value, values Values) string

func presence(in Input) ([]Violation, error) {
	allowEmpty := true
	switch opt := in.Option.(type) {
	case bool:
		if !opt {
			return nil, nil
		}
	default:
		m, ok := asMap(opt)
		if !ok {
			return nil, fmt.Errorf("%w: presence expects bool or map, got %T", ErrInvalidOption, opt)
		}
		if v, ok := m["allowEmpty"].(bool); ok {
			allowEmpty = v
		}
	}

	if !in.Value.Valid || (!allowEmpty && in.Value.Blank()) {
		return []Violation{{Key: "validation.presence", Message: "can't be blank"}}, nil
	}
	return nil, nil
}

func length(in Input) ([]Violation, error) {
	m, ok := asMap(in.Option)
	if !ok {
		return nil, fmt.Errorf("%w: length expects a map, got %T", ErrInvalidOption, in.Option)
	}

	is, hasIs, err := number(m, "is")
	if err != nil {
		return nil, err
	}
	minimum, hasMin, err := number(m, "minimum")
	if err != nil {
		return nil, err
	}
	maximum, hasMax, err := number(m, "maximum")
	if err != nil {
		return nil, err
	}

	n := float64(utf8.RuneCountInString(in.Value.String))
	var out []Violation
	if hasIs && n != is {
		out = append(out, lengthViolation(m, "wrongLength", "validation.length.wrong_length",
			"is the wrong length (should be %d characters)", is))
	}
	if hasMin && n < minimum {
		out = append(out, lengthViolation(m, "tooShort", "validation.length.too_short",
			"is too short (minimum is %d characters)", minimum))
	}
	if hasMax && n > maximum {
		out = append(out, lengthViolation(m, "tooLong", "validation.length.too_long",
			"is too long (maximum is %d characters)", maximum))
	}
	return out, nil
}

func lengthViolation(m map[string]any, custom, key, format string, count float64) Violation {
	msg := fmt.Sprintf(format, int(count))
	if s, ok := m[custom].(string); ok && s != "" {
		msg = strings.ReplaceAll(s, "%{count}", strconv.Itoa(int(count)))
	}
	return Violation{Key: key, Message: msg, Params: map[string]any{"count": int(count)}}
}

// patternCache holds compiled format patterns; rule sets are finite, the
// bound only guards against patterns built from user input.
var patternCache = cache.NewLRUCache[string, *regexp.Regexp](256)

func compilePattern(pattern, flags string) (*regexp.Regexp, error) {
	expr := "^(?:" + pattern + ")$"
	if strings.Contains(flags, "i") {
		expr = "(?i)" + expr
	}
	if re, ok := patternCache.Get(expr); ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: format pattern %q: %v", ErrInvalidOption, pattern, err)
	}
	patternCache.Put(expr, re)
	return re, nil
}

func format(in Input) ([]Violation, error) {
	var pattern, flags string
	switch opt := in.Option.(type) {
	case string:
		pattern = opt
	default:
		m, ok := asMap(opt)
		if !ok {
			return nil, fmt.Errorf("%w: format expects a pattern or map, got %T", ErrInvalidOption, opt)
		}
		pattern, _ = m["pattern"].(string)
		flags, _ = m["flags"].(string)
	}
	if pattern == "" {
		return nil, fmt.Errorf("%w: format requires a pattern", ErrInvalidOption)
	}

	re, err := compilePattern(pattern, flags)
	if err != nil {
		return nil, err
	}
	if re.MatchString(in.Value.String) {
		return nil, nil
	}
	return []Violation{{Key: "validation.format", Message: "is invalid"}}, nil
}

var emailPattern = regexp.MustCompile("(?i)^[a-z0-9\\x{007F}-\\x{ffff}!#$%&'*+/=?^_`{|}~-]+" +
	"(?:\\.[a-z0-9\\x{007F}-\\x{ffff}!#$%&'*+/=?^_`{|}~-]+)*" +
	"@(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\\.)+[a-z]{2,}$")

func email(in Input) ([]Violation, error) {
	if !Truthy(in.Option) {
		return nil, nil
	}
	if emailPattern.MatchString(in.Value.String) {
		return nil, nil
	}
	return []Violation{{Key: "validation.email", Message: "is not a valid email"}}, nil
}

func numericality(in Input) ([]Violation, error) {
	if !Truthy(in.Option) {
		return nil, nil
	}
	m, _ := asMap(in.Option)

	n, err := strconv.ParseFloat(strings.TrimSpace(in.Value.String), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return []Violation{{Key: "validation.numericality.not_a_number", Message: "is not a number"}}, nil
	}
	integer := n == math.Trunc(n)
	if boolean(m, "onlyInteger") && !integer {
		return []Violation{{Key: "validation.numericality.not_integer", Message: "must be an integer"}}, nil
	}

	checks := []struct {
		option string
		key    string
		text   string
		fails  func(n, bound float64) bool
	}{
		{"greaterThan", "greater_than", "must be greater than %s", func(n, b float64) bool { return n <= b }},
		{"greaterThanOrEqualTo", "greater_than_or_equal_to", "must be greater than or equal to %s", func(n, b float64) bool { return n < b }},
		{"equalTo", "equal_to", "must be equal to %s", func(n, b float64) bool { return n != b }},
		{"lessThan", "less_than", "must be less than %s", func(n, b float64) bool { return n >= b }},
		{"lessThanOrEqualTo", "less_than_or_equal_to", "must be less than or equal to %s", func(n, b float64) bool { return n > b }},
	}

	var out []Violation
	for _, c := range checks {
		bound, ok, err := number(m, c.option)
		if err != nil {
			return nil, err
		}
		if ok && c.fails(n, bound) {
			out = append(out, Violation{
				Key:     "validation.numericality." + c.key,
				Message: fmt.Sprintf(c.text, formatNumber(bound)),
				Params:  map[string]any{"count": bound},
			})
		}
	}
	if boolean(m, "odd") && (!integer || int64(n)%2 == 0) {
		out = append(out, Violation{Key: "validation.numericality.odd", Message: "must be odd"})
	}
	if boolean(m, "even") && (!integer || int64(n)%2 != 0) {
		out = append(out, Violation{Key: "validation.numericality.even", Message: "must be even"})
	}
	return out, nil
}

func within(opt any, name string) ([]string, error) {
	if l, ok := stringList(opt); ok {
		return l, nil
	}
	if m, ok := asMap(opt); ok {
		if l, ok := stringList(m["within"]); ok {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s expects a list or {within: [...]}, got %T", ErrInvalidOption, name, opt)
}

func inclusion(in Input) ([]Violation, error) {
	list, err := within(in.Option, KeyInclusion)
	if err != nil {
		return nil, err
	}
	if slices.Contains(list, in.Value.String) {
		return nil, nil
	}
	return []Violation{{
		Key:     "validation.inclusion",
		Message: fmt.Sprintf("^%s is not included in the list", in.Value.String),
		Params:  map[string]any{"value": in.Value.String},
	}}, nil
}

func exclusion(in Input) ([]Violation, error) {
	list, err := within(in.Option, KeyExclusion)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(list, in.Value.String) {
		return nil, nil
	}
	return []Violation{{
		Key:     "validation.exclusion",
		Message: fmt.Sprintf("^%s is restricted", in.Value.String),
		Params:  map[string]any{"value": in.Value.String},
	}}, nil
}

func equality(in Input) ([]Violation, error) {
	var attr string
	switch opt := in.Option.(type) {
	case string:
		attr = opt
	default:
		m, ok := asMap(opt)
		if !ok {
			return nil, fmt.Errorf("%w: equality expects an attribute name or map, got %T", ErrInvalidOption, opt)
		}
		attr, _ = m["attribute"].(string)
	}
	if attr == "" {
		return nil, fmt.Errorf("%w: equality requires an attribute", ErrInvalidOption)
	}

	other := in.Values[attr]
	if other.Valid && other.String == in.Value.String {
		return nil, nil
	}
	return []Violation{{
		Key:     "validation.equality",
		Message: "is not equal to " + strings.ToLower(Prettify(attr)),
		Params:  map[string]any{"attribute": attr},
	}}, nil
}

func custom(in Input) ([]Violation, error) {
	var msg string
	switch opt := in.Option.(type) {
	case string:
		msg = opt
	case bool:
		if !opt {
			return nil, nil
		}
		return []Violation{{Key: "validation.custom", Message: "is invalid"}}, nil
	case CustomFunc:
		msg = opt(in.Field, in.Value, in.Values)
	case func(string, Value, Values) string:
		msg = opt(in.Field, in.Value, in.Values)
	default:
		m, ok := asMap(opt)
		if !ok {
			return nil, fmt.Errorf("%w: custom expects a message, map or CustomFunc, got %T", ErrInvalidOption, opt)
		}
		msg, _ = m["message"].(string)
	}

	if msg == "" {
		return nil, nil
	}
	return []Violation{{Message: msg}}, nil
}
