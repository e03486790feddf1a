package constraint

import (
	"fmt"
	"strings"
)

func asMap(opt any) (map[string]any, bool) {
	switch m := opt.(type) {
	case map[string]any:
		return m, true
	case Constraints:
		return map[string]any(m), true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

// overrideMessage returns the "message" entry of a map option.
func overrideMessage(opt any) string {
	m, ok := asMap(opt)
	if !ok {
		return ""
	}
	s, _ := m["message"].(string)
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// number reads an optional numeric entry of a map option.
func number(m map[string]any, key string) (float64, bool, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, false, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidOption, key, raw)
	}
	return f, true, nil
}

func boolean(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func stringList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	}
	return nil, false
}

func formatNumber(f float64) string {
	s := fmt.Sprintf("%g", f)
	return strings.TrimSuffix(s, ".0")
}
