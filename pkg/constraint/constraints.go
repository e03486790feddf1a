package constraint

import (
	"reflect"
	"sort"
)

// Validator names understood by the default Evaluator.
const (
	KeyPresence     = "presence"
	KeyLength       = "length"
	KeyFormat       = "format"
	KeyEmail        = "email"
	KeyNumericality = "numericality"
	KeyInclusion    = "inclusion"
	KeyExclusion    = "exclusion"
	KeyEquality     = "equality"
	KeyCustom       = "custom"
	KeyCustomAsync  = "customAsync"
)

// Constraints is the rule definition of a single field, keyed by validator name.
// A nil option disables its validator.
type Constraints map[string]any

// Clone returns a shallow copy.
func (c Constraints) Clone() Constraints {
	if c == nil {
		return nil
	}
	out := make(Constraints, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Has reports whether the key is present, whatever its value.
func (c Constraints) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Rules maps field names to their constraints.
type Rules map[string]Constraints

// Clone copies the map and every Constraints in it.
func (r Rules) Clone() Rules {
	out := make(Rules, len(r))
	for k, c := range r {
		out[k] = c.Clone()
	}
	return out
}

// Fields returns the field names in sorted order.
func (r Rules) Fields() []string {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Truthy reports whether an option enables its validator.
// nil, false, "", zero numbers and nil funcs, maps or slices are falsy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
