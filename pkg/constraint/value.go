package constraint

import (
	"strings"

	"github.com/goccy/go-json"
)

// Value is an optional form value. The zero Value is absent.
type Value struct {
	String string
	Valid  bool
}

// Some returns a present value.
func Some(s string) Value {
	return Value{String: s, Valid: true}
}

// Null returns an absent value.
func Null() Value {
	return Value{}
}

// OrNull treats the empty string as absent.
func OrNull(s string) Value {
	if s == "" {
		return Value{}
	}
	return Some(s)
}

// Blank reports whether the value is absent or holds only whitespace.
func (v Value) Blank() bool {
	return !v.Valid || strings.TrimSpace(v.String) == ""
}

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.String)
}

// UnmarshalJSON decodes null as absent and any string as present.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*v = Value{}
		return nil
	}
	*v = Some(*s)
	return nil
}

// Values maps field names to their current values.
type Values map[string]Value

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
