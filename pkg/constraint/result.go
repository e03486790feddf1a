package constraint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors maps field names to their error messages. A non-empty Errors is the
// structured failure returned by Validate and ValidateAsync.
type Errors map[string][]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends messages for a field. Empty messages are ignored.
func (e Errors) Add(field string, messages ...string) {
	for _, m := range messages {
		if m != "" {
			e[field] = append(e[field], m)
		}
	}
}

// Has reports whether the field has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get returns a copy of the field's messages, or nil.
func (e Errors) Get(field string) []string {
	msgs := e[field]
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f, msgs := range e {
		if len(msgs) > 0 {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) IsEmpty() bool {
	return len(e.Fields()) == 0
}

// AsErrors extracts Errors from err using errors.As.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
