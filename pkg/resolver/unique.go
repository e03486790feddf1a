package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/ruleset"
)

// DefaultTakenMessage is used when a uniqueness rule sets no message.
const DefaultTakenMessage = "is already taken"

// Checker reports whether a value already exists in some store.
type Checker interface {
	Exists(ctx context.Context, value string) (bool, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, value string) (bool, error)

func (f CheckerFunc) Exists(ctx context.Context, value string) (bool, error) {
	return f(ctx, value)
}

// Unique returns a customAsync rule that fails with message when the checker
// finds the value. Blank values pass without a lookup; lookup failures reject
// the evaluation.
func Unique(c Checker, message string) constraint.AsyncFunc {
	if message == "" {
		message = DefaultTakenMessage
	}
	return func(ctx context.Context, v constraint.Value, resolve constraint.Resolve) {
		if v.Blank() {
			resolve(nil)
			return
		}

		exists, err := c.Exists(ctx, strings.TrimSpace(v.String))
		switch {
		case err != nil:
			resolve(errors.Join(ErrLookupFailed, err))
		case exists:
			resolve(message)
		default:
			resolve(nil)
		}
	}
}

// Factory binds {resolver: name, message: "..."} rule definitions to c.
func Factory(c Checker) ruleset.ResolverFactory {
	return func(_ string, opts map[string]any) (constraint.AsyncFunc, error) {
		msg := DefaultTakenMessage
		if raw, ok := opts["message"]; ok {
			s, isString := raw.(string)
			if !isString {
				return nil, fmt.Errorf("message must be a string, got %T", raw)
			}
			msg = s
		}
		return Unique(c, msg), nil
	}
}
