// Package constraint evaluates declarative field rules against a set of form
// values and reports per-field error messages.
//
// A rule set is a Rules map from field name to Constraints, and Constraints is
// an open map from validator name to that validator's option:
//
//	rules := constraint.Rules{
//	    "username": {"presence": map[string]any{"allowEmpty": false}, "length": map[string]any{"minimum": 3}},
//	    "email":    {"presence": true, "email": true},
//	    "confirm":  {"equality": "password"},
//	}
//
// Built-in validators: presence, length, format, email, numericality,
// inclusion, exclusion, equality, custom and customAsync. Every map-form option
// accepts a "message" entry that replaces the default message. Additional
// validators are registered with WithValidator.
//
// Blank values (absent or whitespace-only) are skipped by every validator except
// presence, custom and customAsync, so a blank value and an absent value produce
// the same errors unless presence allows empty strings.
//
// # Escape hatches
//
// custom always fails with its message: a string, a map with "message", or a
// CustomFunc computing it. A falsy option passes.
//
// customAsync is resolved out of band and only by ValidateAsync. A plain payload
// resolves immediately; an AsyncFunc receives a Resolve function it may call
// later, for example after a network lookup. Validate treats customAsync as
// passing.
//
// # Results
//
// Validate returns nil, an Errors value, or a programming error (unknown
// validator, malformed option). ValidateAsync returns a Future that settles the
// same way; when its context is cancelled it settles with context.Cause, which
// lets callers distinguish their own cancellation causes.
//
//	err := ev.Validate(values, rules, constraint.Options{})
//	if errs, ok := constraint.AsErrors(err); ok {
//	    fmt.Println(errs.Get("username"))
//	}
package constraint
