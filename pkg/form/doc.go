// Package form keeps the live validation state of a set of named controls.
//
// A Form owns a rule set (constraint.Rules), the current value of every
// registered field and one Control per field. Construction and AddControl run
// a synchronous pass that seeds errors from the defaults. Validate takes a
// field-change Event and, on the next turn of the form's loop, runs an
// asynchronous pass in which only the changed field may run its customAsync
// rule.
//
// Overlapping asynchronous passes for the same field are reconciled by a
// ledger of tickets: starting a pass cancels the previous ticket with
// ErrSuperseded, and a completion whose ticket is no longer current never
// touches the field's errors. Every pass is bounded by the configured async
// timeout, so a field cannot stay loading forever.
//
// Basic usage:
//
//	f, err := form.New(constraint.Rules{
//		"username": {"presence": true, "customAsync": checkUsername},
//		"password": {"presence": true, "length": map[string]any{"minimum": 6}},
//	}, form.WithDefaults(map[string]string{"username": "john"}))
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	f.Render(func(valid bool, controls map[string]form.Control) {
//		// redraw
//	})
//	_ = f.Validate(form.ChangeEvent("password", "secret"))
//
// Render callbacks and error handlers run on the loop goroutine in the order
// the state changed. Programming errors raised during an asynchronous pass
// (malformed rules, rejected resolvers, timeouts) go to the ErrorHandler; the
// default handler logs them.
package form
