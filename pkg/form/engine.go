package form

import (
	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// Outcomes of an asynchronous validation, as logged.
const (
	OutcomePassed     = "passed"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
	OutcomeErrored    = "errored"
)

// syncPass evaluates the given fields synchronously against the full value
// set and replaces their errors. customAsync rules never run here.
// Callers hold f.mu.
func (f *Form) syncPass(fields []string) error {
	err := f.evaluator.Validate(f.values, f.registry.rules(fields...), f.opts)
	errs, ok := constraint.AsErrors(err)
	if err != nil && !ok {
		return err
	}

	for _, name := range fields {
		if c, exists := f.controls[name]; exists {
			c.SetErrors(errs[name])
		}
	}
	f.updateValidity()
	f.notify()
	return nil
}

// runValidation is the deferred part of Validate. It runs on the loop.
func (f *Form) runValidation(ev Event) {
	defer f.end()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	name := ev.ControlName()
	e, ok := f.registry.get(name)
	if !ok {
		f.mu.Unlock()
		return
	}

	value := ev.ControlValue()
	f.values[name] = value
	c := f.controls[name]
	c.SetValue(value)

	rules := f.registry.working(name)
	ctx, id := f.ledger.issue(f.ctx, name, f.asyncTimeout)

	if e.asyncCustom {
		c.SetLoading(true)
		f.updateValidity()
		f.notify()
	}

	values, opts := f.values.Clone(), f.opts
	f.begin()
	f.mu.Unlock()

	f.evaluator.ValidateAsync(ctx, values, rules, opts).OnComplete(func(_ constraint.Errors, err error) {
		if postErr := f.loop.Post(func() { f.complete(name, id, err) }); postErr != nil {
			f.end()
		}
	})
}

// complete applies the result of the evaluation issued under ticket id.
// It runs on the loop.
func (f *Form) complete(name string, id uint64, err error) {
	defer f.end()

	f.mu.Lock()
	c, exists := f.controls[name]

	if !f.ledger.current(name, id) || !exists {
		// A newer request owns the field, or the field is gone: only the
		// loading flag may change.
		if exists && f.ledger.pending(name) {
			c.SetLoading(true)
		}
		f.mu.Unlock()
		f.logger.Debug("validation settled", logger.Field(name), logger.Outcome(OutcomeSuperseded))
		return
	}
	f.ledger.release(name, id)

	outcome := OutcomePassed
	var fatal error
	errs, isErrs := constraint.AsErrors(err)
	switch {
	case err == nil:
		c.SetTouched(true).SetErrors(nil)
		f.lockstepCustom(nil)
	case isErrs:
		outcome = OutcomeFailed
		c.SetTouched(true).SetErrors(errs[name])
		f.lockstepCustom(errs)
	default:
		outcome = OutcomeErrored
		fatal = err
		if f.failMessage != "" {
			c.SetTouched(true).SetErrors([]string{f.failMessage})
		}
	}

	c.SetLoading(false)
	f.updateValidity()
	f.notify()
	onError := f.onError
	f.mu.Unlock()

	f.logger.Debug("validation settled", logger.Field(name), logger.Outcome(outcome))
	if fatal != nil {
		onError(name, fatal)
	}
}

// lockstepCustom copies the latest pass onto fields whose only rule is custom.
// Callers hold f.mu.
func (f *Form) lockstepCustom(errs constraint.Errors) {
	for _, name := range f.registry.syncCustomFields() {
		f.controls[name].SetTouched(true).SetErrors(errs[name])
	}
}
