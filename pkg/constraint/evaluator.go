package constraint

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrymomot/formvalidate/pkg/async"
)

// rank orders validators so messages come out in a stable sequence.
var rank = map[string]int{
	KeyPresence:     0,
	KeyLength:       1,
	KeyFormat:       2,
	KeyEmail:        3,
	KeyNumericality: 4,
	KeyInclusion:    5,
	KeyExclusion:    6,
	KeyEquality:     7,
	KeyCustom:       200,
	KeyCustomAsync:  201,
}

// runsOnBlank lists the validators that still run when the value is blank.
var runsOnBlank = map[string]bool{
	KeyPresence:    true,
	KeyCustom:      true,
	KeyCustomAsync: true,
}

// Evaluator applies Rules to Values.
// It is safe for concurrent use once constructed.
type Evaluator struct {
	validators map[string]ValidatorFunc
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithValidator registers or replaces a validator under name.
func WithValidator(name string, fn ValidatorFunc) Option {
	return func(e *Evaluator) {
		if name != "" && fn != nil && name != KeyCustomAsync {
			e.validators[name] = fn
		}
	}
}

// New returns an Evaluator with the built-in validators.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		validators: map[string]ValidatorFunc{
			KeyPresence:     presence,
			KeyLength:       length,
			KeyFormat:       format,
			KeyEmail:        email,
			KeyNumericality: numericality,
			KeyInclusion:    inclusion,
			KeyExclusion:    exclusion,
			KeyEquality:     equality,
			KeyCustom:       custom,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate evaluates rules synchronously. customAsync rules cannot resolve
// synchronously and always pass here.
//
// It returns nil when every field passes, Errors when some field fails, and
// any other error when a rule itself is malformed.
func (e *Evaluator) Validate(values Values, rules Rules, opts Options) error {
	errs, err := e.evaluate(values, rules, opts)
	if err != nil {
		return err
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// ValidateAsync evaluates rules in a new goroutine, including customAsync
// rules. The returned future settles with (nil, nil) on success, with
// (Errors, Errors) on validation failure, and with (nil, err) when a rule is
// malformed, a resolver rejects, or ctx is cancelled (err is the context cause).
func (e *Evaluator) ValidateAsync(ctx context.Context, values Values, rules Rules, opts Options) *async.Future[Errors] {
	values = values.Clone()
	rules = rules.Clone()

	return async.Async(ctx, rules, func(ctx context.Context, rules Rules) (Errors, error) {
		errs, err := e.evaluate(values, rules, opts)
		if err != nil {
			return nil, err
		}

		for _, field := range rules.Fields() {
			opt := rules[field][KeyCustomAsync]
			if !Truthy(opt) {
				continue
			}
			msgs, err := resolveAsync(ctx, field, values[field], opt)
			if err != nil {
				return nil, err
			}
			for _, m := range msgs {
				errs.Add(field, opts.decorate(field, m))
			}
		}

		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		if errs.IsEmpty() {
			return nil, nil
		}
		return errs, errs
	})
}

func (e *Evaluator) evaluate(values Values, rules Rules, opts Options) (Errors, error) {
	errs := Errors{}
	for _, field := range rules.Fields() {
		msgs, err := e.evaluateField(field, values, rules[field], opts)
		if err != nil {
			return nil, err
		}
		errs.Add(field, msgs...)
	}
	return errs, nil
}

func (e *Evaluator) evaluateField(field string, values Values, cs Constraints, opts Options) ([]string, error) {
	value := values[field]

	var msgs []string
	for _, key := range order(cs) {
		if key == KeyCustomAsync {
			continue
		}
		fn, ok := e.validators[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q on field %q", ErrUnknownValidator, key, field)
		}

		opt := cs[key]
		if opt == nil {
			continue
		}
		if !runsOnBlank[key] && value.Blank() {
			continue
		}

		violations, err := fn(Input{Field: field, Value: value, Values: values, Option: opt})
		if err != nil {
			return nil, errors.Join(fmt.Errorf("field %q validator %q", field, key), err)
		}

		override := overrideMessage(opt)
		for _, v := range violations {
			msgs = append(msgs, opts.render(field, v, override))
		}
	}
	return msgs, nil
}

func order(cs Constraints) []string {
	keys := make([]string, 0, len(cs))
	for k := range cs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := keyRank(keys[i]), keyRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func keyRank(key string) int {
	if r, ok := rank[key]; ok {
		return r
	}
	return 100
}
