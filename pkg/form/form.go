package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
	"github.com/dmitrymomot/formvalidate/pkg/loop"
)

// Form binds named controls to a rule set and keeps their validation state
// current as values change. It is safe for concurrent use.
type Form struct {
	id           string
	evaluator    *constraint.Evaluator
	opts         constraint.Options
	logger       *slog.Logger
	asyncTimeout time.Duration
	onError      ErrorHandler
	failMessage  string
	defaults     map[string]string

	loop   *loop.Loop
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu       sync.Mutex
	registry *registry
	ledger   *ledger
	controls map[string]*Control
	values   constraint.Values
	valid    bool
	render   RenderFunc
	closed   bool

	// pending counts deferred validations and in-flight evaluations;
	// idle is closed whenever it is zero.
	pending int
	idle    chan struct{}
}

// New registers every field of rules and runs one synchronous pass over the
// defaults. It fails only when a rule is malformed.
func New(rules constraint.Rules, opts ...Option) (*Form, error) {
	f := &Form{
		id:           uuid.NewString(),
		evaluator:    constraint.New(),
		logger:       logger.Discard(),
		asyncTimeout: DefaultAsyncTimeout,
		registry:     newRegistry(),
		ledger:       newLedger(),
		controls:     make(map[string]*Control),
		values:       make(constraint.Values),
		valid:        true,
		idle:         make(chan struct{}),
	}
	close(f.idle)

	for _, opt := range opts {
		opt(f)
	}

	f.logger = f.logger.With(logger.Component("form"), logger.FormID(f.id))
	if f.onError == nil {
		f.onError = defaultErrorHandler(f.logger, f.id)
	}
	f.loop = loop.New(loop.WithLogger(f.logger), loop.WithName(f.id))
	f.ctx, f.cancel = context.WithCancelCause(context.Background())

	fields := rules.Fields()
	values := make(map[string]constraint.Value, len(fields))
	for _, name := range fields {
		values[name] = constraint.OrNull(f.defaults[name])
	}

	f.mu.Lock()
	err := f.register(fields, rules, values)
	f.mu.Unlock()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// ID returns the form instance identity.
func (f *Form) ID() string {
	return f.id
}

// AddControl registers a field at runtime and validates it synchronously.
// An empty default is stored as absent.
func (f *Form) AddControl(name string, cs constraint.Constraints, defaultValue string) error {
	if name == "" {
		return ErrEmptyControlName
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if f.registry.has(name) {
		return fmt.Errorf("%w: %q", ErrControlExists, name)
	}

	err := f.register(
		[]string{name},
		constraint.Rules{name: cs},
		map[string]constraint.Value{name: constraint.OrNull(defaultValue)},
	)
	if err != nil {
		f.unregister(name, ErrControlRemoved)
		return err
	}
	return nil
}

// RemoveControl deregisters a field, discarding any pending validation for it.
// Unknown names are ignored.
func (f *Form) RemoveControl(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.unregister(name, ErrControlRemoved) {
		return
	}
	f.updateValidity()
	f.notify()
}

// Get returns a snapshot of the named control.
func (f *Form) Get(name string) (Control, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.controls[name]
	if !ok {
		return Control{}, false
	}
	return c.clone(), true
}

// Controls returns a snapshot of every control.
func (f *Form) Controls() map[string]Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

// Values returns a copy of the current value set.
func (f *Form) Values() constraint.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Rules returns a copy of the normalized rule set.
func (f *Form) Rules() constraint.Rules {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.rules()
}

// Len returns the number of registered controls.
func (f *Form) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.len()
}

// Valid reports aggregate validity: no control has errors or is loading.
func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valid
}

// Invalid is the negation of Valid.
func (f *Form) Invalid() bool {
	return !f.Valid()
}

// Touch marks one control as touched. Unknown names are ignored.
func (f *Form) Touch(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.controls[name]
	if !ok {
		return
	}
	c.SetTouched(true)
	f.notify()
}

// TouchAll marks every control as touched.
func (f *Form) TouchAll() {
	f.setTouchedAll(true)
}

// UnTouchAll clears the touched flag of every control.
func (f *Form) UnTouchAll() {
	f.setTouchedAll(false)
}

func (f *Form) setTouchedAll(touched bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.controls {
		c.SetTouched(touched)
	}
	f.notify()
}

// Reset clears errors, loading and touched on every control, discards pending
// validations and leaves the form invalid until it is revalidated.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ledger.cancelAll(ErrReset)
	for _, c := range f.controls {
		c.SetErrors(nil).SetLoading(false).SetTouched(false)
	}
	f.valid = false
	f.notify()
}

// UpdateValues assigns the given values to registered fields and revalidates
// every field synchronously. Unknown names are ignored.
func (f *Form) UpdateValues(values map[string]constraint.Value) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	for name, v := range values {
		if c, ok := f.controls[name]; ok {
			f.values[name] = v
			c.SetValue(v)
		}
	}
	return f.syncPass(f.registry.fields)
}

// Validate schedules an asynchronous validation for the control the event
// targets. It returns immediately; the pass starts on the next loop turn.
// Events for unknown controls are ignored when the pass runs.
func (f *Form) Validate(ev Event) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.begin()
	f.mu.Unlock()

	if err := f.loop.Post(func() { f.runValidation(ev) }); err != nil {
		f.end()
		return ErrClosed
	}
	return nil
}

// Render registers the notification sink, replacing any previous one.
// A nil fn disables notifications.
func (f *Form) Render(fn RenderFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.render = fn
}

// Wait blocks until no validation is scheduled or in flight and every
// notification issued so far has been delivered. It must not be called from
// a RenderFunc or ErrorHandler.
func (f *Form) Wait(ctx context.Context) error {
	for {
		f.mu.Lock()
		if f.pending == 0 {
			f.mu.Unlock()
			break
		}
		idle := f.idle
		f.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := f.loop.Flush(ctx); err != nil && !errors.Is(err, loop.ErrClosed) {
		return err
	}
	return nil
}

// Close discards pending validations and stops the form's loop after
// delivering queued notifications. It must not be called from a RenderFunc
// or ErrorHandler. Close is idempotent.
func (f *Form) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.ledger.cancelAll(ErrClosed)
	f.mu.Unlock()

	f.cancel(ErrClosed)
	return f.loop.Close()
}

// register adds fields with their rules and initial values, then seeds their
// errors with a synchronous pass. Callers hold f.mu.
func (f *Form) register(fields []string, rules constraint.Rules, values map[string]constraint.Value) error {
	for _, name := range fields {
		f.registry.add(name, rules[name])
		f.values[name] = values[name]
		f.controls[name] = newControl(name, values[name])
	}
	return f.syncPass(fields)
}

// unregister removes a field and cancels its pending validation. Callers hold f.mu.
func (f *Form) unregister(name string, cause error) bool {
	if !f.registry.remove(name) {
		return false
	}
	f.ledger.cancel(name, cause)
	delete(f.controls, name)
	delete(f.values, name)
	return true
}

// updateValidity recomputes aggregate validity. Callers hold f.mu.
func (f *Form) updateValidity() {
	for _, c := range f.controls {
		if c.HasError() || c.IsLoading() {
			f.valid = false
			return
		}
	}
	f.valid = true
}

// notify queues a render notification carrying the current state. Callers hold f.mu.
func (f *Form) notify() {
	fn := f.render
	if fn == nil {
		return
	}
	valid, controls := f.valid, f.snapshot()
	_ = f.loop.Post(func() { fn(valid, controls) })
}

func (f *Form) snapshot() map[string]Control {
	out := make(map[string]Control, len(f.controls))
	for name, c := range f.controls {
		out[name] = c.clone()
	}
	return out
}

// begin and end track outstanding work for Wait. begin is called with f.mu held.
func (f *Form) begin() {
	if f.pending == 0 {
		f.idle = make(chan struct{})
	}
	f.pending++
}

func (f *Form) end() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending--
	if f.pending == 0 {
		close(f.idle)
	}
}
