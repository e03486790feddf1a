package form

import (
	"context"
	"time"
)

// ticket identifies one asynchronous validation of a field.
type ticket struct {
	id     uint64
	cancel context.CancelCauseFunc
	stop   context.CancelFunc
}

// ledger holds the live ticket of every field with a pending asynchronous
// validation. Issuing a ticket supersedes the previous one for the same field
// before the new validation starts.
type ledger struct {
	seq  uint64
	live map[string]ticket
}

func newLedger() *ledger {
	return &ledger{live: make(map[string]ticket)}
}

// issue cancels the field's live ticket with ErrSuperseded and installs a new one.
// The returned context carries the new ticket's cancellation and timeout.
func (l *ledger) issue(parent context.Context, field string, timeout time.Duration) (context.Context, uint64) {
	l.cancel(field, ErrSuperseded)

	ctx, cancel := context.WithCancelCause(parent)
	stop := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, stop = context.WithTimeoutCause(ctx, timeout, ErrAsyncTimeout)
	}

	l.seq++
	l.live[field] = ticket{id: l.seq, cancel: cancel, stop: stop}
	return ctx, l.seq
}

// current reports whether id is the field's live ticket.
func (l *ledger) current(field string, id uint64) bool {
	t, ok := l.live[field]
	return ok && t.id == id
}

func (l *ledger) pending(field string) bool {
	_, ok := l.live[field]
	return ok
}

// release retires the field's ticket after its validation completed normally.
func (l *ledger) release(field string, id uint64) {
	t, ok := l.live[field]
	if !ok || t.id != id {
		return
	}
	delete(l.live, field)
	t.stop()
	t.cancel(nil)
}

// cancel rejects the field's live ticket, if any, with cause.
func (l *ledger) cancel(field string, cause error) {
	t, ok := l.live[field]
	if !ok {
		return
	}
	delete(l.live, field)
	t.cancel(cause)
	t.stop()
}

func (l *ledger) cancelAll(cause error) {
	for field := range l.live {
		l.cancel(field, cause)
	}
}

func (l *ledger) len() int {
	return len(l.live)
}
