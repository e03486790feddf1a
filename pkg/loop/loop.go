package loop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Loop runs posted tasks serially on its own goroutine.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool

	wake chan struct{}
	done chan struct{}

	name   string
	logger *slog.Logger
}

// New starts a loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.run()
	return l
}

// Post enqueues fn to run after every task posted before it.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return ErrNilTask
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush blocks until every task posted before the call has run.
// It must not be called from a task on the same loop.
func (l *Loop) Flush(ctx context.Context) error {
	reached := make(chan struct{})
	if err := l.Post(func() { close(reached) }); err != nil {
		return err
	}

	select {
	case <-reached:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, runs the ones already queued and waits for
// the loop goroutine to exit. It must not be called from a task on the same
// loop. Close is idempotent.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	<-l.done
	return nil
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)

	for range l.wake {
		for {
			l.mu.Lock()
			if len(l.tasks) == 0 {
				closed := l.closed
				l.mu.Unlock()
				if closed {
					return
				}
				break
			}
			fn := l.tasks[0]
			l.tasks[0] = nil
			l.tasks = l.tasks[1:]
			l.mu.Unlock()

			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panicked",
				slog.String("loop", l.name),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}
