package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
// A Future settles exactly once; later settle attempts are ignored.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// settle stores the outcome and releases waiters. It reports whether this call won.
func (f *Future[U]) settle(res U, err error) bool {
	won := false
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
		won = true
	})
	return won
}

// Await waits for the future to settle and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for the future to settle or for ctx to be done.
// When ctx wins, the context cause is returned and the future keeps running.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, context.Cause(ctx)
	}
}

// AwaitWithTimeout waits for the future with a timeout.
// If the timeout occurs before completion, ErrTimeout is returned.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// Done returns a channel closed once the future settles.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete checks if the future has settled without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// OnComplete runs fn in its own goroutine once the future settles.
func (f *Future[U]) OnComplete(fn func(U, error)) {
	if fn == nil {
		return
	}
	go func() {
		res, err := f.Await()
		fn(res, err)
	}()
}

// Async executes fn in a new goroutine and returns a Future for its outcome.
// A context that is already done settles the future with the context cause
// without calling fn.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		if ctx.Err() != nil {
			var zero U
			f.settle(zero, context.Cause(ctx))
			return
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}

// Resolved returns an already settled future.
func Resolved[U any](res U, err error) *Future[U] {
	f := newFuture[U]()
	f.settle(res, err)
	return f
}

// WaitAll waits for all futures and returns their results in order.
// The first error encountered, in argument order, is returned.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
