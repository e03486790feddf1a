package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formvalidate/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns result of the function", func(t *testing.T) {
		t.Parallel()
		fut := async.Async(context.Background(), 42, func(_ context.Context, n int) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return fmt.Sprintf("Number: %d", n), nil
		})

		res, err := fut.Await()
		require.NoError(t, err)
		assert.Equal(t, "Number: 42", res)
		assert.True(t, fut.IsComplete())
	})

	t.Run("propagates function error", func(t *testing.T) {
		t.Parallel()
		expected := errors.New("boom")
		fut := async.Async(context.Background(), 1, func(_ context.Context, _ int) (int, error) {
			return 0, expected
		})

		res, err := fut.Await()
		assert.ErrorIs(t, err, expected)
		assert.Zero(t, res)
	})

	t.Run("pre-cancelled context reports the cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("superseded")
		ctx, cancel := context.WithCancelCause(context.Background())
		cancel(cause)

		called := false
		fut := async.Async(ctx, 1, func(_ context.Context, n int) (int, error) {
			called = true
			return n, nil
		})

		_, err := fut.Await()
		assert.ErrorIs(t, err, cause)
		assert.False(t, called)
	})

	t.Run("function observes cancellation", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		fut := async.Async(ctx, 1, func(ctx context.Context, _ int) (int, error) {
			select {
			case <-time.After(time.Second):
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		})

		_, err := fut.Await()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestPromise(t *testing.T) {
	t.Parallel()

	t.Run("first settle wins", func(t *testing.T) {
		t.Parallel()
		fut, resolve, reject := async.NewPromise[string]()

		resolve("first")
		resolve("second")
		reject(errors.New("late"))

		res, err := fut.Await()
		require.NoError(t, err)
		assert.Equal(t, "first", res)
	})

	t.Run("reject before resolve", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("superseded")
		fut, resolve, reject := async.NewPromise[string]()

		reject(cause)
		resolve("ignored")

		_, err := fut.Await()
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil rejection uses ErrRejected", func(t *testing.T) {
		t.Parallel()
		fut, _, reject := async.NewPromise[int]()
		reject(nil)

		_, err := fut.Await()
		assert.ErrorIs(t, err, async.ErrRejected)
	})

	t.Run("concurrent settles are safe", func(t *testing.T) {
		t.Parallel()
		fut, resolve, _ := async.NewPromise[int]()

		var wg sync.WaitGroup
		for i := range 100 {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()
				resolve(v)
			}(i)
		}
		wg.Wait()

		res, err := fut.Await()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res, 0)
		assert.Less(t, res, 100)
	})
}

func TestFuture_AwaitContext(t *testing.T) {
	t.Parallel()

	fut, resolve, _ := async.NewPromise[int]()
	cause := errors.New("gave up")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)

	_, err := fut.AwaitContext(ctx)
	assert.ErrorIs(t, err, cause)
	assert.False(t, fut.IsComplete())

	resolve(7)
	res, err := fut.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res)
}

func TestFuture_AwaitWithTimeout(t *testing.T) {
	t.Parallel()

	fut, _, _ := async.NewPromise[int]()
	_, err := fut.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
}

func TestFuture_OnComplete(t *testing.T) {
	t.Parallel()

	fut, resolve, _ := async.NewPromise[string]()
	got := make(chan string, 1)
	fut.OnComplete(func(s string, err error) {
		assert.NoError(t, err)
		got <- s
	})

	resolve("done")

	select {
	case s := <-got:
		assert.Equal(t, "done", s)
	case <-time.After(time.Second):
		t.Fatal("OnComplete callback was not invoked")
	}
}

func TestResolved(t *testing.T) {
	t.Parallel()

	fut := async.Resolved(3, nil)
	assert.True(t, fut.IsComplete())
	res, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, 3, res)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	t.Run("collects results in order", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		futures := []*async.Future[int]{
			async.Async(ctx, 1, func(_ context.Context, n int) (int, error) {
				time.Sleep(20 * time.Millisecond)
				return n, nil
			}),
			async.Async(ctx, 2, func(_ context.Context, n int) (int, error) { return n, nil }),
		}

		res, err := async.WaitAll(futures...)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, res)
	})

	t.Run("returns first error", func(t *testing.T) {
		t.Parallel()
		expected := errors.New("failed")
		res, err := async.WaitAll(async.Resolved(1, nil), async.Resolved(0, expected))
		assert.ErrorIs(t, err, expected)
		assert.Equal(t, []int{1, 0}, res)
	})
}
