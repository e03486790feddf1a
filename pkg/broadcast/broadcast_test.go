package broadcast_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formvalidate/pkg/broadcast"
)

func receive[T any](t *testing.T, sub broadcast.Subscriber[T]) (broadcast.Message[T], bool) {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive(context.Background()):
		return msg, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return broadcast.Message[T]{}, false
	}
}

func TestMemoryBroadcaster(t *testing.T) {
	t.Parallel()

	t.Run("fans out to every subscriber in order", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[string](4)
		defer b.Close()

		s1 := b.Subscribe(context.Background())
		s2 := b.Subscribe(context.Background())
		require.Equal(t, 2, b.Len())

		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[string]{Data: "a"}))
		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[string]{Data: "b"}))

		for _, sub := range []broadcast.Subscriber[string]{s1, s2} {
			m1, _ := receive(t, sub)
			m2, _ := receive(t, sub)
			assert.Equal(t, "a", m1.Data)
			assert.Equal(t, uint64(1), m1.Seq)
			assert.Equal(t, "b", m2.Data)
			assert.Equal(t, uint64(2), m2.Seq)
		}
	})

	t.Run("replays last message to new subscribers", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster(4, broadcast.WithReplayLast[int]())
		defer b.Close()

		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1}))
		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 2}))

		sub := b.Subscribe(context.Background())
		msg, ok := receive(t, sub)
		require.True(t, ok)
		assert.Equal(t, 2, msg.Data)
		assert.Equal(t, uint64(2), msg.Seq, "replay keeps the original sequence number")

		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 3}))
		msg, _ = receive(t, sub)
		assert.Equal(t, uint64(3), msg.Seq)
	})

	t.Run("caller sequence numbers are overwritten", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](4)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Seq: 42, Data: 1}))
		msg, _ := receive(t, sub)
		assert.Equal(t, uint64(1), msg.Seq)
	})

	t.Run("no replay by default", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](4)
		defer b.Close()

		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1}))
		sub := b.Subscribe(context.Background())
		select {
		case <-sub.Receive(context.Background()):
			t.Fatal("unexpected message")
		default:
		}
	})

	t.Run("slow consumer is dropped", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1}))
		require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 2}))
		assert.Equal(t, 0, b.Len())

		msg, ok := receive(t, sub)
		assert.True(t, ok)
		assert.Equal(t, 1, msg.Data)
		_, ok = receive(t, sub)
		assert.False(t, ok, "channel closed after drop")
		assert.True(t, sub.Dropped())
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()
		b.Wait()

		_, ok := receive(t, sub)
		assert.False(t, ok)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("close", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		sub := b.Subscribe(context.Background())

		require.NoError(t, b.Close())
		require.NoError(t, b.Close())

		_, ok := receive(t, sub)
		assert.False(t, ok)
		assert.ErrorIs(t, b.Broadcast(context.Background(), broadcast.Message[int]{}), broadcast.ErrClosed)

		_, ok = receive(t, b.Subscribe(context.Background()))
		assert.False(t, ok, "subscribe after close returns a closed subscriber")
	})

	t.Run("subscriber close is idempotent", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()
		sub := b.Subscribe(context.Background())
		assert.NoError(t, sub.Close())
		assert.NoError(t, sub.Close())
		assert.False(t, sub.Dropped())
		assert.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1}))
	})
}

func TestMemoryBroadcaster_Concurrent(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1000)
	defer b.Close()
	sub := b.Subscribe(context.Background())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				_ = b.Broadcast(context.Background(), broadcast.Message[int]{Data: i})
			}
		}()
	}
	wg.Wait()

	var last uint64
	for range 500 {
		msg, ok := receive(t, sub)
		require.True(t, ok)
		assert.Greater(t, msg.Seq, last)
		last = msg.Seq
	}
}
