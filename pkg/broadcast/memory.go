package broadcast

import (
	"context"
	"sync"
)

// Option configures a MemoryBroadcaster.
type Option[T any] func(*MemoryBroadcaster[T])

// WithReplayLast delivers the most recent message to every new subscriber.
func WithReplayLast[T any]() Option[T] {
	return func(b *MemoryBroadcaster[T]) { b.replayLast = true }
}

// MemoryBroadcaster is an in-process Broadcaster. Sequence numbers are kept
// per broadcaster and survive subscriber churn. It drops slow consumers
// rather than blocking. All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[*inbox[T]]struct{}
	bufferSize  int
	replayLast  bool
	seq         uint64
	last        *Message[T]
	closed      bool
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// NewMemoryBroadcaster creates an in-memory broadcaster whose subscribers
// buffer up to bufferSize messages (minimum 1).
func NewMemoryBroadcaster[T any](bufferSize int, opts ...Option[T]) *MemoryBroadcaster[T] {
	b := &MemoryBroadcaster[T]{
		subscribers: make(map[*inbox[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe creates a subscriber that is cleaned up when ctx is cancelled.
// On a closed broadcaster the returned subscriber is already closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newInbox[T](b.bufferSize)
	if b.closed {
		_ = sub.Close()
		return sub
	}

	b.subscribers[sub] = struct{}{}
	if b.replayLast && b.last != nil {
		sub.deliver(*b.last)
	}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			<-ctx.Done()
			b.unsubscribe(sub)
		}()
	}

	return sub
}

// Broadcast stamps msg with the next sequence number and sends it to every
// subscriber. Subscribers with a full buffer are dropped.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.seq++
	msg.Seq = b.seq
	if b.replayLast {
		b.last = &msg
	}

	for sub := range b.subscribers {
		if !sub.deliver(msg) {
			delete(b.subscribers, sub)
		}
	}

	return nil
}

// Len returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close shuts down the broadcaster and closes all subscribers.
// It is safe to call Close multiple times.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	return nil
}

// Wait blocks until every context-cleanup goroutine has exited. Those exit
// only when their subscribe context is done.
func (b *MemoryBroadcaster[T]) Wait() {
	b.cleanupWg.Wait()
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *inbox[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	_ = sub.Close()
}
