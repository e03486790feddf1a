package broadcast

import (
	"context"
	"sync"
)

// Message is one broadcast value. The broadcaster stamps Seq: the first
// message is 1 and every later one is exactly one higher, so a receiver can
// recognise a replayed message it already holds and notice a gap.
type Message[T any] struct {
	Seq  uint64
	Data T
}

// Subscriber is one receiving end of a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. Messages arrive in increasing Seq
	// order. With replay enabled the first message may be the one broadcast
	// just before Subscribe, carrying its original Seq. The channel is closed
	// when the subscriber is closed, dropped for falling behind, or the
	// broadcaster shuts down.
	Receive(ctx context.Context) <-chan Message[T]

	// Dropped reports whether the channel was closed because the buffer was
	// full when a message arrived. A dropped subscriber missed that message
	// and everything after it and should resubscribe.
	Dropped() bool

	// Close stops delivery. Calling it again is a no-op.
	Close() error
}

// Broadcaster fans messages out to subscribers.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber until ctx is done.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast overwrites msg.Seq with the next sequence number and hands the
	// message to every subscriber without blocking. A subscriber whose buffer
	// is full is dropped. It returns ErrClosed after Close.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close closes every subscriber. Later broadcasts fail.
	Close() error
}

// inbox is the buffered channel behind a Subscriber. Its mutex orders
// deliveries against closing so a send never hits a closed channel.
type inbox[T any] struct {
	mu      sync.Mutex
	ch      chan Message[T]
	shut    bool
	dropped bool
}

func newInbox[T any](size int) *inbox[T] {
	return &inbox[T]{ch: make(chan Message[T], size)}
}

func (in *inbox[T]) Receive(context.Context) <-chan Message[T] { return in.ch }

func (in *inbox[T]) Dropped() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dropped
}

func (in *inbox[T]) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.closeLocked()
	return nil
}

// deliver queues msg. On a full buffer the inbox is marked dropped and
// closed, and deliver reports false; it also reports false once closed.
func (in *inbox[T]) deliver(msg Message[T]) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.shut {
		return false
	}
	select {
	case in.ch <- msg:
		return true
	default:
		in.dropped = true
		in.closeLocked()
		return false
	}
}

func (in *inbox[T]) closeLocked() {
	if !in.shut {
		in.shut = true
		close(in.ch)
	}
}
