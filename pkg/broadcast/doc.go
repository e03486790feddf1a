// Package broadcast fans messages out to many subscribers.
//
// The HTTP transport uses one broadcaster per form session: every render
// notification of the form is broadcast, and each open SSE stream holds a
// subscriber. With WithReplayLast a new subscriber immediately receives the
// latest message, so a stream opened mid-session starts from current state.
//
//	b := broadcast.NewMemoryBroadcaster[State](16, broadcast.WithReplayLast[State]())
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	_ = b.Broadcast(ctx, broadcast.Message[State]{Data: state})
//
//	for msg := range sub.Receive(ctx) {
//		render(msg.Data)
//	}
//
// The memory implementation drops a subscriber whose buffer is full rather
// than block the broadcaster, and unsubscribes when the subscribe context
// is cancelled.
package broadcast
