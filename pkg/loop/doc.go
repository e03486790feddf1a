// Package loop provides a serial task queue: tasks posted to a Loop run one
// at a time, in posting order, on a single goroutine owned by the loop.
//
// It is the "next turn" primitive used by the form engine. Posting never
// blocks; the queue is unbounded so a task may post further tasks without
// deadlocking.
//
// Usage:
//
//	l := loop.New(loop.WithLogger(log))
//	defer l.Close()
//
//	_ = l.Post(func() { fmt.Println("runs on the loop") })
//	_ = l.Flush(ctx) // waits for everything posted so far
//
// A panicking task is recovered and logged; the loop keeps running.
package loop
