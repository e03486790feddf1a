// Package async provides small generic helpers for asynchronous results.
//
// Future is the eventual result of a computation. It is obtained from Async,
// which runs a function in its own goroutine, from NewPromise, which hands the
// caller explicit resolve and reject functions for out-of-band completion, or
// from Resolved for values that are already known. A Future settles exactly
// once: the first resolve, reject or function return wins and every later
// attempt is ignored.
//
// # Usage
//
//	fut := async.Async(ctx, "jane", func(ctx context.Context, name string) (bool, error) {
//	    return store.Exists(ctx, name)
//	})
//	taken, err := fut.Await()
//
// Deferred completion, e.g. a resolver that answers from another goroutine:
//
//	fut, resolve, reject := async.NewPromise[string]()
//	go func() {
//	    msg, err := check()
//	    if err != nil {
//	        reject(err)
//	        return
//	    }
//	    resolve(msg)
//	}()
//	msg, err := fut.AwaitContext(ctx)
//
// # Error Handling
//
// Futures carry the error returned by the callback. AwaitContext returns
// context.Cause(ctx) so callers that cancel with a cause (for example a
// "superseded" marker) can tell their own cancellations apart from timeouts.
package async
