package async

// Resolver settles a Promise successfully.
type Resolver[U any] func(U)

// Rejecter settles a Promise with an error.
type Rejecter func(error)

// NewPromise returns a Future together with the functions that settle it.
// Only the first call to either function has an effect, so a rejection issued
// by a canceller races safely with a late resolution from the producer.
func NewPromise[U any]() (*Future[U], Resolver[U], Rejecter) {
	f := newFuture[U]()

	resolve := func(v U) {
		f.settle(v, nil)
	}
	reject := func(err error) {
		if err == nil {
			err = ErrRejected
		}
		var zero U
		f.settle(zero, err)
	}

	return f, resolve, reject
}
