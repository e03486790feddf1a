package constraint

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/formvalidate/pkg/async"
)

// Resolve settles a customAsync rule. The payload is interpreted as:
// nil, false or "" pass; a string or []string are error messages; an error
// rejects the whole evaluation.
type Resolve func(payload any)

// AsyncFunc resolves a customAsync rule out of band. It may call resolve
// before returning or later from any goroutine; only the first call counts.
// ctx is cancelled when the evaluation is superseded or times out.
type AsyncFunc func(ctx context.Context, value Value, resolve Resolve)

func resolveAsync(ctx context.Context, field string, value Value, opt any) ([]string, error) {
	var fn AsyncFunc
	switch f := opt.(type) {
	case AsyncFunc:
		fn = f
	case func(context.Context, Value, Resolve):
		fn = f
	default:
		return payloadMessages(field, opt)
	}

	fut, resolve, _ := async.NewPromise[any]()
	go fn(ctx, value, Resolve(resolve))

	payload, err := fut.AwaitContext(ctx)
	if err != nil {
		return nil, err
	}
	return payloadMessages(field, payload)
}

func payloadMessages(field string, payload any) ([]string, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case bool:
		if !p {
			return nil, nil
		}
		return []string{"is invalid"}, nil
	case string:
		if p == "" {
			return nil, nil
		}
		return []string{p}, nil
	case []string:
		return p, nil
	case error:
		return nil, errors.Join(ErrAsyncRejected, fmt.Errorf("field %q", field), p)
	case fmt.Stringer:
		return payloadMessages(field, p.String())
	}
	if l, ok := stringList(payload); ok {
		return l, nil
	}
	return []string{fmt.Sprint(payload)}, nil
}
