// Package async runs blocking functions off the calling goroutine so callers
// can abandon them when their context ends.
package async

import "context"

type result[T any] struct {
	val T
	err error
}

// Run calls fn on a new goroutine and waits for it or for ctx, whichever
// finishes first. When ctx wins, fn keeps running in the background and its
// result is discarded.
func Run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Wrap turns a blocking function into one that honours a context.
func Wrap[T any](fn func() (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return Run(ctx, fn)
	}
}
