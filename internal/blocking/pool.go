// Package blocking runs blocking calls on a bounded set of goroutines so that
// callers can stop waiting on cancellation without aborting the call itself.
package blocking

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of blocking calls running at once.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

// NewPool creates a pool running at most size calls concurrently.
// A size below one uses GOMAXPROCS.
func NewPool(size int) *Pool {
	if size < 1 {
		size = runtime.GOMAXPROCS(0)
	}

	return &Pool{
		size: int64(size),
		sem:  semaphore.NewWeighted(int64(size)),
	}
}

// Size returns the maximum number of concurrent calls.
func (p *Pool) Size() int {
	return int(p.size)
}

// Do runs fn on a pool goroutine and waits for it.
//
// If ctx is done first, Do returns ctx.Err() while fn keeps running to
// completion in the background; its result is dropped.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)

	go func() {
		defer p.sem.Release(1)
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call is Do for functions that return a value.
func Call[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	var result T

	err := p.Do(ctx, func() error {
		v, err := fn()
		if err != nil {
			return err
		}

		result = v

		return nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return result, nil
}

// Drain blocks until every running call has finished.
func (p *Pool) Drain(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.size); err != nil {
		return err
	}

	p.sem.Release(p.size)

	return nil
}
