package store

import (
	"context"
	"errors"
	"sync"

	"github.com/onkoe/direction/internal/blocking"
	"github.com/onkoe/direction/internal/shortener"
)

var errClosed = errors.New("store is closed")

// Offloaded runs every call of the wrapped store on a blocking pool.
//
// Calls started under a context that gets cancelled still run to completion;
// the caller just stops waiting for them.
type Offloaded struct {
	store shortener.Store
	pool  *blocking.Pool

	// mu is held for reading from the closed check until the call is handed
	// to the pool, and for writing while Close flips closed.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// NewOffloaded wraps store so that its calls run on pool.
func NewOffloaded(store shortener.Store, pool *blocking.Pool) *Offloaded {
	return &Offloaded{
		store: store,
		pool:  pool,
	}
}

func (o *Offloaded) Insert(ctx context.Context, key, value []byte) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return errClosed
	}

	inner := context.WithoutCancel(ctx)

	return o.pool.Do(ctx, func() error {
		return o.store.Insert(inner, key, value)
	})
}

func (o *Offloaded) InsertIfAbsent(ctx context.Context, key, value []byte) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return false, errClosed
	}

	inner := context.WithoutCancel(ctx)

	return blocking.Call(ctx, o.pool, func() (bool, error) {
		return o.store.InsertIfAbsent(inner, key, value)
	})
}

type getResult struct {
	value []byte
	found bool
}

func (o *Offloaded) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return nil, false, errClosed
	}

	inner := context.WithoutCancel(ctx)

	res, err := blocking.Call(ctx, o.pool, func() (getResult, error) {
		value, found, err := o.store.Get(inner, key)

		return getResult{value: value, found: found}, err
	})
	if err != nil {
		return nil, false, err
	}

	return res.value, res.found, nil
}

// Ping forwards to the wrapped store when it supports health checks.
func (o *Offloaded) Ping(ctx context.Context) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return errClosed
	}

	pinger, ok := o.store.(shortener.Pinger)
	if !ok {
		return nil
	}

	return o.pool.Do(ctx, func() error {
		return pinger.Ping(ctx)
	})
}

// Close rejects new calls, waits for in-flight ones, including those whose
// caller already gave up, and then closes the wrapped store.
func (o *Offloaded) Close() error {
	o.closeOnce.Do(func() {
		o.mu.Lock()
		o.closed = true
		o.mu.Unlock()

		if err := o.pool.Drain(context.Background()); err != nil {
			o.closeErr = err

			return
		}

		o.closeErr = o.pool.Do(context.Background(), o.store.Close)
	})

	return o.closeErr
}

// Compile-time check.
var _ shortener.Store = (*Offloaded)(nil)
