// Package direction shortens URLs into compact codes backed by an on-disk store.
//
//	mgr, err := direction.Create(ctx, "/var/lib/direction", logger)
//	if err != nil {
//		return err
//	}
//	defer mgr.Shutdown()
//
//	link, err := mgr.Generate(ctx, "https://example.com/a/long/path", nil)
//	...
//	same, err := mgr.Resolve(ctx, link.ShortCode)
package direction

import (
	"context"

	"github.com/onkoe/direction/internal/blocking"
	"github.com/onkoe/direction/internal/shortener"
	"github.com/onkoe/direction/internal/store"
	"go.uber.org/zap"
)

type (
	Link    = shortener.Link
	Code    = shortener.Code
	Manager = shortener.Manager
	Option  = shortener.Option
)

var (
	ErrInvalidLink        = shortener.ErrInvalidLink
	ErrStoreOpen          = shortener.ErrStoreOpen
	ErrStoreAccess        = shortener.ErrStoreAccess
	ErrLinkEncoding       = shortener.ErrLinkEncoding
	ErrLinkDecoding       = shortener.ErrLinkDecoding
	ErrLinkNotFound       = shortener.ErrLinkNotFound
	ErrShortCodeExhausted = shortener.ErrShortCodeExhausted
)

// Create opens the link store in dir and returns a Manager that owns it.
// An empty dir uses a temporary directory and logs a warning. Call
// Manager.Shutdown to close the store.
func Create(ctx context.Context, dir string, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := store.Open(ctx, dir, blocking.NewPool(0), logger)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{shortener.WithLogger(logger)}, opts...)

	return shortener.NewManager(s, opts...), nil
}

// WithCodeLength sets the length of generated short codes.
func WithCodeLength(length int) (Option, error) {
	gen, err := shortener.NewNanoidGenerator(length)
	if err != nil {
		return nil, err
	}

	return shortener.WithCodeGenerator(gen), nil
}

// WithMaxAttempts bounds the short codes tried per Generate call.
func WithMaxAttempts(n uint) Option {
	return shortener.WithMaxAttempts(n)
}
