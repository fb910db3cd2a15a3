package shortener

import "context"

// Store is a durable key/value store that links are persisted in.
//
// Implementations must be safe for concurrent use. Get reports a missing key
// with found == false and a nil error.
type Store interface {
	// Insert writes value under key, replacing whatever was there.
	Insert(ctx context.Context, key, value []byte) error

	// InsertIfAbsent writes value under key only when key is not yet present.
	// It returns false without error when the key already exists.
	InsertIfAbsent(ctx context.Context, key, value []byte) (inserted bool, err error)

	Get(ctx context.Context, key []byte) (value []byte, found bool, err error)

	Close() error
}

// Pinger is implemented by stores that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}
