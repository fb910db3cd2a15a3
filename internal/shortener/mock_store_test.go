package shortener_test

import (
	"context"
	"errors"
)

var errMock = errors.New("mock error")

// failingStore is a shortener.Store whose calls fail with the configured errors.
type failingStore struct {
	insertErr error
	getErr    error
	closed    bool
}

func (f *failingStore) Insert(_ context.Context, _, _ []byte) error {
	return f.insertErr
}

func (f *failingStore) InsertIfAbsent(_ context.Context, _, _ []byte) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}

	return true, nil
}

func (f *failingStore) Get(_ context.Context, _ []byte) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}

	return nil, false, nil
}

func (f *failingStore) Close() error {
	f.closed = true

	return nil
}
