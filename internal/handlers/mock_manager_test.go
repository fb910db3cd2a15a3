package handlers_test

import (
	"context"
	"errors"

	"github.com/onkoe/direction/internal/messaging"
	"github.com/onkoe/direction/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com/very/long/path"

// mockManager is a test double for LinkManager that always fails with err.
type mockManager struct {
	err error
}

func (m *mockManager) Generate(_ context.Context, _ string, _ []string) (*shortener.Link, error) {
	return nil, m.err
}

func (m *mockManager) Resolve(_ context.Context, _ shortener.Code) (*shortener.Link, error) {
	return nil, m.err
}

// recorder collects published events.
type recorder[T any] struct {
	events []*T
}

func (r *recorder[T]) publish() messaging.Publish[T] {
	return func(_ context.Context, event *T) error {
		r.events = append(r.events, event)

		return nil
	}
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ context.Context, _ *T) error { return err }
}
