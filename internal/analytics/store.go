package analytics

import "context"

// Store defines the interface for persisting link events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkResolved(ctx context.Context, event *LinkResolvedEvent) error
}
