package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a topic consumer with a start/stop lifecycle.
type Runnable interface {
	Topic() string
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs the consumers sharing one subscriber and closes that
// subscriber once they have all stopped.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewConsumerGroup creates an empty group over subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers consumers. It must be called before Start.
func (g *ConsumerGroup) Add(consumers ...Runnable) {
	g.consumers = append(g.consumers, consumers...)
}

// Len returns the number of registered consumers.
func (g *ConsumerGroup) Len() int {
	return len(g.consumers)
}

// Topics returns the topics of the registered consumers in order.
func (g *ConsumerGroup) Topics() []string {
	topics := make([]string, 0, len(g.consumers))
	for _, c := range g.consumers {
		topics = append(topics, c.Topic())
	}

	return topics
}

// Start starts every consumer. If one fails, those already running are
// stopped again and the error names the failing topic.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, c := range g.consumers {
		if err := c.Start(ctx); err != nil {
			for _, started := range g.consumers[:i] {
				_ = started.Shutdown()
			}

			return fmt.Errorf("start consumer for %s: %w", c.Topic(), err)
		}
	}

	g.logger.Info("consumer group started", zap.Strings("topics", g.Topics()))

	return nil
}

// Shutdown stops every consumer, then closes the subscriber. Errors from all
// of them are joined. Later calls return the first result.
func (g *ConsumerGroup) Shutdown() error {
	g.shutdownOnce.Do(func() {
		g.logger.Info("shutting down consumer group")

		errs := make([]error, 0, len(g.consumers)+1)
		for _, c := range g.consumers {
			errs = append(errs, c.Shutdown())
		}

		errs = append(errs, g.subscriber.Close())
		g.shutdownErr = errors.Join(errs...)
	})

	return g.shutdownErr
}
