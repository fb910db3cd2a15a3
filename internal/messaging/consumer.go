package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes a single event. Handlers are synchronous and easy to test.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer decodes the JSON messages of one topic into T and hands them to a
// Handler. A message is acked when the handler succeeds and nacked otherwise,
// including when the payload does not decode or the handler panics.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	logger     *zap.Logger

	cancel       context.CancelFunc
	done         chan struct{}
	shutdownOnce sync.Once

	processed atomic.Uint64
	failed    atomic.Uint64
}

// NewConsumer creates a consumer of topic.
func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
) *Consumer[T] {
	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		done:       make(chan struct{}),
	}
}

// Topic returns the topic this consumer subscribes to.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Processed returns how many messages were acked.
func (c *Consumer[T]) Processed() uint64 {
	return c.processed.Load()
}

// Failed returns how many messages were nacked.
func (c *Consumer[T]) Failed() uint64 {
	return c.failed.Load()
}

// Start subscribes and consumes in the background until ctx is done or
// Shutdown is called.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		c.cancel()
		close(c.done)

		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}

	go func() {
		defer close(c.done)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				c.settle(msg, c.process(ctx, msg))
			}
		}
	}()

	return nil
}

func (c *Consumer[T]) process(ctx context.Context, msg *message.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	return c.handler(ctx, &event)
}

func (c *Consumer[T]) settle(msg *message.Message, err error) {
	if err != nil {
		c.failed.Add(1)
		c.logger.Error("failed to handle event",
			zap.String("message_uuid", msg.UUID),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	c.processed.Add(1)
	msg.Ack()

	c.logger.Debug("processed event", zap.String("message_uuid", msg.UUID))
}

// Shutdown stops the consumer and waits for the message in flight, if any.
// It is safe to call more than once and before Start.
func (c *Consumer[T]) Shutdown() error {
	c.shutdownOnce.Do(func() {
		if c.cancel == nil {
			return
		}

		c.cancel()
		<-c.done

		c.logger.Info("consumer stopped",
			zap.Uint64("processed", c.Processed()),
			zap.Uint64("failed", c.Failed()),
		)
	})

	return nil
}
