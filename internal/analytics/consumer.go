package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/onkoe/direction/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumers returns one consumer per link topic, each persisting into store.
func NewConsumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicLinkCreated, store.SaveLinkCreated, logger),
		messaging.NewConsumer(subscriber, TopicLinkResolved, store.SaveLinkResolved, logger),
	}
}
