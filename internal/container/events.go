package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/onkoe/direction/internal/analytics"
	analyticsstore "github.com/onkoe/direction/internal/analytics/store"
	"github.com/onkoe/direction/internal/messaging"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// EventsPackage provides the in-process event bus used when Options.Events is "memory".
func EventsPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, messaging.NewZapLogger(logger)), nil
	})
}

// PublisherGroupPackage provides the link event publisher.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var publisher message.Publisher

		switch opts.Events {
		case EventsMemory:
			publisher = do.MustInvoke[*gochannel.GoChannel](i)
		case EventsRedis:
			client := do.MustInvoke[*RedisClient](i)

			p, err := redisstream.NewPublisher(redisstream.PublisherConfig{
				Client: client.Client,
			}, messaging.NewZapLogger(logger))
			if err != nil {
				return nil, fmt.Errorf("create redis stream publisher: %w", err)
			}

			publisher = p
		default:
			return nil, fmt.Errorf("no publisher for events %q", opts.Events)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the analytics consumers. Events come from the
// in-process bus for "memory" and from Redis streams otherwise.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var subscriber message.Subscriber

		if opts.Events == EventsMemory {
			subscriber = do.MustInvoke[*gochannel.GoChannel](i)
		} else {
			client := do.MustInvoke[*RedisClient](i)

			s, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        client.Client,
				ConsumerGroup: opts.ConsumerGroup,
			}, messaging.NewZapLogger(logger))
			if err != nil {
				return nil, fmt.Errorf("create redis stream subscriber: %w", err)
			}

			subscriber = s
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewConsumers(subscriber, analyticsstore.NewLog(logger), logger)...)

		return group, nil
	})
}
