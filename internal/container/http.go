package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/onkoe/direction/internal/analytics"
	"github.com/onkoe/direction/internal/handlers"
	"github.com/onkoe/direction/internal/health"
	"github.com/onkoe/direction/internal/messaging"
	"github.com/onkoe/direction/internal/middleware"
	"github.com/onkoe/direction/internal/shortener"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		manager, err := do.Invoke[*shortener.Manager](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Direction", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		publishCreated := messaging.Discard[analytics.LinkCreatedEvent]()
		publishResolved := messaging.Discard[analytics.LinkResolvedEvent]()

		if opts.Events != EventsNone {
			group, err := do.Invoke[*messaging.PublisherGroup](i)
			if err != nil {
				return nil, err
			}

			publishCreated = messaging.NewPublishFunc[analytics.LinkCreatedEvent](
				group.Publisher(), analytics.TopicLinkCreated)
			publishResolved = messaging.NewPublishFunc[analytics.LinkResolvedEvent](
				group.Publisher(), analytics.TopicLinkResolved)
		}

		handlers.RegisterRoutes(api, handlers.NewLinkHandler(
			manager,
			opts.PublicURL(),
			publishCreated,
			publishResolved,
			logger,
		))

		health.RegisterRoutes(api, health.NewHandler(
			health.NewStoreChecker(manager.Store()),
			logger,
		))

		return api, nil
	})
}
