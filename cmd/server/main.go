package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/onkoe/direction/internal/container"
	"github.com/onkoe/direction/internal/messaging"
	"github.com/onkoe/direction/internal/shortener"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.StorePackage(injector)
	container.ManagerPackage(injector)
	container.EventsPackage(injector)
	container.PublisherGroupPackage(injector)
	container.ConsumerGroupPackage(injector)
	container.HTTPPackage(injector)
}

// newInjector registers every package and returns the validated logger.
func newInjector(options *container.Options) (*do.Injector, *zap.Logger) {
	injector := do.New()
	registerPackages(injector, options)

	logger := do.MustInvoke[*zap.Logger](injector)

	if err := options.Validate(); err != nil {
		logger.Fatal("invalid options", zap.Error(err))
	}

	return injector, logger
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector, logger := newInjector(options)

		var (
			server *http.Server
			cancel context.CancelFunc = func() {}
		)

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			// In-process events are consumed by this process.
			if options.Events == container.EventsMemory {
				var ctx context.Context
				ctx, cancel = context.WithCancel(context.Background())

				group := do.MustInvoke[*messaging.ConsumerGroup](injector)
				if err := group.Start(ctx); err != nil {
					logger.Fatal("failed to start consumer group", zap.Error(err))
				}
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("store", options.Store),
				zap.String("events", options.Events),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, stop := context.WithTimeout(context.Background(), 30*time.Second)
			defer stop()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			cancel()

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	root := cli.Root()
	root.Use = "direction"
	root.Short = "Shorten URLs into compact codes"

	generate := &cobra.Command{
		Use:   "generate <url>",
		Short: "Create a short link for a URL",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *container.Options) {
			aliases, _ := cmd.Flags().GetStringSlice("alias")
			if !cmd.Flags().Changed("alias") {
				aliases = nil
			}

			exitOnError(cmd, runLinkCommand(cmd.Context(), cmd.OutOrStdout(), options,
				func(ctx context.Context, mgr *shortener.Manager) (*shortener.Link, error) {
					return mgr.Generate(ctx, args[0], aliases)
				}))
		}),
	}
	generate.Flags().StringSliceP("alias", "a", nil, "Alternate name for the link (repeatable)")

	resolve := &cobra.Command{
		Use:   "resolve <code>",
		Short: "Look up the link stored under a short code",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *container.Options) {
			exitOnError(cmd, runLinkCommand(cmd.Context(), cmd.OutOrStdout(), options,
				func(ctx context.Context, mgr *shortener.Manager) (*shortener.Link, error) {
					return mgr.Resolve(ctx, shortener.Code(args[0]))
				}))
		}),
	}

	root.AddCommand(generate, resolve)

	cli.Run()
}

// linkOutput is the JSON printed by the generate and resolve commands.
type linkOutput struct {
	Identifier  string   `json:"identifier"`
	Code        string   `json:"code"`
	ShortURL    string   `json:"shortUrl"`
	OriginalURL string   `json:"originalUrl"`
	Aliases     []string `json:"aliases,omitempty"`
}

// runLinkCommand opens the configured store, runs one manager operation and
// prints the resulting link to out. The store is closed before it returns.
func runLinkCommand(
	ctx context.Context,
	out io.Writer,
	options *container.Options,
	run func(ctx context.Context, mgr *shortener.Manager) (*shortener.Link, error),
) (err error) {
	if err := options.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	injector := do.New()
	registerPackages(injector, options)

	defer func() {
		err = errors.Join(err, injector.Shutdown())
	}()

	mgr, err := do.Invoke[*shortener.Manager](injector)
	if err != nil {
		return err
	}

	link, err := run(ctx, mgr)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(linkOutput{
		Identifier:  link.Identifier.String(),
		Code:        string(link.ShortCode),
		ShortURL:    fmt.Sprintf("%s/%s", options.PublicURL(), link.ShortCode),
		OriginalURL: link.OriginalURL.String(),
		Aliases:     link.Aliases,
	})
}

// exitOnError reports err and exits non-zero. humacli commands cannot return
// errors to cobra.
func exitOnError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", cmd.Name(), err)
	os.Exit(1)
}
