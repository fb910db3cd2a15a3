package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/onkoe/direction/internal/blocking"
	"github.com/onkoe/direction/internal/shortener"
	"github.com/onkoe/direction/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// RedisClient closes the shared Redis client on injector shutdown.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// RedisPackage provides the shared Redis client.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})}, nil
	})
}

// StorePackage provides the link store selected by Options.Store, optionally
// cached in Redis. Every call, cache lookups included, runs on the blocking
// pool.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*blocking.Pool, error) {
		opts := do.MustInvoke[*Options](i)

		return blocking.NewPool(opts.Workers), nil
	})

	do.Provide(i, func(i *do.Injector) (shortener.Store, error) {
		opts := do.MustInvoke[*Options](i)
		pool := do.MustInvoke[*blocking.Pool](i)
		logger := do.MustInvoke[*zap.Logger](i)

		s, err := openStore(context.Background(), i, opts, pool, logger)
		if err != nil {
			return nil, err
		}

		if opts.Cache {
			client := do.MustInvoke[*RedisClient](i)
			s = store.NewRedisCache(s, client.Client, opts.cacheTTL())

			logger.Info("link cache enabled", zap.Duration("ttl", opts.cacheTTL()))
		}

		logger.Info("link store ready",
			zap.String("backend", opts.Store),
			zap.Int("workers", pool.Size()),
		)

		return store.NewOffloaded(s, pool), nil
	})
}

// openStore returns the bare backend. Anything that may block while opening
// runs on pool.
func openStore(
	ctx context.Context,
	i *do.Injector,
	opts *Options,
	pool *blocking.Pool,
	logger *zap.Logger,
) (shortener.Store, error) {
	switch opts.Store {
	case StoreSQLite:
		db, err := store.OpenDir(ctx, opts.StorePath, pool, logger)
		if err != nil {
			return nil, err
		}

		return db, nil
	case StoreMemory:
		logger.Warn("using in-memory link store; links will not survive a restart")

		return store.NewMemoryStore(), nil
	case StoreRedis:
		client := do.MustInvoke[*RedisClient](i)

		return store.NewRedisStore(client.Client), nil
	case StorePostgres:
		pg, err := blocking.Call(ctx, pool, func() (*store.PostgresStore, error) {
			return openPostgres(ctx, opts.DatabaseURL)
		})
		if err != nil {
			return nil, err
		}

		return pg, nil
	default:
		return nil, fmt.Errorf("%w: unknown store %q", shortener.ErrStoreOpen, opts.Store)
	}
}

func openPostgres(ctx context.Context, databaseURL string) (*store.PostgresStore, error) {
	pgPool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shortener.ErrStoreOpen, err)
	}

	pg := store.NewPostgresStore(pgPool)
	if err := pg.Migrate(ctx); err != nil {
		pgPool.Close()

		return nil, fmt.Errorf("%w: %w", shortener.ErrStoreOpen, err)
	}

	return pg, nil
}

// ManagerPackage provides the link manager. The manager owns the store and
// closes it on shutdown.
func ManagerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Manager, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		gen, err := shortener.NewNanoidGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		s, err := do.Invoke[shortener.Store](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewManager(s,
			shortener.WithCodeGenerator(gen),
			shortener.WithMaxAttempts(uint(opts.MaxAttempts)),
			shortener.WithLogger(logger),
		), nil
	})
}
