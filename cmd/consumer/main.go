package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/onkoe/direction/internal/config"
	"github.com/onkoe/direction/internal/container"
	"github.com/onkoe/direction/internal/messaging"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConsumer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	opts := &container.Options{
		RedisAddr:     cfg.RedisAddr,
		ConsumerGroup: cfg.ConsumerGroup,
		Events:        container.EventsRedis,
		LogFormat:     cfg.LogFormat,
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	logger.Info("consumer started",
		zap.String("redis", cfg.RedisAddr),
		zap.String("group", cfg.ConsumerGroup),
	)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	_ = logger.Sync()

	logger.Info("shutdown complete")
}
