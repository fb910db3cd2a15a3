package store

import (
	"context"

	"github.com/onkoe/direction/internal/analytics"
	"go.uber.org/zap"
)

// Log is an analytics.Store that only writes events to the log.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a new logging analytics store.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	l.logger.Info("link created",
		zap.String("identifier", event.Identifier),
		zap.String("code", event.Code),
		zap.String("originalUrl", event.OriginalURL),
		zap.Strings("aliases", event.Aliases),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (l *Log) SaveLinkResolved(_ context.Context, event *analytics.LinkResolvedEvent) error {
	l.logger.Info("link resolved",
		zap.String("code", event.Code),
		zap.Bool("redirect", event.Redirect),
		zap.Time("resolvedAt", event.ResolvedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Log)(nil)
