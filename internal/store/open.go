package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/onkoe/direction/internal/blocking"
	"github.com/onkoe/direction/internal/shortener"
	"go.uber.org/zap"
)

// TempDirName is the directory under os.TempDir used when no location is given.
const TempDirName = "direction"

// OpenDir opens the on-disk link store in directory dir, creating it when
// needed. An empty dir selects a directory under the system temp dir, which is
// not guaranteed to survive a restart.
//
// The open runs on pool. Failures are reported as shortener.ErrStoreOpen.
func OpenDir(ctx context.Context, dir string, pool *blocking.Pool, logger *zap.Logger) (*SQLiteStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), TempDirName)

		logger.Warn("no store location provided, using a temporary directory; links may not survive a restart",
			zap.String("dir", dir),
		)
	}

	path := filepath.Join(dir, SQLiteFile)

	db, err := blocking.Call(ctx, pool, func() (*SQLiteStore, error) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}

		return OpenSQLiteStore(context.WithoutCancel(ctx), path)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", shortener.ErrStoreOpen, dir, err)
	}

	logger.Info("link store opened", zap.String("path", path))

	return db, nil
}

// Open is OpenDir with every later call also running on pool.
func Open(ctx context.Context, dir string, pool *blocking.Pool, logger *zap.Logger) (*Offloaded, error) {
	db, err := OpenDir(ctx, dir, pool, logger)
	if err != nil {
		return nil, err
	}

	return NewOffloaded(db, pool), nil
}
