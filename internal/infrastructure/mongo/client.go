package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds MongoDB connection settings
type Config struct {
	URL             string
	Database        string
	PoolSize        uint64
	MaxConnIdleTime time.Duration
}

// Connect opens a client, pings it, and returns the configured database with
// a cleanup function that disconnects.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*mongo.Database, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)
	if cfg.PoolSize > 0 {
		opts.SetMaxPoolSize(cfg.PoolSize)
	}

	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	cleanup := func() {
		if err := cli.Disconnect(context.Background()); err != nil {
			logger.Error("mongo close error", slog.String("error", err.Error()))
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx, nil); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("mongo connected", slog.String("database", cfg.Database))
	return cli.Database(cfg.Database), cleanup, nil
}
