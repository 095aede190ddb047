package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/handler"
	mongoinfra "github.com/aryan0dhankhar/sitebook/internal/infrastructure/mongo"
	redisinfra "github.com/aryan0dhankhar/sitebook/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/sitebook/internal/reliability/retry"
	"github.com/aryan0dhankhar/sitebook/internal/repository/memory"
	mongostore "github.com/aryan0dhankhar/sitebook/internal/repository/mongo"
	"github.com/aryan0dhankhar/sitebook/internal/repository/postgres"
	redisstore "github.com/aryan0dhankhar/sitebook/internal/repository/redis"
	"github.com/aryan0dhankhar/sitebook/pkg/config"
	"github.com/aryan0dhankhar/sitebook/pkg/database"
)

// backend is an opened record store with its health check and cleanup
type backend struct {
	store domain.Store
	ping  handler.Pinger
	close func()
}

// openStore connects the configured backend, retrying while it comes up
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	policy := retry.StoreConnect()

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		dbCfg := database.DefaultConfig()
		dbCfg.URL = cfg.Database.URL
		dbCfg.Host = cfg.Database.Host
		dbCfg.Port = cfg.Database.Port
		dbCfg.User = cfg.Database.User
		dbCfg.Password = cfg.Database.Password
		dbCfg.Database = cfg.Database.Name
		dbCfg.SSLMode = cfg.Database.SSLMode

		pool, err := retry.Do(ctx, policy, log, "postgres connect", func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, dbCfg, log)
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool.DB()); err != nil {
			_ = pool.Close()
			return nil, err
		}
		return &backend{
			store: postgres.NewStore(pool.DB(), log),
			ping:  handler.PingFunc(pool.Health),
			close: func() { _ = pool.Close() },
		}, nil

	case config.BackendRedis:
		client, err := retry.Do(ctx, policy, log, "redis connect", func(context.Context) (*redisinfra.Client, error) {
			return redisinfra.NewClient(cfg.RedisURL)
		})
		if err != nil {
			return nil, err
		}
		return &backend{
			store: redisstore.NewStore(client),
			ping:  client,
			close: func() { _ = client.Close() },
		}, nil

	case config.BackendMongo:
		type conn struct {
			store   domain.Store
			ping    handler.Pinger
			cleanup func()
		}
		c, err := retry.Do(ctx, policy, log, "mongo connect", func(ctx context.Context) (conn, error) {
			db, cleanup, err := mongoinfra.Connect(ctx, mongoinfra.Config{URL: cfg.MongoURL, Database: cfg.MongoDB}, log)
			if err != nil {
				return conn{}, err
			}
			store, err := mongostore.NewStore(ctx, db)
			if err != nil {
				cleanup()
				return conn{}, err
			}
			ping := handler.PingFunc(func(ctx context.Context) error { return db.Client().Ping(ctx, nil) })
			return conn{store: store, ping: ping, cleanup: cleanup}, nil
		})
		if err != nil {
			return nil, err
		}
		return &backend{store: c.store, ping: c.ping, close: c.cleanup}, nil

	case config.BackendMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return &backend{
			store: memory.NewStore(),
			ping:  handler.PingFunc(func(context.Context) error { return nil }),
			close: func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
