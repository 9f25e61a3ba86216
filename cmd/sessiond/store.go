package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/mongostore"
	"github.com/dmitrymomot/sessionkit/pkg/session/pgstore"
	"github.com/dmitrymomot/sessionkit/pkg/session/redisstore"
)

const sweepInterval = time.Minute

var errUnsupportedStore = errors.New("unsupported session store url scheme")

// backend is an opened store with its readiness probe and release hook.
type backend struct {
	store session.Store
	kind  string
	ready httpserver.Check
	close func(context.Context) error
}

// openStore selects the backend by URL scheme.
func openStore(ctx context.Context, cfg session.StoreConfig, log *slog.Logger) (*backend, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse session store url: %w", err)
	}

	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		client, err := mongo.New(ctx, mongo.DefaultConfig(cfg.URL))
		if err != nil {
			return nil, err
		}
		database := cfg.Database
		if database == "" {
			database = "sessions"
		}
		store := mongostore.New(client.Database(database), cfg.Collection)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		log.InfoContext(ctx, "session store ready", slog.String("backend", "mongodb"), slog.String("database", database))
		return &backend{
			store: store,
			kind:  "mongodb",
			ready: mongo.Healthcheck(client),
			close: client.Disconnect,
		}, nil

	case "postgres", "postgresql":
		cfgPG := pg.DefaultConfig(cfg.URL)
		pool, err := pg.Connect(ctx, cfgPG)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, pgstore.Migrations(), cfgPG, log); err != nil {
			pool.Close()
			return nil, err
		}
		store := pgstore.New(pool,
			pgstore.WithSweepInterval(sweepInterval),
			pgstore.WithLogger(log.With(logger.Component("pgstore"))),
		)
		log.InfoContext(ctx, "session store ready", slog.String("backend", "postgres"))
		return &backend{
			store: store,
			kind:  "postgres",
			ready: pg.Healthcheck(pool),
			close: func(context.Context) error {
				err := store.Close()
				pool.Close()
				return err
			},
		}, nil

	case "redis", "rediss":
		client, err := redis.Connect(ctx, redis.DefaultConfig(cfg.URL))
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "session store ready", slog.String("backend", "redis"))
		return &backend{
			store: redisstore.New(client),
			kind:  "redis",
			ready: redis.Healthcheck(client),
			close: func(context.Context) error { return client.Close() },
		}, nil

	case "memory":
		store := session.NewMemoryStore(sweepInterval)
		log.WarnContext(ctx, "using in-memory session store; sessions are lost on restart")
		return &backend{
			store: store,
			kind:  "memory",
			ready: func(context.Context) error { return nil },
			close: func(context.Context) error { return store.Close() },
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", errUnsupportedStore, u.Scheme)
}
