package db

import (
	"context"
	"fmt"
	"time"

	"simple-blog/configs"
)

// Open builds the configured post store. For postgres the schema is migrated
// first; when a Redis URL is configured the store is wrapped in a list cache.
func Open(cfg *configs.Config) (PostStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store PostStore
	switch cfg.Store.Driver {
	case configs.StoreMongo:
		mongoStore, err := NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		store = mongoStore
	case configs.StorePostgres:
		conn, err := OpenPostgres(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := Migrate(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
		store = NewPostgresStore(conn)
	case configs.StoreMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Redis.URL == "" {
		return store, nil
	}

	client, err := NewRedisClient(ctx, DefaultRedisConfig(cfg.Redis.URL))
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	return NewCachedStore(store, client, cfg.Redis.CacheTTL), nil
}
