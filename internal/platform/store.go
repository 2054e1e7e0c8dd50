package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/notes/pkg/adapters/fs"
	"github.com/aretw0/notes/pkg/adapters/memory"
	"github.com/aretw0/notes/pkg/adapters/mongo"
	"github.com/aretw0/notes/pkg/adapters/redis"
	"github.com/aretw0/notes/pkg/core"
)

// OpenStore returns the injected store, or opens the adapter selected with
// WithAdapter.
func OpenStore(ctx context.Context, opts ...Option) (core.Store, error) {
	return openStore(ctx, buildOptions(opts))
}

func openStore(ctx context.Context, o *options) (core.Store, error) {
	// 1. Check for injected store
	if o.store != nil {
		return o.store, nil
	}

	// 2. Initialize based on Adapter
	namespace, _ := o.config["namespace"].(string)

	switch o.adapter {
	case "memory":
		return memory.NewStore(), nil
	case "fs":
		return openFS(o)
	case "redis":
		addr, _ := o.config["redis_addr"].(string)
		password, _ := o.config["redis_password"].(string)
		db, _ := o.config["redis_db"].(int)
		store, err := redis.NewStore(ctx, redis.Config{
			Addr:      addr,
			Password:  password,
			DB:        db,
			Namespace: namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, nil
	case "mongo":
		uri, _ := o.config["mongo_uri"].(string)
		database, _ := o.config["mongo_db"].(string)
		store, err := mongo.NewStore(ctx, mongo.Config{
			URI:       uri,
			Database:  database,
			Namespace: namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAdapter, o.adapter)
	}
}

// openFS handles the initialization logic for the filesystem adapter.
func openFS(o *options) (core.Store, error) {
	path, _ := o.config["store_path"].(string)
	forceTemp, _ := o.config["force_temp"].(bool)
	if forceTemp || IsDevRun() {
		path = ResolveSessionPath(path, true)
	}
	if path == "" {
		var err error
		path, err = fs.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	var errHandler func(error)
	if fn, ok := o.config["watcher_error_handler"].(func(error)); ok {
		errHandler = fn
	}

	return fs.NewStore(fs.Config{
		Path:         path,
		Logger:       o.logger,
		ErrorHandler: errHandler,
	}), nil
}
