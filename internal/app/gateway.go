package app

import (
	"context"
	"fmt"
	"io"

	"github.com/MrSnakeDoc/beanstalk/internal/config"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/redis"
	"github.com/MrSnakeDoc/beanstalk/internal/store"
	"github.com/MrSnakeDoc/beanstalk/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/beanstalk/internal/store/redis"
	"github.com/MrSnakeDoc/beanstalk/internal/store/sqlstore"
)

// openGateway connects the backend selected by cfg.Store. The returned
// closer is nil for backends holding no resources.
func openGateway(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Gateway, io.Closer, error) {
	log = log.With(logger.String("store", cfg.Store))

	switch cfg.Store {
	case config.BackendSQLite:
		s, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info("sqlite store opened", logger.String("path", cfg.SQLitePath))
		return s, s, nil

	case config.BackendPostgres:
		s, err := sqlstore.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		log.Info("postgres store opened")
		return s, s, nil

	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client), client, nil

	case config.BackendMemory:
		log.Warn("memory store selected, journal will not survive a restart")
		return memory.New(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
