package redis

import (
	"context"
	"errors"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/clans/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("redis",
	fx.Provide(New),
)

// New builds the shared Redis client. It returns nil when Redis is disabled;
// consumers must treat a nil client as "feature off".
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*goredis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Info("redis disabled")
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if lc != nil {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return err
				}
				log.Info("redis connected", zap.String("addr", addr), zap.Int("db", cfg.Redis.DB))
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
	}

	return client, nil
}
