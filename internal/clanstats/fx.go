package clanstats

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/clans/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultInterval = time.Minute

var Module = fx.Module("clan.stats",
	fx.Provide(NewPusher),
	fx.Provide(func(cfg config.Config, registerer prometheus.Registerer) *Stats {
		if !cfg.Stats.Enabled {
			return nil
		}
		return New(registerer, cfg.AppName, cfg.Environment)
	}),
	fx.Invoke(startWorker),
)

type workerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       config.Config
	Stats     *Stats
	Pusher    Pusher `optional:"true"`
	DB        *gorm.DB
	Log       *zap.Logger
}

func startWorker(p workerParams) {
	if p.Stats == nil {
		return
	}

	log := p.Log.Named("clan.stats")
	interval := time.Duration(p.Cfg.Stats.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting clan stats worker", zap.Duration("interval", interval))
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				tick(ctx, p.Stats, p.Pusher, p.DB, log)
				for {
					select {
					case <-ticker.C:
						tick(ctx, p.Stats, p.Pusher, p.DB, log)
					case <-ctx.Done():
						log.Info("stopping clan stats worker")
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func tick(ctx context.Context, stats *Stats, pusher Pusher, db *gorm.DB, log *zap.Logger) {
	if err := stats.Refresh(ctx, db); err != nil {
		log.Warn("clan stats refresh failed", zap.Error(err))
		return
	}
	if pusher == nil {
		return
	}
	if err := pusher.Push(ctx, stats.Registry()); err != nil {
		log.Warn("clan stats push failed", zap.Error(err))
	}
}
