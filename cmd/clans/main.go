package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clans/internal/clan"
	"github.com/smallbiznis/clans/internal/clanstats"
	"github.com/smallbiznis/clans/internal/clock"
	"github.com/smallbiznis/clans/internal/config"
	"github.com/smallbiznis/clans/internal/lock"
	"github.com/smallbiznis/clans/internal/migration"
	"github.com/smallbiznis/clans/internal/observability"
	"github.com/smallbiznis/clans/internal/server"
	"github.com/smallbiznis/clans/pkg/db"
	"github.com/smallbiznis/clans/pkg/redis"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		redis.Module,
		lock.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		clan.Module,
		clanstats.Module,
		server.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
