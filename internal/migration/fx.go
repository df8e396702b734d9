package migration

import (
	"context"

	"github.com/smallbiznis/clans/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB, cfg db.Config, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if cfg.Type == db.TypeSQLite {
					return ApplySQLite(ctx, conn)
				}
				if err := RunPostgres(db.PostgresDSN(cfg)); err != nil {
					return err
				}
				log.Info("migrations applied")
				return nil
			},
		})
	}),
)
