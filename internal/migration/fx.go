package migration

import (
	"context"

	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		seeded, err := seed.EnsureThresholds(context.Background(), conn)
		if err != nil {
			return err
		}
		log.Named("migration").Info("schema ready", zap.Int("thresholds_seeded", seeded))
		return nil
	}),
)
