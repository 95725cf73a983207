package main

import (
	"context"

	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/migration"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and seed default thresholds.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			conn *gorm.DB
			cfg  config.Config
		)
		// migrations run while the app starts
		return withApp(cmd.Context(), func(context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			version, dirty, err := migration.Version(sqlDB, cfg.DBType)
			if err != nil {
				return err
			}
			cmd.Printf("schema version %d (dirty=%t) on %s\n", version, dirty, cfg.DBType)
			return nil
		}, &conn, &cfg)
	},
}
