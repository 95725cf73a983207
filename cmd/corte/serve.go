package main

import (
	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/control"
	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/smallbiznis/corte/internal/liveevents"
	"github.com/smallbiznis/corte/internal/migration"
	"github.com/smallbiznis/corte/internal/observability"
	"github.com/smallbiznis/corte/internal/providers/pdf"
	"github.com/smallbiznis/corte/internal/report"
	"github.com/smallbiznis/corte/internal/server"
	"github.com/smallbiznis/corte/internal/shift"
	"github.com/smallbiznis/corte/internal/threshold"
	"github.com/smallbiznis/corte/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the hold buttons, the lamps and the count input.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := fx.New(
			fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
				return &fxevent.ZapLogger{Logger: log.Named("fx")}
			}),

			// Core Infrastructure
			config.Module,
			observability.Module,
			fx.Provide(RegisterSnowflake),
			db.Module,
			clock.Module,
			migration.Module,

			// Functional Domains
			threshold.Module,
			shift.Module,
			report.Module,
			pdf.Module,
			liveevents.Module,

			// Line hardware
			hardware.Module,
			control.Module,

			server.Module,
		)
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}
