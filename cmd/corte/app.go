package main

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/migration"
	"github.com/smallbiznis/corte/internal/report"
	"github.com/smallbiznis/corte/internal/shift"
	"github.com/smallbiznis/corte/internal/threshold"
	"github.com/smallbiznis/corte/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const startTimeout = 30 * time.Second

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// newCLILogger keeps one-shot commands quiet: warnings and errors only, on
// stderr, so table output stays clean.
func newCLILogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// storageOptions wires the database and read-side services without the HTTP
// server or the GPIO lines, so it can run next to a live `corte serve`.
func storageOptions() []fx.Option {
	return []fx.Option{
		fx.NopLogger,
		config.Module,
		fx.Provide(newCLILogger),
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		threshold.Module,
		shift.Module,
		report.Module,
	}
}

// withApp starts a storage-only app, populates targets and runs fn.
func withApp(ctx context.Context, fn func(context.Context) error, targets ...any) error {
	opts := append(storageOptions(), fx.Populate(targets...))
	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx)
}
