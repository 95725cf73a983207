package hardware

import (
	"context"

	"github.com/smallbiznis/corte/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("hardware",
	fx.Provide(Provide),
)

// Provide opens the GPIO lines when hardware is enabled. A device without the
// expected chip degrades to the no-op context instead of failing startup.
func Provide(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *Context {
	log = log.Named("hardware")

	hw := NewNoop()
	if cfg.Hardware.Enabled {
		opened, err := New(cfg.Hardware, log)
		if err != nil {
			log.Warn("gpio unavailable, running without hardware", zap.Error(err))
		} else {
			hw = opened
		}
	} else {
		log.Info("hardware disabled")
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := hw.Siren.Silence(); err != nil {
				log.Warn("failed to silence siren", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return hw.Close()
		},
	})
	return hw
}
