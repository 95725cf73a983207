package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LineConfig holds operator tunables that may change while the line is running.
type LineConfig struct {
	// PulseQuantity is the quantity recorded for every accepted count pulse.
	PulseQuantity float64 `mapstructure:"pulseQuantity"`
	// PulseLockout drops pulses arriving this soon after the last accepted one.
	PulseLockout time.Duration `mapstructure:"pulseLockout"`
	// SeedBatch is the number of counts added by the commissioning seed.
	SeedBatch int `mapstructure:"seedBatch"`
}

func DefaultLineConfig() LineConfig {
	return LineConfig{
		PulseQuantity: 0.5,
		PulseLockout:  time.Second,
		SeedBatch:     40,
	}
}

type LineConfigHolder struct {
	current atomic.Value // holds LineConfig
}

// NewStaticLineConfigHolder returns a holder that never reloads.
func NewStaticLineConfigHolder(cfg LineConfig) *LineConfigHolder {
	holder := &LineConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewLineConfigHolder(log *zap.Logger) (*LineConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.line")

	v := viper.New()

	v.SetConfigName("line")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/corte/config")
	v.AddConfigPath("/etc/corte")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CORTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLineConfig()
	v.SetDefault("line.pulseQuantity", defaults.PulseQuantity)
	v.SetDefault("line.pulseLockout", defaults.PulseLockout)
	v.SetDefault("line.seedBatch", defaults.SeedBatch)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Info("line config file not found, using defaults")
	}

	var cfg LineConfig
	if err := v.UnmarshalKey("line", &cfg); err != nil {
		return nil, err
	}
	if err := validateLineConfig(cfg); err != nil {
		return nil, err
	}

	holder := &LineConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated LineConfig
		if err := v.UnmarshalKey("line", &updated); err != nil {
			log.Warn("line config reload failed", zap.Error(err))
			return
		}
		if err := validateLineConfig(updated); err != nil {
			log.Warn("invalid line config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("line config reloaded",
			zap.String("file", e.Name),
			zap.Float64("pulse_quantity", updated.PulseQuantity),
			zap.Duration("pulse_lockout", updated.PulseLockout),
		)
	})

	return holder, nil
}

func (h *LineConfigHolder) Get() LineConfig {
	if h == nil {
		return DefaultLineConfig()
	}
	cfg, ok := h.current.Load().(LineConfig)
	if !ok {
		return DefaultLineConfig()
	}
	return cfg
}

func validateLineConfig(cfg LineConfig) error {
	if cfg.PulseQuantity <= 0 {
		return errors.New("line.pulseQuantity must be positive")
	}
	if cfg.PulseLockout < 0 {
		return errors.New("line.pulseLockout cannot be negative")
	}
	if cfg.SeedBatch <= 0 {
		return errors.New("line.seedBatch must be positive")
	}
	return nil
}
