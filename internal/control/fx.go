package control

import (
	"context"
	"strings"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/corte/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("control",
	fx.Provide(NewRedisClient),
	fx.Provide(NewRedisLocker),
	fx.Provide(NewLampSync),
	fx.Provide(New),
	fx.Provide(NewGateway),
	fx.Provide(NewCounter),
	fx.Invoke(registerLoops),
)

// NewRedisClient returns nil when REDIS_ADDR is unset; the lock and the event
// bus then stay process-local.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if !cfg.RedisEnabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func registerLoops(lc fx.Lifecycle, ctrl *Controller, gateway *Gateway, counter *Counter, log *zap.Logger) {
	log = log.Named("control")
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			state, err := ctrl.SyncLamps(startCtx)
			if err != nil {
				log.Warn("initial lamp sync failed", zap.Error(err))
			} else {
				log.Info("line state restored", zap.String("state", string(state)))
			}

			wg.Add(2)
			go func() {
				defer wg.Done()
				gateway.Run(ctx)
			}()
			go func() {
				defer wg.Done()
				counter.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
