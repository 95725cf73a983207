package liveevents

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("liveevents",
	fx.Provide(NewHub),
	fx.Provide(NewBus),
	fx.Provide(func(b *Bus) Publisher { return b }),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, hub *Hub, bus *Bus) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				bus.Relay(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			hub.Close()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
