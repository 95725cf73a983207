package liveevents

import (
	"context"
	"encoding/json"

	"github.com/oklog/ulid/v2"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const Channel = "corte:events"

// Publisher is implemented by Bus.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Bus publishes to the local hub and, when redis is configured, to Channel so
// the API and hardware processes see each other's events.
type Bus struct {
	hub    *Hub
	client *redis.Client
	origin string
	log    *zap.Logger
}

type BusParams struct {
	fx.In

	Hub   *Hub
	Log   *zap.Logger
	Redis *redis.Client `optional:"true"`
}

func NewBus(p BusParams) *Bus {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		hub:    p.Hub,
		client: p.Redis,
		origin: ulid.Make().String(),
		log:    log.Named("liveevents.bus"),
	}
}

func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil {
		return
	}
	event.Origin = b.origin
	b.hub.Publish(event)

	if b.client == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.Warn("failed to encode event", zap.Error(err))
		return
	}
	if err := b.client.Publish(ctx, Channel, payload).Err(); err != nil {
		b.log.Warn("failed to relay event", zap.String("type", event.Type), zap.Error(err))
	}
}

// Relay copies events published by other processes into the local hub until
// ctx is done.
func (b *Bus) Relay(ctx context.Context) {
	if b == nil || b.client == nil {
		return
	}
	sub := b.client.Subscribe(ctx, Channel)
	defer sub.Close()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Debug("ignoring malformed event", zap.Error(err))
				continue
			}
			if event.Origin == b.origin {
				continue
			}
			b.hub.Publish(event)
		}
	}
}
