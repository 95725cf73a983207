package liveevents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubscribeReturnsBacklog(t *testing.T) {
	hub := NewHub()
	hub.Publish(Event{Type: TypeState, State: "running"})
	hub.Publish(Event{Type: TypeCount, Quantity: 0.5})

	sub, backlog, err := hub.Subscribe()
	require.NoError(t, err)
	defer sub.Close()
	require.Len(t, backlog, 2)
	assert.Equal(t, "running", backlog[0].State)

	hub.Publish(Event{Type: TypeState, State: "paused"})
	select {
	case ev := <-sub.Events():
		assert.Equal(t, "paused", ev.State)
	case <-time.After(time.Second):
		t.Fatalf("expected live event")
	}
}

func TestBacklogIsBounded(t *testing.T) {
	hub := NewHub()
	for i := 0; i < DefaultBufferSize+10; i++ {
		hub.Publish(Event{Type: TypeCount, Quantity: float64(i)})
	}
	sub, backlog, err := hub.Subscribe()
	require.NoError(t, err)
	defer sub.Close()
	require.Len(t, backlog, DefaultBufferSize)
	assert.Equal(t, float64(10), backlog[0].Quantity)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	sub, _, err := hub.Subscribe()
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultSubscriberBuffer*4; i++ {
			hub.Publish(Event{Type: TypeCount})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}
	assert.Len(t, sub.Events(), DefaultSubscriberBuffer)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	hub := NewHub()
	sub, _, err := hub.Subscribe()
	require.NoError(t, err)

	hub.Close()
	_, ok := <-sub.Events()
	assert.False(t, ok)
	sub.Close()

	_, _, err = hub.Subscribe()
	assert.Error(t, err)
}

func TestBusWithoutRedisPublishesLocally(t *testing.T) {
	hub := NewHub()
	bus := NewBus(BusParams{Hub: hub, Log: zap.NewNop()})

	bus.Publish(context.Background(), Event{Type: TypeState, State: "stopped"})
	bus.Relay(context.Background())

	sub, backlog, err := hub.Subscribe()
	require.NoError(t, err)
	defer sub.Close()
	require.Len(t, backlog, 1)
	assert.NotEmpty(t, backlog[0].Origin)
}
