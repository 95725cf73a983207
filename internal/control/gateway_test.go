package control

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func hold(t *testing.T, h *harness, button hardware.Button) (Result, bool) {
	t.Helper()
	res, dispatched, err := h.ctrl.HandleHold(context.Background(), button)
	require.NoError(t, err)
	return res, dispatched
}

func TestStartButtonNeverPerformsFirstStart(t *testing.T) {
	h := newHarness(t)
	h.createShift(t)

	_, dispatched := hold(t, h, hardware.ButtonStart)
	assert.False(t, dispatched)
	assert.Equal(t, StateStopped, h.state(t))
}

func TestHoldStartOnRunningShiftIsNoop(t *testing.T) {
	h := newHarness(t)
	h.createShift(t)
	_, err := h.ctrl.StartOrResume(context.Background())
	require.NoError(t, err)

	writes := h.rig.LampWrites()
	_, dispatched := hold(t, h, hardware.ButtonStart)
	assert.False(t, dispatched)
	assert.Equal(t, StateRunning, h.state(t))
	assert.Equal(t, writes, h.rig.LampWrites())
}

func TestHoldSequence(t *testing.T) {
	h := newHarness(t)
	h.createShift(t)
	_, err := h.ctrl.StartOrResume(context.Background())
	require.NoError(t, err)

	res, dispatched := hold(t, h, hardware.ButtonPause)
	require.True(t, dispatched)
	assert.True(t, res.OK)
	assert.Equal(t, StatePaused, h.state(t))

	_, dispatched = hold(t, h, hardware.ButtonPause)
	assert.False(t, dispatched, "pause button on a paused shift is ignored")

	res, dispatched = hold(t, h, hardware.ButtonStart)
	require.True(t, dispatched)
	assert.True(t, res.OK)
	assert.Equal(t, StateRunning, h.state(t))

	_, dispatched = hold(t, h, hardware.ButtonPause)
	require.True(t, dispatched)
	res, dispatched = hold(t, h, hardware.ButtonStop)
	require.True(t, dispatched, "stop is allowed from paused")
	assert.True(t, res.OK)
	assert.Equal(t, StateStopped, h.state(t))
	assert.Equal(t, []State{StateStopped}, h.litLamps())

	for _, b := range []hardware.Button{hardware.ButtonStart, hardware.ButtonPause, hardware.ButtonStop} {
		_, dispatched = hold(t, h, b)
		assert.False(t, dispatched, string(b))
	}
}

func TestHoldWithoutShiftIsIgnored(t *testing.T) {
	h := newHarness(t)
	_, dispatched := hold(t, h, hardware.ButtonStop)
	assert.False(t, dispatched)
}

func TestUnknownButton(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.ctrl.HandleHold(context.Background(), hardware.Button("reset"))
	assert.Error(t, err)
}

func TestGatewayRunConsumesHolds(t *testing.T) {
	h := newHarness(t)
	h.createShift(t)
	_, err := h.ctrl.StartOrResume(context.Background())
	require.NoError(t, err)

	gw := NewGateway(h.ctrl, h.rig.Context, zap.NewNop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gw.Run(ctx)
		close(done)
	}()

	h.rig.Buttons.Hold(hardware.ButtonPause)
	require.Eventually(t, func() bool {
		state, err := h.ctrl.CurrentState(context.Background())
		return err == nil && state == StatePaused
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("gateway did not stop")
	}
}
