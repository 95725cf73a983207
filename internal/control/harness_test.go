package control

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/hardware/hardwaretest"
	"github.com/smallbiznis/corte/internal/liveevents"
	"github.com/smallbiznis/corte/internal/migration/migrationtest"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	shiftrepository "github.com/smallbiznis/corte/internal/shift/repository"
	shiftservice "github.com/smallbiznis/corte/internal/shift/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db     *gorm.DB
	clock  *clock.FakeClock
	node   *snowflake.Node
	repo   shiftdomain.Repository
	shifts shiftdomain.Service
	rig    *hardwaretest.Rig
	hub    *liveevents.Hub
	bus    *liveevents.Bus
	ctrl   *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := migrationtest.NewDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC))
	repo := shiftrepository.Provide()
	rig := hardwaretest.NewRig()
	hub := liveevents.NewHub()
	bus := liveevents.NewBus(liveevents.BusParams{Hub: hub, Log: zap.NewNop()})

	h := &harness{
		db:    db,
		clock: clk,
		node:  node,
		repo:  repo,
		rig:   rig,
		hub:   hub,
		bus:   bus,
		shifts: shiftservice.New(shiftservice.Params{
			DB:     db,
			Log:    zap.NewNop(),
			Clock:  clk,
			GenID:  node,
			Repo:   repo,
			Config: config.Config{Environment: config.EnvironmentDevelopment},
		}),
	}
	h.ctrl = h.newController(NewLocalLocker())
	return h
}

func (h *harness) newController(locker Locker) *Controller {
	return New(Params{
		DB:     h.db,
		Log:    zap.NewNop(),
		Clock:  h.clock,
		GenID:  h.node,
		Repo:   h.repo,
		Locker: locker,
		Lamps:  NewLampSync(h.rig.Context, zap.NewNop(), nil),
		Events: h.bus,
	})
}

func (h *harness) createShift(t *testing.T) *shiftdomain.Shift {
	t.Helper()
	item, err := h.shifts.Create(context.Background(), shiftdomain.CreateRequest{
		PlannedUnits: 100,
		PlannedHours: 8,
	})
	require.NoError(t, err)
	return item
}

func (h *harness) state(t *testing.T) State {
	t.Helper()
	state, err := h.ctrl.CurrentState(context.Background())
	require.NoError(t, err)
	return state
}

// litLamps returns the states whose lamp is currently on.
func (h *harness) litLamps() []State {
	var lit []State
	if h.rig.Run.On() {
		lit = append(lit, StateRunning)
	}
	if h.rig.Pause.On() {
		lit = append(lit, StatePaused)
	}
	if h.rig.Stop.On() {
		lit = append(lit, StateStopped)
	}
	return lit
}

func (h *harness) openPauses(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Raw(`SELECT COUNT(*) FROM pauses WHERE ended_at IS NULL`).Scan(&n).Error)
	return n
}
