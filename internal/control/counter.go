package control

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/smallbiznis/corte/internal/liveevents"
	obscontext "github.com/smallbiznis/corte/internal/observability/context"
	"github.com/smallbiznis/corte/internal/observability/metrics"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type CounterParams struct {
	fx.In

	Shifts  shiftdomain.Service
	Line    *config.LineConfigHolder
	Clock   clock.Clock
	HW      *hardware.Context
	Log     *zap.Logger
	Events  liveevents.Publisher `optional:"true"`
	Metrics *metrics.LineMetrics `optional:"true"`
}

// Counter records a count for every accepted pulse of the count input.
// Pulses arriving within the lockout window of the last accepted pulse are
// dropped.
type Counter struct {
	shifts  shiftdomain.Service
	line    *config.LineConfigHolder
	clock   clock.Clock
	pulses  hardware.PulseSource
	log     *zap.Logger
	events  liveevents.Publisher
	metrics *metrics.LineMetrics

	mu       sync.Mutex
	accepted time.Time
}

func NewCounter(p CounterParams) *Counter {
	c := &Counter{
		shifts:  p.Shifts,
		line:    p.Line,
		clock:   p.Clock,
		log:     p.Log.Named("control.counter"),
		events:  p.Events,
		metrics: p.Metrics,
	}
	if p.HW != nil {
		c.pulses = p.HW.Pulses
	}
	return c
}

func (c *Counter) Run(ctx context.Context) {
	if c.pulses == nil {
		return
	}
	pulses := c.pulses.Pulses()
	for {
		select {
		case <-ctx.Done():
			return
		case <-pulses:
			if _, err := c.Accept(obscontext.WithSource(ctx, SourceButton)); err != nil {
				c.log.Error("failed to record count", zap.Error(err))
			}
		}
	}
}

// Accept records one pulse. It reports whether a count was appended; pulses
// inside the lockout window or without an active shift are dropped quietly.
func (c *Counter) Accept(ctx context.Context) (bool, error) {
	cfg := c.line.Get()
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.accepted.IsZero() && now.Sub(c.accepted) < cfg.PulseLockout {
		c.metrics.RecordCount(ctx, metrics.CountDropped, 0)
		c.log.Debug("pulse dropped inside lockout")
		return false, nil
	}

	count, err := c.shifts.RecordCount(ctx, cfg.PulseQuantity)
	switch {
	case errors.Is(err, shiftdomain.ErrNoShift), errors.Is(err, shiftdomain.ErrShiftNotActive):
		c.metrics.RecordCount(ctx, metrics.CountNoShift, 0)
		c.log.Debug("pulse without active shift")
		return false, nil
	case err != nil:
		return false, err
	}

	c.accepted = now
	c.metrics.RecordCount(ctx, metrics.CountAccepted, count.Quantity)
	if c.events != nil {
		c.events.Publish(ctx, liveevents.Event{
			Type:     liveevents.TypeCount,
			Source:   obscontext.SourceFromContext(ctx),
			ShiftID:  count.ShiftID.String(),
			Quantity: count.Quantity,
			At:       count.RecordedAt,
		})
	}
	return true, nil
}
