package control

import (
	"context"

	"github.com/smallbiznis/corte/internal/hardware"
	obscontext "github.com/smallbiznis/corte/internal/observability/context"
	"github.com/smallbiznis/corte/internal/observability/metrics"
	"go.uber.org/zap"
)

const SourceButton = "button"

// Gateway feeds physical hold gestures into the controller. It never reports
// anything back to the operator: a hold that the gate rejects, or that fails,
// only shows up in logs and metrics.
type Gateway struct {
	ctrl    *Controller
	holds   hardware.HoldSource
	log     *zap.Logger
	metrics *metrics.LineMetrics
}

func NewGateway(ctrl *Controller, hw *hardware.Context, log *zap.Logger, m *metrics.LineMetrics) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		ctrl:    ctrl,
		holds:   hw.Holds,
		log:     log.Named("control.gateway"),
		metrics: m,
	}
}

// Run handles hold events one at a time until ctx is done.
func (g *Gateway) Run(ctx context.Context) {
	if g.holds == nil {
		return
	}
	events := g.holds.Holds()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			g.Handle(ctx, ev)
		}
	}
}

func (g *Gateway) Handle(ctx context.Context, ev hardware.HoldEvent) {
	ctx = obscontext.WithRequestID(ctx, ev.ID.String())
	ctx = obscontext.WithSource(ctx, SourceButton)
	log := g.log.With(
		zap.String("hold_id", ev.ID.String()),
		zap.String("button", string(ev.Button)),
	)

	res, dispatched, err := g.ctrl.HandleHold(ctx, ev.Button)
	switch {
	case err != nil:
		g.metrics.RecordHold(string(ev.Button), metrics.HoldFailed)
		log.Error("hold failed", zap.Error(err))
	case !dispatched:
		g.metrics.RecordHold(string(ev.Button), metrics.HoldIgnored)
		log.Debug("hold ignored")
	default:
		g.metrics.RecordHold(string(ev.Button), metrics.HoldDispatched)
		log.Info("hold dispatched",
			zap.Bool("ok", res.OK),
			zap.String("state", string(res.State)),
		)
	}
}
