package control

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/smallbiznis/corte/internal/liveevents"
	obscontext "github.com/smallbiznis/corte/internal/observability/context"
	"github.com/smallbiznis/corte/internal/observability/logger"
	"github.com/smallbiznis/corte/internal/observability/metrics"
	"github.com/smallbiznis/corte/internal/observability/tracing"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	"github.com/smallbiznis/corte/pkg/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSource = "api"

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Repo    shiftdomain.Repository
	Locker  Locker
	Lamps   *LampSync
	Events  liveevents.Publisher `optional:"true"`
	Metrics *metrics.LineMetrics `optional:"true"`
}

// Controller owns every state change of the active shift. API handlers and
// the button gateway both go through it, so both paths share one lock, one
// set of preconditions and one lamp synchronizer.
type Controller struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	genID   *snowflake.Node
	repo    shiftdomain.Repository
	locker  Locker
	lamps   *LampSync
	events  liveevents.Publisher
	metrics *metrics.LineMetrics
	tracer  trace.Tracer
}

func New(p Params) *Controller {
	locker := p.Locker
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Controller{
		db:      p.DB,
		log:     p.Log.Named("control.actions"),
		clock:   p.Clock,
		genID:   p.GenID,
		repo:    p.Repo,
		locker:  locker,
		lamps:   p.Lamps,
		events:  p.Events,
		metrics: p.Metrics,
		tracer:  otel.Tracer("github.com/smallbiznis/corte/internal/control"),
	}
}

type snapshot struct {
	shift *shiftdomain.Shift
	pause *shiftdomain.Pause
	state State
}

// load reads the latest shift and its latest pause. It is called fresh at
// every decision point.
func (c *Controller) load(ctx context.Context, tx *gorm.DB) (snapshot, error) {
	shift, err := c.repo.FindLatest(ctx, tx)
	if err != nil {
		return snapshot{}, err
	}
	if shift == nil {
		return snapshot{state: StateStopped}, nil
	}
	pause, err := c.repo.FindLatestPause(ctx, tx, shift.ID)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{shift: shift, pause: pause, state: Resolve(shift, pause)}, nil
}

// CurrentState reads the canonical state from storage. It has no side effects.
func (c *Controller) CurrentState(ctx context.Context) (State, error) {
	snap, err := c.load(ctx, c.db)
	if err != nil {
		return StateStopped, err
	}
	return snap.state, nil
}

// SyncLamps recomputes the state and writes it to the lamps when it changed.
// Lamp failures are logged, never returned.
func (c *Controller) SyncLamps(ctx context.Context) (State, error) {
	state, err := c.CurrentState(ctx)
	if err != nil {
		return state, err
	}
	c.applyLamps(ctx, state)
	return state, nil
}

func (c *Controller) applyLamps(ctx context.Context, state State) {
	if c.lamps == nil {
		return
	}
	if _, err := c.lamps.Apply(state); err != nil {
		logger.WithContext(ctx, c.log).Warn("failed to update lamps",
			zap.String("state", string(state)),
			zap.Error(err),
		)
	}
}

type Status struct {
	Exists    bool               `json:"exists"`
	Active    bool               `json:"active"`
	Started   bool               `json:"started"`
	Paused    bool               `json:"paused"`
	StartedAt *time.Time         `json:"started_at"`
	State     State              `json:"state"`
	Shift     *shiftdomain.Shift `json:"shift,omitempty"`
}

// Status summarizes the latest shift and refreshes the lamps.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	snap, err := c.load(ctx, c.db)
	if err != nil {
		return Status{}, err
	}
	c.applyLamps(ctx, snap.state)

	status := Status{State: snap.state}
	if snap.shift == nil {
		return status, nil
	}
	status.Exists = true
	status.Active = snap.shift.Active()
	status.Started = snap.shift.Started()
	status.Paused = snap.state == StatePaused
	status.StartedAt = snap.shift.StartedAt
	status.Shift = snap.shift
	return status, nil
}

// Exclusive runs fn under the transition lock. Mutations that remove shift
// rows go through it so no transition can attach a pause to a shift that is
// being deleted.
func (c *Controller) Exclusive(ctx context.Context, fn func(context.Context) error) error {
	unlock, err := c.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return fn(ctx)
}

func (c *Controller) StartOrResume(ctx context.Context) (Result, error) {
	res, _, err := c.run(ctx, ActionStartOrResume, nil)
	return res, err
}

func (c *Controller) Pause(ctx context.Context) (Result, error) {
	res, _, err := c.run(ctx, ActionPause, nil)
	return res, err
}

func (c *Controller) Finalize(ctx context.Context) (Result, error) {
	res, _, err := c.run(ctx, ActionFinalize, nil)
	return res, err
}

// HandleHold runs the action bound to button when the button gate admits the
// current state. It reports whether the action was dispatched.
func (c *Controller) HandleHold(ctx context.Context, button hardware.Button) (Result, bool, error) {
	action, gate, ok := holdBinding(button)
	if !ok {
		return Result{}, false, fmt.Errorf("unknown button %q", button)
	}
	return c.run(ctx, action, gate)
}

// holdBinding gates more strictly than the actions: the start button
// only resumes, it never performs the first start of a shift.
func holdBinding(button hardware.Button) (Action, func(snapshot) bool, bool) {
	switch button {
	case hardware.ButtonStart:
		return ActionStartOrResume, func(s snapshot) bool {
			return s.shift.Active() && s.state == StatePaused
		}, true
	case hardware.ButtonPause:
		return ActionPause, func(s snapshot) bool {
			return s.shift.Active() && s.state == StateRunning
		}, true
	case hardware.ButtonStop:
		return ActionFinalize, func(s snapshot) bool {
			return s.shift.Active() && (s.state == StateRunning || s.state == StatePaused)
		}, true
	}
	return "", nil, false
}

func (c *Controller) run(ctx context.Context, action Action, gate func(snapshot) bool) (Result, bool, error) {
	source := obscontext.SourceFromContext(ctx)
	if source == "" {
		source = defaultSource
		ctx = obscontext.WithSource(ctx, source)
	}
	ctx, span := c.tracer.Start(ctx, "control."+string(action), trace.WithAttributes(
		tracing.SafeAttributes(
			attribute.String("corte.action", string(action)),
			attribute.String("corte.source", source),
		)...,
	))
	defer span.End()
	log := logger.WithContext(ctx, c.log).With(zap.String("action", string(action)))

	unlock, err := c.locker.Lock(ctx)
	if err != nil {
		c.fail(ctx, span, action, source, err)
		return Result{}, true, err
	}
	defer unlock()

	var (
		message string
		shiftID snowflake.ID
	)
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap, err := c.load(ctx, tx)
		if err != nil {
			return err
		}
		if gate != nil && !gate(snap) {
			return errGateClosed
		}
		if snap.shift != nil {
			shiftID = snap.shift.ID
		}
		message, err = c.mutate(ctx, tx, action, snap)
		return err
	})

	var ref *refusal
	switch {
	case errors.Is(err, errGateClosed):
		span.SetAttributes(attribute.String("corte.outcome", "ignored"))
		return Result{}, false, nil
	case errors.As(err, &ref):
		state, _ := c.SyncLamps(ctx)
		span.SetAttributes(attribute.String("corte.outcome", metrics.OutcomeRefused))
		c.metrics.RecordTransition(ctx, string(action), source, metrics.OutcomeRefused)
		log.Info("transition refused",
			zap.String("reason", ref.reason.Error()),
			zap.String("state", string(state)),
		)
		return Result{
			OK:      false,
			Message: ref.message,
			Reason:  ref.reason.Error(),
			State:   state,
			Refusal: ref.reason,
		}, true, nil
	case err != nil:
		c.fail(ctx, span, action, source, err)
		return Result{}, true, err
	}

	state, err := c.SyncLamps(ctx)
	if err != nil {
		// committed, but the follow-up read failed
		log.Warn("failed to read state after transition", zap.Error(err))
	}
	span.SetAttributes(attribute.String("corte.outcome", metrics.OutcomeOK))
	c.metrics.RecordTransition(ctx, string(action), source, metrics.OutcomeOK)
	if c.events != nil {
		c.events.Publish(ctx, liveevents.Event{
			Type:    liveevents.TypeState,
			State:   string(state),
			Action:  string(action),
			Source:  source,
			ShiftID: shiftID.String(),
			At:      c.clock.Now(),
		})
	}
	log.Info("transition applied",
		zap.String("shift_id", shiftID.String()),
		zap.String("state", string(state)),
	)
	return Result{OK: true, Message: message, State: state}, true, nil
}

func (c *Controller) fail(ctx context.Context, span trace.Span, action Action, source string, err error) {
	span.RecordError(tracing.SafeError(err))
	span.SetStatus(codes.Error, "transition failed")
	c.metrics.RecordTransition(ctx, string(action), source, metrics.OutcomeError)
	logger.WithContext(ctx, c.log).Error("transition failed",
		zap.String("action", string(action)),
		zap.Error(err),
	)
}

// mutate performs the single write of action. Every write is conditional so
// a caller that lost a race sees no rows affected and is refused.
func (c *Controller) mutate(ctx context.Context, tx *gorm.DB, action Action, snap snapshot) (string, error) {
	shift := snap.shift
	if shift == nil {
		return "", refuse(ErrNoShift, "no shift exists")
	}
	if shift.Ended() {
		return "", refuse(ErrAlreadyTerminal, "shift already finalized")
	}
	now := c.clock.Now()

	switch action {
	case ActionStartOrResume:
		if !shift.Started() {
			ok, err := c.repo.MarkStarted(ctx, tx, shift.ID, now)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", refuse(ErrPreconditionNotMet, "shift already started")
			}
			return "shift started", nil
		}
		open, err := c.repo.FindOpenPause(ctx, tx, shift.ID)
		if err != nil {
			return "", err
		}
		if open == nil {
			return "", refuse(ErrPreconditionNotMet, "nothing to resume")
		}
		ok, err := c.repo.ClosePause(ctx, tx, open.ID, now)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", refuse(ErrPreconditionNotMet, "nothing to resume")
		}
		return "shift resumed", nil

	case ActionPause:
		if !shift.Started() {
			return "", refuse(ErrNoActiveShift, "shift has not been started")
		}
		open, err := c.repo.FindOpenPause(ctx, tx, shift.ID)
		if err != nil {
			return "", err
		}
		if open != nil {
			return "", refuse(ErrPreconditionNotMet, "pause already open")
		}
		err = c.repo.InsertPause(ctx, tx, &shiftdomain.Pause{
			ID:        c.genID.Generate(),
			ShiftID:   shift.ID,
			StartedAt: now,
		})
		if db.IsDuplicateKeyErr(err) {
			return "", refuse(ErrPreconditionNotMet, "pause already open")
		}
		if err != nil {
			return "", err
		}
		return "shift paused", nil

	case ActionFinalize:
		if !shift.Started() {
			return "", refuse(ErrNoActiveShift, "shift has not been started")
		}
		ok, err := c.repo.MarkEnded(ctx, tx, shift.ID, now)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", refuse(ErrAlreadyTerminal, "shift already finalized")
		}
		return "shift finalized", nil
	}

	return "", fmt.Errorf("unknown action %q", action)
}
