package control

import (
	"sync"

	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/smallbiznis/corte/internal/observability/metrics"
	"go.uber.org/zap"
)

// LampSync drives the run, pause and stop lamps so that exactly one is lit.
// It remembers the last state it wrote only to skip redundant writes; the
// remembered state is never used to answer what the line is doing.
type LampSync struct {
	mu      sync.Mutex
	lamps   hardware.Lamps
	last    State
	applied bool

	log     *zap.Logger
	metrics *metrics.LineMetrics
}

func NewLampSync(hw *hardware.Context, log *zap.Logger, m *metrics.LineMetrics) *LampSync {
	if log == nil {
		log = zap.NewNop()
	}
	return &LampSync{
		lamps:   hw.Lamps,
		log:     log.Named("control.lamps"),
		metrics: m,
	}
}

// Apply lights the lamp for state. It reports whether any output was written.
// A failed write is retried on the next call.
func (l *LampSync) Apply(state State) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lamps := l.byState()
	if _, ok := lamps[state]; !ok {
		state = StateStopped
	}
	if l.applied && l.last == state {
		return false, nil
	}

	// switch the others off first so two lamps are never lit together
	for _, s := range []State{StateRunning, StatePaused, StateStopped} {
		if s == state {
			continue
		}
		if err := lamps[s].Set(false); err != nil {
			return l.failed(state, err)
		}
	}
	if err := lamps[state].Set(true); err != nil {
		return l.failed(state, err)
	}

	l.last = state
	l.applied = true
	l.metrics.RecordLampWrite(string(state), nil)
	l.metrics.SetState(string(state))
	l.log.Debug("lamps updated", zap.String("state", string(state)))
	return true, nil
}

func (l *LampSync) failed(state State, err error) (bool, error) {
	l.applied = false
	l.metrics.RecordLampWrite(string(state), err)
	return true, err
}

func (l *LampSync) byState() map[State]hardware.Output {
	return map[State]hardware.Output{
		StateRunning: l.lamps.Run,
		StatePaused:  l.lamps.Pause,
		StateStopped: l.lamps.Stop,
	}
}
