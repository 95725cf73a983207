package hardware

import (
	"context"
	"sync"
	"time"
)

type SirenStep struct {
	On  bool
	For time.Duration
}

// AlertPattern is two blasts separated by a short silence.
var AlertPattern = []SirenStep{
	{On: true, For: 2 * time.Second},
	{On: false, For: time.Second},
	{On: true, For: 2 * time.Second},
	{On: false},
}

// Siren drives the alarm relay. Alerts run one at a time; Silence interrupts
// the running alert.
type Siren struct {
	out   Output
	sleep func(context.Context, time.Duration) error

	alertMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSiren(out Output) *Siren {
	return &Siren{out: out, sleep: sleepContext}
}

// Alert plays AlertPattern and blocks until it finishes or is silenced.
func (s *Siren) Alert(ctx context.Context) error {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		cancel()
	}()

	for _, step := range AlertPattern {
		if err := s.out.Set(step.On); err != nil {
			return err
		}
		if step.For <= 0 {
			continue
		}
		if err := s.sleep(ctx, step.For); err != nil {
			_ = s.out.Set(false)
			return err
		}
	}
	return nil
}

func (s *Siren) Silence() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	return s.out.Set(false)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
