package hardware

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type stopper interface {
	Stop() bool
}

// HoldDetector turns press and release edges of one button into hold events.
// A hold fires once when the button stays pressed for the hold duration and
// does not fire again until the button is released and pressed anew.
type HoldDetector struct {
	button Button
	hold   time.Duration
	emit   func(HoldEvent)

	now       func() time.Time
	afterFunc func(time.Duration, func()) stopper

	mu      sync.Mutex
	pressed bool
	fired   bool
	gen     uint64
	timer   stopper
}

func NewHoldDetector(button Button, hold time.Duration, emit func(HoldEvent)) *HoldDetector {
	return &HoldDetector{
		button: button,
		hold:   hold,
		emit:   emit,
		now:    func() time.Time { return time.Now().UTC() },
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

func (d *HoldDetector) Press() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pressed {
		return
	}
	d.pressed = true
	d.fired = false
	d.gen++
	gen := d.gen
	d.timer = d.afterFunc(d.hold, func() { d.fire(gen) })
}

func (d *HoldDetector) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pressed = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *HoldDetector) fire(gen uint64) {
	d.mu.Lock()
	if !d.pressed || d.fired || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.fired = true
	d.timer = nil
	at := d.now()
	d.mu.Unlock()

	d.emit(HoldEvent{
		ID:     ulid.MustNew(ulid.Timestamp(at), rand.Reader),
		Button: d.button,
		At:     at,
	})
}
