// Package hardware binds the line controller to its GPIO wiring: three state
// lamps, three hold buttons, the count input, the signal tower and the siren.
package hardware

import (
	"errors"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// Output is a single digital output.
type Output interface {
	Set(on bool) error
}

type Button string

const (
	ButtonStart Button = "start"
	ButtonPause Button = "pause"
	ButtonStop  Button = "stop"
)

// HoldEvent reports one qualifying hold gesture.
type HoldEvent struct {
	ID     ulid.ULID
	Button Button
	At     time.Time
}

// HoldSource yields hold events for as long as the process runs. The stream is
// never restarted and never closed.
type HoldSource interface {
	Holds() <-chan HoldEvent
}

// Pulse is one press of the count input.
type Pulse struct {
	At time.Time
}

type PulseSource interface {
	Pulses() <-chan Pulse
}

type Lamps struct {
	Run   Output
	Pause Output
	Stop  Output
}

// Context owns every hardware handle of the process. It is built once at
// startup and passed to the components that drive the hardware.
type Context struct {
	// Enabled is false when the process runs without GPIO.
	Enabled bool

	Lamps  Lamps
	Holds  HoldSource
	Pulses PulseSource
	Tower  *Tower
	Siren  *Siren

	closers []io.Closer
}

// Close releases every requested line.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

type noopOutput struct{}

func (noopOutput) Set(bool) error { return nil }

type idleHolds struct{ ch chan HoldEvent }

func (s idleHolds) Holds() <-chan HoldEvent { return s.ch }

type idlePulses struct{ ch chan Pulse }

func (s idlePulses) Pulses() <-chan Pulse { return s.ch }

// NewNoop returns a context whose outputs accept writes and whose inputs never
// fire.
func NewNoop() *Context {
	tower, _ := NewTower(map[Color]Output{
		ColorGreen:  noopOutput{},
		ColorYellow: noopOutput{},
		ColorRed:    noopOutput{},
	})
	return &Context{
		Lamps:  Lamps{Run: noopOutput{}, Pause: noopOutput{}, Stop: noopOutput{}},
		Holds:  idleHolds{ch: make(chan HoldEvent)},
		Pulses: idlePulses{ch: make(chan Pulse)},
		Tower:  tower,
		Siren:  NewSiren(noopOutput{}),
	}
}
