// Package hardwaretest provides in-memory hardware for tests.
package hardwaretest

import (
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/corte/internal/hardware"
)

var ErrWriteFailed = errors.New("write failed")

// Output records every write.
type Output struct {
	mu     sync.Mutex
	writes []bool
	fail   bool
}

func (o *Output) Set(on bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return ErrWriteFailed
	}
	o.writes = append(o.writes, on)
	return nil
}

// Fail makes subsequent writes return ErrWriteFailed.
func (o *Output) Fail(fail bool) {
	o.mu.Lock()
	o.fail = fail
	o.mu.Unlock()
}

func (o *Output) Writes() []bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]bool(nil), o.writes...)
}

// On reports the last written value.
func (o *Output) On() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.writes) > 0 && o.writes[len(o.writes)-1]
}

// Buttons lets tests fire hold gestures and count pulses on demand.
type Buttons struct {
	holds  chan hardware.HoldEvent
	pulses chan hardware.Pulse
}

func NewButtons() *Buttons {
	return &Buttons{
		holds:  make(chan hardware.HoldEvent, 16),
		pulses: make(chan hardware.Pulse, 16),
	}
}

func (b *Buttons) Holds() <-chan hardware.HoldEvent { return b.holds }

func (b *Buttons) Pulses() <-chan hardware.Pulse { return b.pulses }

func (b *Buttons) Hold(button hardware.Button) {
	b.holds <- hardware.HoldEvent{ID: ulid.Make(), Button: button, At: time.Now().UTC()}
}

func (b *Buttons) Pulse(at time.Time) {
	b.pulses <- hardware.Pulse{At: at}
}

// Rig is a hardware context wired to fakes.
type Rig struct {
	Context *hardware.Context

	Run, Pause, Stop   *Output
	Green, Yellow, Red *Output
	Siren              *Output
	Buttons            *Buttons
}

func NewRig() *Rig {
	r := &Rig{
		Run: &Output{}, Pause: &Output{}, Stop: &Output{},
		Green: &Output{}, Yellow: &Output{}, Red: &Output{},
		Siren:   &Output{},
		Buttons: NewButtons(),
	}
	tower, err := hardware.NewTower(map[hardware.Color]hardware.Output{
		hardware.ColorGreen:  r.Green,
		hardware.ColorYellow: r.Yellow,
		hardware.ColorRed:    r.Red,
	})
	if err != nil {
		panic(err)
	}
	r.Context = &hardware.Context{
		Enabled: true,
		Lamps:   hardware.Lamps{Run: r.Run, Pause: r.Pause, Stop: r.Stop},
		Holds:   r.Buttons,
		Pulses:  r.Buttons,
		Tower:   tower,
		Siren:   hardware.NewSiren(r.Siren),
	}
	return r
}

// LampWrites is the number of writes across the three state lamps.
func (r *Rig) LampWrites() int {
	return len(r.Run.Writes()) + len(r.Pause.Writes()) + len(r.Stop.Writes())
}
