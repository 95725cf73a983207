package hardware

import (
	"fmt"
	"time"

	"github.com/smallbiznis/corte/internal/config"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"
)

const eventBuffer = 8

type lineOutput struct {
	line *gpiocdev.Line
}

func (o lineOutput) Set(on bool) error {
	value := 0
	if on {
		value = 1
	}
	return o.line.SetValue(value)
}

type holdStream struct{ ch chan HoldEvent }

func (s holdStream) Holds() <-chan HoldEvent { return s.ch }

type pulseStream struct{ ch chan Pulse }

func (s pulseStream) Pulses() <-chan Pulse { return s.ch }

// New requests every configured line on cfg.Chip. Lines requested before a
// failure are released again.
func New(cfg config.HardwareConfig, log *zap.Logger) (*Context, error) {
	if log == nil {
		log = zap.NewNop()
	}
	hw := &Context{Enabled: true}
	requested := false
	defer func() {
		if !requested {
			_ = hw.Close()
		}
	}()

	var err error

	output := func(pin int, opts ...gpiocdev.LineReqOption) (Output, error) {
		opts = append(opts, gpiocdev.AsOutput(0))
		line, err := gpiocdev.RequestLine(cfg.Chip, pin, opts...)
		if err != nil {
			return nil, fmt.Errorf("request output %d: %w", pin, err)
		}
		hw.closers = append(hw.closers, line)
		return lineOutput{line: line}, nil
	}

	if hw.Lamps.Run, err = output(cfg.LampRun); err != nil {
		return nil, err
	}
	if hw.Lamps.Pause, err = output(cfg.LampPause); err != nil {
		return nil, err
	}
	if hw.Lamps.Stop, err = output(cfg.LampStop); err != nil {
		return nil, err
	}

	tower := make(map[Color]Output, len(Colors))
	for color, pin := range map[Color]int{
		ColorGreen:  cfg.TowerGreen,
		ColorYellow: cfg.TowerYellow,
		ColorRed:    cfg.TowerRed,
	} {
		if tower[color], err = output(pin); err != nil {
			return nil, err
		}
	}
	if hw.Tower, err = NewTower(tower); err != nil {
		return nil, err
	}

	// The relay sounds when its line is driven low; requesting the line
	// active-low keeps the initial inactive value silent.
	var sirenOpts []gpiocdev.LineReqOption
	if cfg.SirenActiveLow {
		sirenOpts = append(sirenOpts, gpiocdev.AsActiveLow)
	}
	siren, err := output(cfg.Siren, sirenOpts...)
	if err != nil {
		return nil, err
	}
	hw.Siren = NewSiren(siren)

	holds := make(chan HoldEvent, eventBuffer)
	emit := func(ev HoldEvent) {
		select {
		case holds <- ev:
		default:
			log.Warn("hold event dropped", zap.String("button", string(ev.Button)))
		}
	}
	for button, pin := range map[Button]int{
		ButtonStart: cfg.ButtonStart,
		ButtonPause: cfg.ButtonPause,
		ButtonStop:  cfg.ButtonStop,
	} {
		detector := NewHoldDetector(button, cfg.HoldDuration, emit)
		if err := input(hw, cfg, pin, func(evt gpiocdev.LineEvent) {
			switch evt.Type {
			case gpiocdev.LineEventRisingEdge:
				detector.Press()
			case gpiocdev.LineEventFallingEdge:
				detector.Release()
			}
		}); err != nil {
			return nil, err
		}
	}
	hw.Holds = holdStream{ch: holds}

	pulses := make(chan Pulse, eventBuffer)
	if err := input(hw, cfg, cfg.CountInput, func(evt gpiocdev.LineEvent) {
		if evt.Type != gpiocdev.LineEventRisingEdge {
			return
		}
		select {
		case pulses <- Pulse{At: time.Now().UTC()}:
		default:
			log.Warn("count pulse dropped")
		}
	}); err != nil {
		return nil, err
	}
	hw.Pulses = pulseStream{ch: pulses}

	requested = true
	log.Info("gpio lines requested",
		zap.String("chip", cfg.Chip),
		zap.Int("lines", len(hw.closers)),
	)
	return hw, nil
}

// input requests a pulled-up, active-low button line. Pressing the button
// shorts it to ground, which reads as a rising edge.
func input(hw *Context, cfg config.HardwareConfig, pin int, handler gpiocdev.EventHandler) error {
	line, err := gpiocdev.RequestLine(cfg.Chip, pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(cfg.BounceTime),
		gpiocdev.WithEventHandler(handler),
	)
	if err != nil {
		return fmt.Errorf("request input %d: %w", pin, err)
	}
	hw.closers = append(hw.closers, line)
	return nil
}
