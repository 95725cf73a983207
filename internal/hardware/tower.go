package hardware

import (
	"errors"
	"strings"
	"sync"
)

type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

var Colors = []Color{ColorGreen, ColorYellow, ColorRed}

var ErrUnknownColor = errors.New("unknown_color")

func ParseColor(value string) (Color, bool) {
	switch Color(strings.ToLower(strings.TrimSpace(value))) {
	case ColorGreen:
		return ColorGreen, true
	case ColorYellow:
		return ColorYellow, true
	case ColorRed:
		return ColorRed, true
	}
	return "", false
}

// Tower drives the quality signal tower. At most one color is lit.
type Tower struct {
	mu      sync.Mutex
	outputs map[Color]Output
	lit     Color
}

func NewTower(outputs map[Color]Output) (*Tower, error) {
	for _, c := range Colors {
		if outputs[c] == nil {
			return nil, errors.New("tower output missing for " + string(c))
		}
	}
	return &Tower{outputs: outputs}, nil
}

// Toggle lights color and switches the others off. Toggling the lit color
// switches it off. It reports whether color is lit afterwards.
func (t *Tower) Toggle(color Color) (bool, error) {
	if _, ok := t.outputs[color]; !ok {
		return false, ErrUnknownColor
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lit == color {
		if err := t.outputs[color].Set(false); err != nil {
			return true, err
		}
		t.lit = ""
		return false, nil
	}

	for _, c := range Colors {
		if c == color {
			continue
		}
		if err := t.outputs[c].Set(false); err != nil {
			return false, err
		}
	}
	if err := t.outputs[color].Set(true); err != nil {
		t.lit = ""
		return false, err
	}
	t.lit = color
	return true, nil
}

// Lit returns the lit color, or "" when the tower is dark.
func (t *Tower) Lit() Color {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lit
}
