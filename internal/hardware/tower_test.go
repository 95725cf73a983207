package hardware_test

import (
	"testing"

	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/smallbiznis/corte/internal/hardware/hardwaretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTowerToggleIsExclusive(t *testing.T) {
	rig := hardwaretest.NewRig()
	tower := rig.Context.Tower

	lit, err := tower.Toggle(hardware.ColorGreen)
	require.NoError(t, err)
	assert.True(t, lit)
	assert.True(t, rig.Green.On())

	lit, err = tower.Toggle(hardware.ColorRed)
	require.NoError(t, err)
	assert.True(t, lit)
	assert.False(t, rig.Green.On())
	assert.False(t, rig.Yellow.On())
	assert.True(t, rig.Red.On())
	assert.Equal(t, hardware.ColorRed, tower.Lit())

	lit, err = tower.Toggle(hardware.ColorRed)
	require.NoError(t, err)
	assert.False(t, lit)
	assert.False(t, rig.Red.On())
	assert.Equal(t, hardware.Color(""), tower.Lit())

	_, err = tower.Toggle(hardware.Color("blue"))
	assert.ErrorIs(t, err, hardware.ErrUnknownColor)
}

func TestParseColor(t *testing.T) {
	c, ok := hardware.ParseColor(" Yellow ")
	assert.True(t, ok)
	assert.Equal(t, hardware.ColorYellow, c)

	_, ok = hardware.ParseColor("verde")
	assert.False(t, ok)
}

func TestNoopContextAcceptsWrites(t *testing.T) {
	hw := hardware.NewNoop()
	assert.False(t, hw.Enabled)
	require.NoError(t, hw.Lamps.Run.Set(true))
	require.NoError(t, hw.Siren.Silence())
	_, err := hw.Tower.Toggle(hardware.ColorGreen)
	require.NoError(t, err)
	require.NoError(t, hw.Close())

	select {
	case <-hw.Holds.Holds():
		t.Fatalf("noop buttons must never fire")
	default:
	}
}
