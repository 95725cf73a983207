package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/smallbiznis/corte/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleSignal(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)

	rec := f.do(t, http.MethodPost, "/api/signals/green", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.rig.Green.On())

	rec = f.do(t, http.MethodPost, "/api/signals/RED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Color string `json:"color"`
			On    bool   `json:"on"`
		} `json:"data"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "red", body.Data.Color)
	assert.True(t, body.Data.On)
	assert.True(t, f.rig.Red.On())
	assert.False(t, f.rig.Green.On())

	rec = f.do(t, http.MethodPost, "/api/signals/red", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.rig.Red.On())

	rec = f.do(t, http.MethodPost, "/api/signals/blue", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignalsWithoutHardware(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	f.rig.Context.Enabled = false

	for _, path := range []string{"/api/signals/green", "/api/siren/alert", "/api/siren/off"} {
		rec := f.do(t, http.MethodPost, path, nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		var body errorBody
		decode(t, rec, &body)
		assert.Equal(t, "no hardware", body.Error.Message, path)
	}
	assert.Empty(t, f.rig.Green.Writes())
	assert.Empty(t, f.rig.Siren.Writes())
}

func TestSirenAlertAndSilence(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)

	rec := f.do(t, http.MethodPost, "/api/siren/alert", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, f.rig.Siren.On, time.Second, 5*time.Millisecond)

	rec = f.do(t, http.MethodPost, "/api/siren/off", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Eventually(t, func() bool {
		return !f.rig.Siren.On()
	}, time.Second, 5*time.Millisecond)
}
