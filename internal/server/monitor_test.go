package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/smallbiznis/corte/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorRequiresActiveShift(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	f.createShift(t)

	rec := f.do(t, http.MethodGet, "/api/cortes/monitor", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, _ = f.transition(t, "/api/cortes/start")
	rec = f.do(t, http.MethodGet, "/api/cortes/monitor", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Thresholds []struct {
				Code string `json:"code"`
			} `json:"thresholds"`
			Colors struct {
				FatInMeat     string `json:"fat_in_meat"`
				BoneInMeat    string `json:"bone_in_meat"`
				SellableParts string `json:"sellable_parts"`
			} `json:"colors"`
		} `json:"data"`
	}
	decode(t, rec, &body)
	assert.Len(t, body.Data.Thresholds, 3)
	assert.Equal(t, "yellow", body.Data.Colors.FatInMeat)
	assert.Equal(t, "green", body.Data.Colors.BoneInMeat)
	assert.Equal(t, "yellow", body.Data.Colors.SellableParts)
}

func TestSeedCountsFeedsMonitorCount(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	f.createShift(t)
	_, _ = f.transition(t, "/api/cortes/start")

	rec := f.do(t, http.MethodPost, "/api/cortes/counts/seed", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/cortes/counts/seed", map[string]any{"count": 4, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/cortes/monitor/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Records  int64   `json:"records"`
			Quantity float64 `json:"quantity"`
		} `json:"data"`
	}
	decode(t, rec, &body)
	assert.Equal(t, int64(44), body.Data.Records)
	assert.InDelta(t, 28.0, body.Data.Quantity, 1e-9)
}

func TestSeedCountsDisabledInProduction(t *testing.T) {
	f := newFixture(t, config.EnvironmentProduction)
	f.createShift(t)

	rec := f.do(t, http.MethodPost, "/api/cortes/counts/seed", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSeedCountsWithoutShift(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)

	rec := f.do(t, http.MethodPost, "/api/cortes/counts/seed", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLastFive(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	for i := 0; i < 6; i++ {
		f.createShift(t)
		f.clock.Advance(time.Minute)
	}

	rec := f.do(t, http.MethodGet, "/api/cortes/last5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, rec, &body)
	assert.Len(t, body.Data, 5)
}

func TestSeedCountsRefusedOnFinishedShift(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	f.createShift(t)

	rec := f.do(t, http.MethodPost, "/api/cortes/counts/seed", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "unstarted shift")

	_, _ = f.transition(t, "/api/cortes/start")
	_, _ = f.transition(t, "/api/cortes/finish")

	rec = f.do(t, http.MethodPost, "/api/cortes/counts/seed", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "conflict", body.Error.Type)
}
