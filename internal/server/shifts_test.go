package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smallbiznis/corte/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShiftValidation(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)

	req := httptest.NewRequest(http.MethodPost, "/api/cortes", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var malformed errorBody
	decode(t, rec, &malformed)
	assert.Equal(t, "validation_error", malformed.Error.Type)

	rec = f.do(t, http.MethodPost, "/api/cortes", map[string]any{"planned_units": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var invalid errorBody
	decode(t, rec, &invalid)
	require.Len(t, invalid.Error.Errors, 1)
	assert.Equal(t, "invalid_plan", invalid.Error.Errors[0].Code)
	assert.Equal(t, "plan", invalid.Error.Errors[0].Field)
}

func TestGetAndListShifts(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	first := f.createShift(t)
	f.clock.Advance(time.Minute)
	second := f.createShift(t)

	rec := f.do(t, http.MethodGet, "/api/cortes/"+first, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data struct {
			ID           string `json:"id"`
			PlannedUnits int    `json:"planned_units"`
		} `json:"data"`
	}
	decode(t, rec, &got)
	assert.Equal(t, first, got.Data.ID)
	assert.Equal(t, 400, got.Data.PlannedUnits)

	rec = f.do(t, http.MethodGet, "/api/cortes?page_size=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		PageInfo struct {
			NextPageToken string `json:"next_page_token"`
			HasMore       bool   `json:"has_more"`
		} `json:"page_info"`
	}
	decode(t, rec, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, second, page.Data[0].ID)
	require.True(t, page.PageInfo.HasMore)

	rec = f.do(t, http.MethodGet, "/api/cortes?page_size=1&page_token="+page.PageInfo.NextPageToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, first, page.Data[0].ID)

	rec = f.do(t, http.MethodGet, "/api/cortes?page_token=bm90LWpzb24", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetShiftErrors(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)

	rec := f.do(t, http.MethodGet, "/api/cortes/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cortes/12345", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "not_found", body.Error.Type)
}

func TestDeleteShiftResyncsLamps(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	id := f.createShift(t)
	_, _ = f.transition(t, "/api/cortes/start")
	_, _ = f.transition(t, "/api/cortes/pause")
	require.True(t, f.rig.Pause.On())

	rec := f.do(t, http.MethodDelete, "/api/cortes/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.True(t, f.rig.Stop.On())
	assert.False(t, f.rig.Pause.On())

	rec = f.do(t, http.MethodGet, "/api/cortes/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderShiftReport(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	id := f.createShift(t)
	_, _ = f.transition(t, "/api/cortes/start")
	f.clock.Advance(2 * time.Hour)
	_, _ = f.transition(t, "/api/cortes/finish")

	rec := f.do(t, http.MethodGet, "/api/cortes/"+id+"/report.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
