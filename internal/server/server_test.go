package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/control"
	"github.com/smallbiznis/corte/internal/hardware/hardwaretest"
	"github.com/smallbiznis/corte/internal/liveevents"
	"github.com/smallbiznis/corte/internal/migration/migrationtest"
	"github.com/smallbiznis/corte/internal/observability"
	"github.com/smallbiznis/corte/internal/providers/pdf"
	reportservice "github.com/smallbiznis/corte/internal/report/service"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	shiftrepository "github.com/smallbiznis/corte/internal/shift/repository"
	shiftservice "github.com/smallbiznis/corte/internal/shift/service"
	thresholdrepository "github.com/smallbiznis/corte/internal/threshold/repository"
	thresholdservice "github.com/smallbiznis/corte/internal/threshold/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	engine *gin.Engine
	clock  *clock.FakeClock
	rig    *hardwaretest.Rig
	hub    *liveevents.Hub
	shifts shiftdomain.Service
}

func newFixture(t *testing.T, environment string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := migrationtest.NewDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC))
	cfg := config.Config{Environment: environment}
	log := zap.NewNop()
	repo := shiftrepository.Provide()
	rig := hardwaretest.NewRig()
	hub := liveevents.NewHub()
	bus := liveevents.NewBus(liveevents.BusParams{Hub: hub, Log: log})
	t.Cleanup(hub.Close)

	shifts := shiftservice.New(shiftservice.Params{
		DB: db, Log: log, Clock: clk, GenID: node, Repo: repo, Config: cfg,
	})
	thresholds := thresholdservice.New(thresholdservice.Params{
		DB: db, Log: log, Clock: clk, Repo: thresholdrepository.Provide(),
	})
	ctrl := control.New(control.Params{
		DB:     db,
		Log:    log,
		Clock:  clk,
		GenID:  node,
		Repo:   repo,
		Locker: control.NewLocalLocker(),
		Lamps:  control.NewLampSync(rig.Context, log, nil),
		Events: bus,
	})

	engine := NewEngine(observability.Config{}, nil)
	NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		Log:          log,
		Controller:   ctrl,
		ShiftSvc:     shifts,
		ReportSvc:    reportservice.New(reportservice.Params{Log: log, Clock: clk, Shifts: shifts, Thresholds: thresholds}),
		ThresholdSvc: thresholds,
		PDF:          pdf.New(),
		Hardware:     rig.Context,
		Line:         config.NewStaticLineConfigHolder(config.DefaultLineConfig()),
		LiveEvents:   hub,
		Events:       bus,
	})

	return &fixture{engine: engine, clock: clk, rig: rig, hub: hub, shifts: shifts}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createShift(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/cortes", map[string]any{
		"planned_units":    400,
		"planned_hours":    8,
		"target_rate":      50,
		"fat_in_meat":      12,
		"bone_in_meat":     4,
		"sellable_parts":   75,
		"dead_time_budget": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type errorBody struct {
	Error struct {
		Type    string            `json:"type"`
		Message string            `json:"message"`
		Errors  []ValidationError `json:"errors"`
	} `json:"error"`
}

func TestHealth(t *testing.T) {
	f := newFixture(t, config.EnvironmentDevelopment)
	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
