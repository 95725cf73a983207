package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/control"
	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/smallbiznis/corte/internal/liveevents"
	"github.com/smallbiznis/corte/internal/migration"
	"github.com/smallbiznis/corte/internal/observability"
	pdfprovider "github.com/smallbiznis/corte/internal/providers/pdf"
	"github.com/smallbiznis/corte/internal/report"
	"github.com/smallbiznis/corte/internal/server"
	"github.com/smallbiznis/corte/internal/shift"
	"github.com/smallbiznis/corte/internal/threshold"
	"github.com/smallbiznis/corte/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type testEnv struct {
	app     *fx.App
	db      *gorm.DB
	hw      *hardware.Context
	baseURL string
	httpSrv *httptest.Server
	dir     string
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "corte-e2e-")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create temp dir:", err)
		os.Exit(1)
	}
	setDefaultEnv(dir)

	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		_ = os.RemoveAll(dir)
		os.Exit(1)
	}
	env.dir = dir

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func startEnv() (*testEnv, error) {
	var (
		engine *gin.Engine
		dbConn *gorm.DB
		hw     *hardware.Context
	)

	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,
		migration.Module,
		threshold.Module,
		shift.Module,
		report.Module,
		pdfprovider.Module,
		liveevents.Module,
		hardware.Module,
		control.Module,
		server.Module,
		fx.Populate(&engine, &dbConn, &hw),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(engine)
	return &testEnv{
		app:     app,
		db:      dbConn,
		hw:      hw,
		baseURL: httpSrv.URL,
		httpSrv: httpSrv,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
	if e.dir != "" {
		_ = os.RemoveAll(e.dir)
	}
}

func setDefaultEnv(dir string) {
	_ = os.Setenv("ENVIRONMENT", "test")
	_ = os.Setenv("DATABASE_TYPE", "sqlite")
	_ = os.Setenv("DATABASE_PATH", filepath.Join(dir, "corte.db"))
	_ = os.Setenv("HTTP_ADDR", "127.0.0.1:0")
	_ = os.Setenv("HARDWARE_ENABLED", "false")
	_ = os.Setenv("REDIS_ADDR", "")
	setEnvIfEmpty("LOG_LEVEL", "error")
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

func resetDatabase(t *testing.T, dbConn *gorm.DB) {
	t.Helper()
	for _, table := range []string{"counts", "pauses", "shifts"} {
		if err := dbConn.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
}

func doJSON(t *testing.T, method, path string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, env.baseURL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func decode(t *testing.T, data []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode %q: %v", string(data), err)
	}
}

func TestE2E_HealthCheck(t *testing.T) {
	resp, _ := doJSON(t, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_RunsWithoutHardware(t *testing.T) {
	if env.hw.Enabled {
		t.Fatalf("expected hardware to be disabled")
	}
	resp, _ := doJSON(t, http.MethodPost, "/api/signals/green", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.StatusCode)
	}
}

func TestE2E_ShiftLifecycle(t *testing.T) {
	resetDatabase(t, env.db)

	resp, data := doJSON(t, http.MethodPost, "/api/cortes", map[string]any{
		"planned_units":    200,
		"planned_hours":    4,
		"fat_in_meat":      8,
		"bone_in_meat":     9,
		"sellable_parts":   85,
		"dead_time_budget": 20,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create shift: status %d: %s", resp.StatusCode, data)
	}
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, data, &created)

	steps := []struct {
		path   string
		status int
		state  string
	}{
		{"/api/cortes/start", http.StatusOK, "running"},
		{"/api/cortes/pause", http.StatusOK, "paused"},
		{"/api/cortes/pause", http.StatusConflict, "paused"},
		{"/api/cortes/start", http.StatusOK, "running"},
	}
	for _, step := range steps {
		resp, data := doJSON(t, http.MethodPost, step.path, nil)
		if resp.StatusCode != step.status {
			t.Fatalf("%s: expected status %d, got %d: %s", step.path, step.status, resp.StatusCode, data)
		}
		var result struct {
			OK    bool   `json:"ok"`
			State string `json:"state"`
		}
		decode(t, data, &result)
		if result.State != step.state {
			t.Fatalf("%s: expected state %s, got %s", step.path, step.state, result.State)
		}
	}

	resp, data = doJSON(t, http.MethodPost, "/api/cortes/counts/seed", map[string]any{"count": 10})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed counts: status %d: %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, http.MethodGet, "/api/cortes/monitor", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("monitor: status %d: %s", resp.StatusCode, data)
	}
	var monitor struct {
		Data struct {
			Summary struct {
				Records  int64   `json:"records"`
				Quantity float64 `json:"quantity"`
			} `json:"summary"`
			Colors struct {
				FatInMeat     string `json:"fat_in_meat"`
				BoneInMeat    string `json:"bone_in_meat"`
				SellableParts string `json:"sellable_parts"`
			} `json:"colors"`
			Pauses []struct {
				EndedAt *time.Time `json:"ended_at"`
			} `json:"pauses"`
		} `json:"data"`
	}
	decode(t, data, &monitor)
	if monitor.Data.Summary.Records != 10 || monitor.Data.Summary.Quantity != 5 {
		t.Fatalf("unexpected count summary: %+v", monitor.Data.Summary)
	}
	if monitor.Data.Colors.FatInMeat != "green" || monitor.Data.Colors.BoneInMeat != "red" || monitor.Data.Colors.SellableParts != "green" {
		t.Fatalf("unexpected colors: %+v", monitor.Data.Colors)
	}
	if len(monitor.Data.Pauses) != 1 || monitor.Data.Pauses[0].EndedAt == nil {
		t.Fatalf("expected one closed pause, got %+v", monitor.Data.Pauses)
	}

	resp, data = doJSON(t, http.MethodPost, "/api/cortes/finish", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("finish: status %d: %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, http.MethodGet, "/api/cortes/state", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"stopped"`) {
		t.Fatalf("expected stopped state, got %d: %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, http.MethodGet, "/api/cortes/last5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("last5: status %d: %s", resp.StatusCode, data)
	}
	var last struct {
		Data []struct {
			ID       string  `json:"id"`
			Quantity float64 `json:"quantity"`
		} `json:"data"`
	}
	decode(t, data, &last)
	if len(last.Data) != 1 || last.Data[0].ID != created.Data.ID || last.Data[0].Quantity != 5 {
		t.Fatalf("unexpected last five: %+v", last.Data)
	}

	resp, data = doJSON(t, http.MethodGet, "/api/cortes/"+created.Data.ID+"/report.pdf", nil)
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("report pdf: status %d, %d bytes", resp.StatusCode, len(data))
	}
}

func TestE2E_MetricsExposeTransitions(t *testing.T) {
	resetDatabase(t, env.db)

	resp, _ := doJSON(t, http.MethodPost, "/api/cortes/pause", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected refused pause, got %d", resp.StatusCode)
	}

	resp, data := doJSON(t, http.MethodGet, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: status %d", resp.StatusCode)
	}
	for _, name := range []string{"corte_transitions_total", "corte_http_requests_total"} {
		if !strings.Contains(string(data), name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
