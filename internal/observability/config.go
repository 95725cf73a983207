package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/corte/internal/config"
)

const (
	defaultLineID               = "line-1"
	defaultMetricExportInterval = time.Minute
)

// Config holds observability configuration derived from environment variables.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	// LineID names the processing line this controller drives. It labels
	// every log line, metric series and trace so several controllers can
	// share one collector.
	LineID string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
	MetricExportInterval time.Duration
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "corte"
	}
	environment := strings.TrimSpace(getenv("DEPLOYMENT_ENV", cfg.Environment))

	logFormat := "json"
	if isDevEnv(environment) {
		logFormat = "console"
	}

	protocol := getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	if traces := getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", ""); traces != "" {
		protocol = traces
	}

	return Config{
		ServiceName: serviceName,
		Environment: environment,
		Version:     strings.TrimSpace(getenv("SERVICE_VERSION", cfg.AppVersion)),
		LineID:      lineID(),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getenv("LOG_FORMAT", logFormat)),

		// Line controllers usually run without a collector nearby.
		OtelEnabled:          getenvBool("OTEL_ENABLED", false),
		OtelExporterEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint),
		OtelExporterProtocol: strings.ToLower(protocol),
		OtelSamplingRatio:    clampRatio(getenvFloat("OTEL_SAMPLING_RATIO", 1)),
		MetricExportInterval: getenvDuration("OTEL_METRIC_EXPORT_INTERVAL", defaultMetricExportInterval),
	}
}

func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	return isDevEnv(c.Environment)
}

// lineID prefers LINE_ID, then the device hostname.
func lineID() string {
	if id := getenv("LINE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && strings.TrimSpace(host) != "" {
		return strings.TrimSpace(host)
	}
	return defaultLineID
}

func clampRatio(ratio float64) float64 {
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(getenv(key, "")) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvFloat(key string, def float64) float64 {
	parsed, err := strconv.ParseFloat(getenv(key, ""), 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	parsed, err := time.ParseDuration(getenv(key, ""))
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
