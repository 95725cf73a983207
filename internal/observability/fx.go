package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/corte/internal/observability/logger"
	"github.com/smallbiznis/corte/internal/observability/metrics"
	"github.com/smallbiznis/corte/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		func(cfg Config) logger.Config { return cfg.loggerConfig() },
		logger.New,
		func(cfg Config) tracing.Config { return cfg.tracingConfig() },
		tracing.NewProvider,
		func(cfg Config) metrics.Config { return cfg.metricsConfig() },
		provideRegistry,
		metrics.NewProvider,
		metrics.NewLineMetrics,
		metrics.NewHTTPMetrics,
	),
	// the tracer provider installs the global propagator; nothing else asks for it
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

// provideRegistry shares the default registry so collectors registered by
// plugins (gorm pool stats) are served next to the line metrics.
func provideRegistry() (prometheus.Registerer, prometheus.Gatherer) {
	return prometheus.DefaultRegisterer, prometheus.DefaultGatherer
}

func (c Config) loggerConfig() logger.Config {
	return logger.Config{
		ServiceName:         c.ServiceName,
		Environment:         c.Environment,
		Version:             c.Version,
		LineID:              c.LineID,
		Level:               c.LogLevel,
		Format:              c.LogFormat,
		Debug:               c.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: c.Debug(),
	}
}

func (c Config) tracingConfig() tracing.Config {
	return tracing.Config{
		Enabled:          c.OtelEnabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		LineID:           c.LineID,
		ExporterEndpoint: c.OtelExporterEndpoint,
		ExporterProtocol: c.OtelExporterProtocol,
		SamplingRatio:    c.OtelSamplingRatio,
	}
}

func (c Config) metricsConfig() metrics.Config {
	return metrics.Config{
		Enabled:          c.OtelEnabled,
		ExporterEndpoint: c.OtelExporterEndpoint,
		ExporterProtocol: c.OtelExporterProtocol,
		ExportInterval:   c.MetricExportInterval,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
		LineID:           c.LineID,
	}
}
