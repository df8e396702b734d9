package observability

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/clans/internal/config"
	"github.com/smallbiznis/clans/internal/observability/logger"
	"github.com/smallbiznis/clans/internal/observability/metrics"
	"github.com/smallbiznis/clans/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		splitConfig,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewPromMetrics,
		func() prometheus.Registerer { return prometheus.DefaultRegisterer },
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

// Configs fans the application config out to each telemetry component.
type Configs struct {
	fx.Out

	Logger  logger.Config
	Tracing tracing.Config
	Metrics metrics.Config
}

func splitConfig(cfg config.Config) Configs {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "clans"
	}
	env := strings.TrimSpace(cfg.Environment)
	version := strings.TrimSpace(cfg.AppVersion)
	tel := cfg.Telemetry

	return Configs{
		Logger: logger.Config{
			ServiceName:         name,
			Environment:         env,
			Version:             version,
			Level:               tel.LogLevel,
			Format:              tel.LogFormat,
			Debug:               cfg.Debug(),
			IncludeCaller:       true,
			IncludeStackOnError: cfg.Debug(),
		},
		Tracing: tracing.Config{
			Enabled:          tel.OTLPEnabled,
			ServiceName:      name,
			ServiceVersion:   version,
			Environment:      env,
			ExporterEndpoint: tel.OTLPEndpoint,
			ExporterProtocol: tel.OTLPProtocol,
			SamplingRatio:    tel.SamplingRatio,
		},
		Metrics: metrics.Config{
			Enabled:          tel.OTLPEnabled,
			ExporterEndpoint: tel.OTLPEndpoint,
			ExporterProtocol: tel.OTLPProtocol,
			ServiceName:      name,
			Environment:      env,
		},
	}
}
