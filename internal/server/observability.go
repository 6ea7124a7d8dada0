package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/observability/tracer"
	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/config"
)

// ObservabilityShutdownFunc is the function type returned by InitObservability
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability initializes OpenTelemetry and application metrics. With
// observability disabled the instruments stay on the no-op provider.
func InitObservability(cfg config.ObservabilityConfig, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	if !cfg.Enabled {
		metrics.InitAppMetrics()
		logger.Info("Observability disabled")
		return func(context.Context) error { return nil }, nil
	}

	otelShutdown, err := tracer.InitOtelProviders(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics.InitAppMetrics()
	logger.Info("Observability initialized",
		zap.String("service", cfg.ServiceName),
		zap.String("metrics_addr", cfg.MetricsAddr))

	return otelShutdown, nil
}
