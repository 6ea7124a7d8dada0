package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal       metric.Int64Counter
	HTTPRequestDuration     metric.Float64Histogram
	AuthzDecisionsTotal     metric.Int64Counter
	SignInTotal             metric.Int64Counter
	SignOutTotal            metric.Int64Counter
	SessionRestoreDuration  metric.Float64Histogram
	ActiveSessionsGauge     metric.Int64Gauge
	BackendRequestsDuration metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the global MeterProvider.
// Call it after the provider is installed; before that the instruments are
// no-ops.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("volunteerhub")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.AuthzDecisionsTotal, err = meter.Int64Counter(
			"authz_decisions_total",
			metric.WithDescription("Route authorization decisions by outcome"),
			metric.WithUnit("{decision}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create authz_decisions_total: %v", err)
		}

		m.SignInTotal, err = meter.Int64Counter(
			"auth_signin_total",
			metric.WithDescription("Sign-in attempts by result"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_signin_total: %v", err)
		}

		m.SignOutTotal, err = meter.Int64Counter(
			"auth_signout_total",
			metric.WithDescription("Sign-outs"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_signout_total: %v", err)
		}

		m.SessionRestoreDuration, err = meter.Float64Histogram(
			"session_restore_duration_seconds",
			metric.WithDescription("Time spent restoring a persisted session"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create session_restore_duration_seconds: %v", err)
		}

		m.ActiveSessionsGauge, err = meter.Int64Gauge(
			"session_stores_current",
			metric.WithDescription("Client instances with a session store in memory"),
			metric.WithUnit("{store}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create session_stores_current: %v", err)
		}

		m.BackendRequestsDuration, err = meter.Float64Histogram(
			"backend_request_duration_seconds",
			metric.WithDescription("Duration of backend API calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create backend_request_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, creating them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
