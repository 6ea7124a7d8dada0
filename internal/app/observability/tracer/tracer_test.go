package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/config"
)

func TestInitOtelProviders_WithoutExporters(t *testing.T) {
	shutdown, err := InitOtelProviders(config.ObservabilityConfig{ServiceName: "volunteerhub-test"}, zap.NewNop())
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "global tracer provider must be the SDK provider")

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
