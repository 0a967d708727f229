package tracing

import (
	"context"
	"testing"

	"dogmeet/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{Enabled: false}, "dogmeet-test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
}

func TestSetupEnabled(t *testing.T) {
	cfg := config.TracingConfig{Enabled: true, OTLPEndpoint: "127.0.0.1:4317", SampleRatio: 1}

	// The gRPC exporter connects lazily, so setup succeeds without a collector.
	shutdown, err := Setup(context.Background(), cfg, "dogmeet-test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
