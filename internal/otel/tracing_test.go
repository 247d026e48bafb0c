package otel

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 0.25, parseRatio("0.25"))
	assert.Equal(t, 1.0, parseRatio("abc"))
	assert.Equal(t, 1.0, parseRatio("2"))
	assert.Equal(t, 1.0, parseRatio("-0.1"))
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, trace.AlwaysSample().Description(), newSampler("always_on", "").Description())
	assert.Equal(t, trace.NeverSample().Description(), newSampler("always_off", "").Description())
	assert.Equal(t, trace.TraceIDRatioBased(0.5).Description(), newSampler("traceidratio", "0.5").Description())
	assert.Equal(t,
		trace.ParentBased(trace.TraceIDRatioBased(0.1)).Description(),
		newSampler("parentbased_traceidratio", "0.1").Description(),
	)
	assert.Equal(t, trace.ParentBased(trace.AlwaysSample()).Description(), newSampler("unknown", "").Description())
}

func TestNewExporter_UnsupportedProtocol(t *testing.T) {
	_, err := newExporter(context.Background(), "carrier-pigeon")
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	var buf bytes.Buffer

	shutdown, err := Init(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"tracing_enabled":false`)
}

func TestInit_BadProtocolDegrades(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")
	var buf bytes.Buffer

	shutdown, err := Init(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tracing_init_failed")
}
