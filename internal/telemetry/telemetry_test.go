package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger("production", "loud")
	assert.Error(t, err)

	log, err := NewLogger("development", "debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestWithTrace_AddsIDsFromSpan(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	WithTrace(ctx, base).Info("hello")
	WithTrace(context.Background(), base).Info("no span")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0].ContextMap()["trace_id"])
	assert.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestSetupTracer_Modes(t *testing.T) {
	shutdown, err := SetupTracer(context.Background(), "test", "none", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, err = SetupTracer(context.Background(), "test", "carrier-pigeon", "")
	assert.Error(t, err)
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "collector:4318", stripScheme("http://collector:4318"))
	assert.Equal(t, "collector:4318", stripScheme("https://collector:4318"))
	assert.Equal(t, "collector:4318", stripScheme("collector:4318"))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.OrderCreated(context.Background())
	m.Notification(context.Background(), "team-alert", "OrderCreated", time.Millisecond, false)

	live, err := NewMetrics()
	require.NoError(t, err)
	live.PaymentVerified(context.Background(), "completed")
}
