package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records eventbus metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEmit records a dispatch pass with the number of listeners in the
	// snapshot, its duration and the listener error that aborted it, if any.
	RecordEmit(ctx context.Context, event string, listeners int, duration time.Duration, err error)

	// RecordSubscription records a change in the number of listeners for an event.
	RecordSubscription(ctx context.Context, event string, delta int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	emits       metric.Int64Counter
	emitLatency metric.Float64Histogram
	emitErrors  metric.Int64Counter
	listeners   metric.Int64UpDownCounter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventbus")

	emits, err := meter.Int64Counter("eventbus.emits",
		metric.WithDescription("Number of dispatch passes"),
	)
	if err != nil {
		return nil, err
	}

	emitLatency, err := meter.Float64Histogram("eventbus.emit.latency_ms",
		metric.WithDescription("Dispatch pass latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	emitErrors, err := meter.Int64Counter("eventbus.emit.errors",
		metric.WithDescription("Number of dispatch passes aborted by a listener error"),
	)
	if err != nil {
		return nil, err
	}

	listeners, err := meter.Int64UpDownCounter("eventbus.listeners",
		metric.WithDescription("Number of registered listeners"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		emits:       emits,
		emitLatency: emitLatency,
		emitErrors:  emitErrors,
		listeners:   listeners,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEmit records a dispatch pass.
func (m *otelMetrics) RecordEmit(ctx context.Context, event string, listeners int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event", event),
	}

	m.emits.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.emitLatency.Record(ctx, Milliseconds(duration),
		metric.WithAttributes(append(attrs, attribute.Int("listeners", listeners))...))

	if err != nil {
		m.emitErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordSubscription records a listener count change.
func (m *otelMetrics) RecordSubscription(ctx context.Context, event string, delta int) {
	if delta == 0 {
		return
	}
	m.listeners.Add(ctx, int64(delta), metric.WithAttributes(attribute.String("event", event)))
}
