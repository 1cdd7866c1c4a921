package eventbus

import (
	"log/slog"

	"github.com/randalmurphal/eventbus/pkg/eventbus/observability"
)

// busConfig holds construction settings for a Bus.
type busConfig struct {
	name    string
	seed    Listeners
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// defaultBusConfig returns the default construction settings:
// no name, no listeners, no logging, no metrics, no tracing.
func defaultBusConfig() busConfig {
	return busConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Bus.
type Option func(*busConfig)

// WithName sets a human-readable name used in logs.
func WithName(name string) Option {
	return func(c *busConfig) {
		c.name = name
	}
}

// WithListeners pre-seeds the bus. The map is copied; later changes to
// seed do not reach the bus.
func WithListeners(seed Listeners) Option {
	return func(c *busConfig) {
		c.seed = seed
	}
}

// WithLogger sets the logger. It is enriched with bus_id and bus_name.
// A nil logger disables logging, which is the default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *busConfig) {
		c.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// Default: false
//
// Metrics use the global meter provider; configure it with
// otel.SetMeterProvider before emitting.
func WithMetrics(enabled bool) Option {
	return func(c *busConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(c *busConfig) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithTracing enables or disables OpenTelemetry tracing of Emit.
// Default: false
func WithTracing(enabled bool) Option {
	return func(c *busConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *busConfig) {
		if s != nil {
			c.spans = s
		}
	}
}
