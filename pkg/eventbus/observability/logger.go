// Package observability provides logging, metrics and tracing hooks for
// eventbus: structured logging, emit metrics, and emit spans.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"fmt"
	"log/slog"
	"time"
)

// EnrichLogger adds bus identity to a logger.
// Returns a new logger with bus_id and bus_name fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "6f1c...", "orders")
//	enriched.Info("wired") // includes bus_id, bus_name
func EnrichLogger(logger *slog.Logger, busID, busName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("bus_id", busID),
		slog.String("bus_name", busName),
	)
}

// LogSubscribe logs a listener registration.
func LogSubscribe(logger *slog.Logger, event string, total int) {
	if logger == nil {
		return
	}
	logger.Debug("listener registered",
		slog.String("event", event),
		slog.Int("listeners", total),
	)
}

// LogUnsubscribe logs a listener removal.
func LogUnsubscribe(logger *slog.Logger, event string, total int) {
	if logger == nil {
		return
	}
	logger.Debug("listener removed",
		slog.String("event", event),
		slog.Int("listeners", total),
	)
}

// LogClear logs removal of every listener on a bus.
func LogClear(logger *slog.Logger, events int) {
	if logger == nil {
		return
	}
	logger.Debug("all listeners removed",
		slog.Int("events", events),
	)
}

// LogEmitStart logs the start of a dispatch pass.
func LogEmitStart(logger *slog.Logger, event string, listeners int) {
	if logger == nil {
		return
	}
	logger.Debug("emit starting",
		slog.String("event", event),
		slog.Int("listeners", listeners),
	)
}

// LogEmitComplete logs a dispatch pass that reached every listener.
func LogEmitComplete(logger *slog.Logger, event string, listeners int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("emit completed",
		slog.String("event", event),
		slog.Int("listeners", listeners),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerError logs a listener error that aborted a dispatch pass.
func LogListenerError(logger *slog.Logger, event string, index int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("listener failed",
		slog.String("event", event),
		slog.Int("index", index),
		slog.String("error", err.Error()),
	)
}

// LogListenerPanic logs a listener panic. The panic keeps propagating after
// this call; logging is the only thing the bus does with it.
func LogListenerPanic(logger *slog.Logger, event string, value any) {
	if logger == nil {
		return
	}
	logger.Error("listener panicked",
		slog.String("event", event),
		slog.String("panic", fmt.Sprint(value)),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds for log fields.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
