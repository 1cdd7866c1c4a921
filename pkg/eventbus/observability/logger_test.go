package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, 0, len(h.attrs)+len(attrs)),
	}
	next.attrs = append(next.attrs, h.attrs...)
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }

func (h *testHandler) lastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(lines[i], &m); err == nil {
			return m
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds bus_id and bus_name", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "bus-123", "orders")
		enriched.Info("test message")

		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "bus-123", record["bus_id"])
		assert.Equal(t, "orders", record["bus_name"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "bus-123", "orders"))
	})
}

func TestLogHelpers(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string
		msg   string
		attrs map[string]any
	}{
		{
			name:  "subscribe",
			log:   func(l *slog.Logger) { LogSubscribe(l, "saved", 2) },
			level: "DEBUG",
			msg:   "listener registered",
			attrs: map[string]any{"event": "saved", "listeners": float64(2)},
		},
		{
			name:  "unsubscribe",
			log:   func(l *slog.Logger) { LogUnsubscribe(l, "saved", 0) },
			level: "DEBUG",
			msg:   "listener removed",
			attrs: map[string]any{"event": "saved", "listeners": float64(0)},
		},
		{
			name:  "clear",
			log:   func(l *slog.Logger) { LogClear(l, 3) },
			level: "DEBUG",
			msg:   "all listeners removed",
			attrs: map[string]any{"events": float64(3)},
		},
		{
			name:  "emit start",
			log:   func(l *slog.Logger) { LogEmitStart(l, "saved", 4) },
			level: "DEBUG",
			msg:   "emit starting",
			attrs: map[string]any{"event": "saved", "listeners": float64(4)},
		},
		{
			name:  "emit complete",
			log:   func(l *slog.Logger) { LogEmitComplete(l, "saved", 4, 1.5) },
			level: "DEBUG",
			msg:   "emit completed",
			attrs: map[string]any{"event": "saved", "duration_ms": 1.5},
		},
		{
			name:  "listener error",
			log:   func(l *slog.Logger) { LogListenerError(l, "saved", 1, errors.New("disk full")) },
			level: "WARN",
			msg:   "listener failed",
			attrs: map[string]any{"event": "saved", "index": float64(1), "error": "disk full"},
		},
		{
			name:  "listener panic",
			log:   func(l *slog.Logger) { LogListenerPanic(l, "saved", "nil map") },
			level: "ERROR",
			msg:   "listener panicked",
			attrs: map[string]any{"event": "saved", "panic": "nil map"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			tt.log(slog.New(h))

			record := h.lastRecord()
			require.NotNil(t, record)
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, tt.msg, record["msg"])
			for k, v := range tt.attrs {
				assert.Equal(t, v, record[k], "attribute %s", k)
			}
		})

		t.Run(tt.name+" nil logger does not panic", func(t *testing.T) {
			assert.NotPanics(t, func() { tt.log(nil) })
		})
	}
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5*time.Millisecond)
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, 1.5, Milliseconds(1500*time.Microsecond))
	assert.Equal(t, 0.0, Milliseconds(0))
}
