package eventbus

import (
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/eventbus/pkg/eventbus/config"
)

// OptionsFromConfig converts a settings section into bus options.
//
// Recognised keys:
//
//	name:      string  bus name used in logs
//	metrics:   bool    enable or disable OpenTelemetry metrics
//	tracing:   bool    enable or disable OpenTelemetry tracing
//	log_level: string  debug|info|warn|error; logs JSON to stderr
//
// A metrics or tracing key that is present yields an option even when false,
// so a section can switch off what options applied before it turned on; a
// value that is not a bool reads as false. Other unknown keys and malformed
// values are ignored.
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if name := cfg.String("name", ""); name != "" {
		opts = append(opts, WithName(name))
	}
	if cfg.Has("metrics") {
		opts = append(opts, WithMetrics(cfg.Bool("metrics", false)))
	}
	if cfg.Has("tracing") {
		opts = append(opts, WithTracing(cfg.Bool("tracing", false)))
	}
	if lvl := cfg.String("log_level", ""); lvl != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(lvl))); err == nil {
			opts = append(opts, WithLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))))
		}
	}
	return opts
}
