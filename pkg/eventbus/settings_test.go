package eventbus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventbus/pkg/eventbus"
	"github.com/randalmurphal/eventbus/pkg/eventbus/config"
)

func TestOptionsFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]any
		wantOpts int
		wantName string
	}{
		{"empty", nil, 0, ""},
		{"name only", map[string]any{"name": "orders"}, 1, "orders"},
		{"all keys", map[string]any{
			"name":      "audit",
			"metrics":   true,
			"tracing":   true,
			"log_level": "info",
		}, 4, "audit"},
		{"explicit false still yields options", map[string]any{"metrics": false, "tracing": false}, 2, ""},
		{"bad log level ignored", map[string]any{"log_level": "loud"}, 0, ""},
		{"wrong name type ignored", map[string]any{"name": 12}, 0, ""},
		{"non-bool flag reads as false", map[string]any{"metrics": "yes"}, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := eventbus.OptionsFromConfig(config.New(tt.data))
			assert.Len(t, opts, tt.wantOpts)

			bus := eventbus.New(opts...)
			require.NotNil(t, bus)
			assert.Equal(t, tt.wantName, bus.Name())
		})
	}
}

func TestOptionsFromConfig_YAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte("name: billing\nlog_level: debug\n"))
	require.NoError(t, err)

	bus := eventbus.New(eventbus.OptionsFromConfig(cfg)...)
	assert.Equal(t, "billing", bus.Name())
	assert.NotEmpty(t, bus.ID())
}
