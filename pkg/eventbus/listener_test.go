package eventbus_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/eventbus/pkg/eventbus"
)

func TestListener_Call(t *testing.T) {
	t.Run("returns listener error", func(t *testing.T) {
		boom := errors.New("boom")
		l := eventbus.NewListener(func(args ...any) error { return boom })
		assert.ErrorIs(t, l.Call(), boom)
	})

	t.Run("nil listener is a no-op", func(t *testing.T) {
		var l *eventbus.Listener
		assert.NoError(t, l.Call("x"))
		assert.NoError(t, eventbus.NewListener(nil).Call())
	})

	t.Run("Func never fails", func(t *testing.T) {
		var got []any
		l := eventbus.Func(func(args ...any) { got = args })
		assert.NoError(t, l.Call(1, 2))
		assert.Equal(t, []any{1, 2}, got)
	})
}

func TestListeners_Clone(t *testing.T) {
	a := eventbus.Func(func(...any) {})
	b := eventbus.Func(func(...any) {})

	src := eventbus.Listeners{
		"e":     make([]*eventbus.Listener, 1, 8),
		"empty": {},
	}
	src["e"][0] = a

	clone := src.Clone()
	assert.NotContains(t, clone, "empty")

	// Appending to the clone must not write into src's spare capacity.
	clone["e"] = append(clone["e"], b)
	src["e"] = append(src["e"], a)

	assert.Equal(t, []*eventbus.Listener{a, b}, clone["e"])
	assert.Equal(t, []*eventbus.Listener{a, a}, src["e"])
}

func TestListeners_Events(t *testing.T) {
	l := eventbus.Func(func(...any) {})
	ls := eventbus.Listeners{
		"zeta":  {l},
		"alpha": {l},
		"empty": nil,
	}
	assert.Equal(t, []string{"alpha", "zeta"}, ls.Events())
	assert.Empty(t, eventbus.Listeners(nil).Events())
}
