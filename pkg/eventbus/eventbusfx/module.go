// Package eventbusfx wires eventbus into go.uber.org/fx applications.
package eventbusfx

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/randalmurphal/eventbus/pkg/eventbus"
	"github.com/randalmurphal/eventbus/pkg/eventbus/hub"
)

// Name is the fx module name.
const Name = "eventbus"

// Params are the dependencies the module accepts from the graph.
type Params struct {
	fx.In

	Logger *slog.Logger `optional:"true"`
}

// Result is what the module provides.
type Result struct {
	fx.Out

	Bus *eventbus.Bus
	Hub *hub.Hub
}

// Module returns an fx module providing a *eventbus.Bus and a *hub.Hub.
// opts apply to the bus and to every bus the hub creates. A *slog.Logger in
// the graph, if any, is used for both.
func Module(opts ...eventbus.Option) fx.Option {
	return fx.Module(Name,
		fx.Provide(func(p Params) Result {
			return Provide(p, opts...)
		}),
		fx.Invoke(registerLifecycle),
	)
}

// Provide builds the bus and hub.
func Provide(p Params, opts ...eventbus.Option) Result {
	if p.Logger != nil {
		opts = append([]eventbus.Option{eventbus.WithLogger(p.Logger)}, opts...)
	}
	return Result{
		Bus: eventbus.New(opts...),
		Hub: hub.New(opts...),
	}
}

type lifecycleParams struct {
	fx.In

	LC     fx.Lifecycle
	Bus    *eventbus.Bus
	Hub    *hub.Hub
	Logger *slog.Logger `optional:"true"`
}

// registerLifecycle drops every listener when the application stops so
// nothing is dispatched into components that are shutting down.
func registerLifecycle(p lifecycleParams) {
	p.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if p.Logger != nil {
				p.Logger.Debug("event bus started", slog.String("bus_id", p.Bus.ID()))
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			p.Bus.OffAll()
			p.Hub.Clear()
			if p.Logger != nil {
				p.Logger.Debug("event bus stopped", slog.String("bus_id", p.Bus.ID()))
			}
			return nil
		},
	})
}
