package tai

import (
	"github.com/hongliMurphy/oopt-tai/internal/adapters/sim"
	"github.com/hongliMurphy/oopt-tai/internal/ports"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// Option configures a Host.
type Option func(*options)

type options struct {
	logger       log.Logger
	hardware     ports.Hardware
	eventHandler EventHandler
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger:   log.NewNoopLogger(),
		hardware: sim.NewHardware(),
	}
}

// WithLogger sets the logger used by the host and everything it owns. The
// default discards all output.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHardware sets the hardware implementation the machines program.
// The default is an in-memory simulation.
func WithHardware(hw Hardware) Option {
	return func(o *options) {
		if hw != nil {
			o.hardware = hw
		}
	}
}

// WithEventHandler registers a handler for module transition events.
func WithEventHandler(h EventHandler) Option {
	return func(o *options) {
		o.eventHandler = h
	}
}

// WithPlugin registers a plugin. Plugins are initialized in registration
// order during Start and shut down in reverse order during Stop.
func WithPlugin(p Plugin) Option {
	return func(o *options) {
		if p != nil {
			o.plugins = append(o.plugins, p)
		}
	}
}
