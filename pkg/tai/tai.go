package tai

import (
	"context"
	"fmt"
	"sync"

	"github.com/hongliMurphy/oopt-tai/internal/app"
	"github.com/hongliMurphy/oopt-tai/internal/domain"
	"github.com/hongliMurphy/oopt-tai/internal/ports"
	"github.com/hongliMurphy/oopt-tai/pkg/fsm"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// Re-export the domain types so embedders only import this package.
type (
	// ObjectID is the bit-packed entity identifier.
	ObjectID = domain.ObjectID

	// ObjectType tags the kind of entity an ObjectID names.
	ObjectType = domain.ObjectType

	// AttrID names an attribute in a creation request.
	AttrID = domain.AttrID

	// Attribute is a single attribute of a creation request.
	Attribute = domain.Attribute

	// Attributes is the attribute set handed to Create.
	Attributes = domain.Attributes

	// Hardware is the register-programming boundary. Embedders supply a
	// real implementation through WithHardware; the default is simulated.
	Hardware = ports.Hardware

	// State is a lifecycle state of a module machine.
	State = fsm.State

	// Config holds the configuration for the platform host.
	Config = app.Config

	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger
)

// Object types.
const (
	ObjectTypeModule = domain.ObjectTypeModule
	ObjectTypeNetIf  = domain.ObjectTypeNetIf
	ObjectTypeHostIf = domain.ObjectTypeHostIf
)

// Attributes recognized at creation, plus the tx-disable control.
const (
	ModuleAttrLocation = domain.ModuleAttrLocation
	NetIfAttrIndex     = domain.NetIfAttrIndex
	HostIfAttrIndex    = domain.HostIfAttrIndex
	NetIfAttrTxDis     = domain.NetIfAttrTxDis
)

// Fixed topology constants.
const (
	NumModule = domain.NumModule
	NumNetIf  = domain.NumNetIf
	NumHostIf = domain.NumHostIf
)

// Lifecycle states.
const (
	StateInit                 = fsm.StateInit
	StateWaitingConfiguration = fsm.StateWaitingConfiguration
	StateReady                = fsm.StateReady
	StateEnd                  = fsm.StateEnd
)

// Status errors. Check with errors.Is.
var (
	ErrNotSupported              = domain.ErrNotSupported
	ErrMandatoryAttributeMissing = domain.ErrMandatoryAttributeMissing
	ErrInvalidParameter          = domain.ErrInvalidParameter
	ErrUninitialized             = domain.ErrUninitialized
	ErrItemNotFound              = domain.ErrItemNotFound
	ErrItemAlreadyExists         = domain.ErrItemAlreadyExists
	ErrAlreadyRunning            = domain.ErrAlreadyRunning
	ErrNotRunning                = domain.ErrNotRunning
	ErrInvalidConfig             = domain.ErrInvalidConfig
)

// DefaultConfig returns a Config with all topology slots populated.
func DefaultConfig() Config {
	return app.DefaultConfig()
}

// Event describes one accepted transition of a module machine.
type Event struct {
	Module   ObjectID
	Previous State
	Current  State
}

// EventHandler receives transition events. Handlers are called
// synchronously from the machine's worker and must return promptly.
type EventHandler func(Event)

// ModuleInfo is a snapshot of one managed module.
type ModuleInfo struct {
	ID         ObjectID
	Location   string
	State      State
	Configured bool
}

// Host is the embeddable platform host. Use New() to create an instance,
// then Start() to build the configured topology and bring it to READY.
type Host struct {
	cfg     Config
	opts    options
	agent   *app.Agent
	logger  log.Logger
	plugins []Plugin

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a host with the given configuration. The host is created
// stopped; call Start to begin managing modules.
func New(cfg Config, opts ...Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var handler app.TransitionHandler
	if o.eventHandler != nil {
		eh := o.eventHandler
		handler = func(module domain.ObjectID, previous, current fsm.State) {
			eh(Event{Module: module, Previous: previous, Current: current})
		}
	}

	return &Host{
		cfg:     cfg,
		opts:    o,
		agent:   app.NewAgent(cfg, o.hardware, o.logger, handler),
		logger:  o.logger,
		plugins: o.plugins,
	}, nil
}

// Start creates the configured modules, drives each machine to READY, and
// initializes plugins in registration order. Returns ErrAlreadyRunning if
// the host is running.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.running = true
	h.cancel = cancel
	h.mu.Unlock()

	if err := h.agent.Start(runCtx); err != nil {
		h.abortStart(ctx, nil)
		return err
	}

	pcfg := PluginConfig{
		Host:        h,
		Logger:      h.logger,
		PresenceDir: h.cfg.PresenceDir,
	}
	for i, p := range h.plugins {
		if err := p.Initialize(runCtx, pcfg); err != nil {
			h.abortStart(ctx, h.plugins[:i])
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}
	return nil
}

// abortStart rolls a failed Start back: shuts down the given plugins in
// reverse order, then the agent.
func (h *Host) abortStart(ctx context.Context, initialized []Plugin) {
	for i := len(initialized) - 1; i >= 0; i-- {
		if err := initialized[i].Shutdown(ctx); err != nil {
			h.logger.Warn("plugin shutdown failed",
				log.String("plugin", initialized[i].Name()), log.Err(err))
		}
	}
	if err := h.agent.Shutdown(ctx); err != nil {
		h.logger.Warn("agent shutdown failed", log.Err(err))
	}
	h.mu.Lock()
	h.running = false
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Unlock()
}

// Stop shuts plugins down in reverse registration order, requests END on
// every machine and waits for the workers. Returns ErrNotRunning if the
// host is stopped.
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return ErrNotRunning
	}
	h.running = false
	cancel := h.cancel
	h.mu.Unlock()

	for i := len(h.plugins) - 1; i >= 0; i-- {
		if err := h.plugins[i].Shutdown(ctx); err != nil {
			h.logger.Warn("plugin shutdown failed",
				log.String("plugin", h.plugins[i].Name()), log.Err(err))
		}
	}

	err := h.agent.Shutdown(ctx)
	cancel()
	return err
}

// Create constructs an entity of the given type and returns its identity.
// For interfaces, moduleID names the owning module; for modules it is
// ignored. Machines of modules created this way are driven by the host's
// workers only when the host is running; library users driving machines
// themselves should use the platform through AddModule instead.
func (h *Host) Create(t ObjectType, moduleID ObjectID, attrs Attributes) (ObjectID, error) {
	return h.agent.Platform().Create(t, moduleID, attrs)
}

// Remove reports ErrNotSupported; object removal is a permanent limitation
// of this platform.
func (h *Host) Remove(id ObjectID) error {
	return h.agent.Platform().Remove(id)
}

// ObjectTypeOf recovers the entity class from an identifier.
func (h *Host) ObjectTypeOf(id ObjectID) ObjectType {
	return h.agent.Platform().ObjectType(id)
}

// ModuleIDOf recovers the owning module's identifier from any entity
// identifier.
func (h *Host) ModuleIDOf(id ObjectID) ObjectID {
	return h.agent.Platform().ModuleID(id)
}

// AddModule hot-plugs a module at the given location: creates it with its
// interfaces, starts its worker and drives it to READY.
func (h *Host) AddModule(ctx context.Context, location string) (ObjectID, error) {
	h.mu.Lock()
	running := h.running
	h.mu.Unlock()
	if !running {
		return 0, ErrNotRunning
	}
	return h.agent.AddModule(ctx, location)
}

// StopModule requests END on the module's machine and waits for it.
func (h *Host) StopModule(ctx context.Context, moduleID ObjectID) error {
	return h.agent.StopModule(ctx, moduleID)
}

// Modules returns a snapshot of all managed modules sorted by index.
func (h *Host) Modules() []ModuleInfo {
	ms := h.agent.Platform().Modules()
	out := make([]ModuleInfo, 0, len(ms))
	for _, m := range ms {
		out = append(out, ModuleInfo{
			ID:         m.ID(),
			Location:   m.Location(),
			State:      m.FSM().State(),
			Configured: m.FSM().Configured(),
		})
	}
	return out
}

// State returns the current lifecycle state of the machine governing the
// given entity.
func (h *Host) State(id ObjectID) (State, error) {
	f, err := h.agent.Platform().FSMOf(id)
	if err != nil {
		return 0, err
	}
	return f.State(), nil
}

// Configured reports whether the machine governing the given entity has
// reached a state where attribute access is valid.
func (h *Host) Configured(id ObjectID) (bool, error) {
	f, err := h.agent.Platform().FSMOf(id)
	if err != nil {
		return false, err
	}
	return f.Configured(), nil
}

// RequestTransition signals the machine governing the given entity that a
// transition to next is requested. The machine's callback decides whether
// to honor it.
func (h *Host) RequestTransition(id ObjectID, next State) error {
	f, err := h.agent.Platform().FSMOf(id)
	if err != nil {
		return err
	}
	return f.Transit(next)
}

// SetTxDis writes the transmitter-disable control of the module owning the
// given entity. Rejected with ErrUninitialized until the machine is
// configured.
func (h *Host) SetTxDis(id ObjectID, disable bool) error {
	f, err := h.agent.Platform().FSMOf(id)
	if err != nil {
		return err
	}
	return f.SetTxDis(disable)
}

// TxDis reads the transmitter-disable control, with the same state gating
// as SetTxDis.
func (h *Host) TxDis(id ObjectID) (bool, error) {
	f, err := h.agent.Platform().FSMOf(id)
	if err != nil {
		return false, err
	}
	return f.TxDis()
}
