package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
	"github.com/hongliMurphy/oopt-tai/internal/ports"
	"github.com/hongliMurphy/oopt-tai/pkg/fsm"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// FSM is the per-module machine of the basic platform. It wraps the engine
// with the callbacks that gate hardware programming, the back-references to
// the entities it acts on, and the state-gated tx-disable accessors.
//
// One FSM is created per module and shared by the module and its
// interfaces. The back-references are populated after construction through
// the bind calls; the machine never owns the entities.
type FSM struct {
	*fsm.FSM

	hw     ports.Hardware
	logger log.Logger

	mu      sync.Mutex
	module  *Module
	netif   *NetIf
	hostif  [domain.NumHostIf]*HostIf
	current fsm.State
	waiters map[fsm.State][]chan struct{}

	// onTransition forwards accepted transitions to the host's event
	// surface. Set once before the worker starts.
	onTransition func(prev, next fsm.State)
}

// NewFSM creates a machine for one module. The module itself is bound
// afterwards with SetModule.
func NewFSM(hw ports.Hardware, logger log.Logger) *FSM {
	f := &FSM{
		hw:      hw,
		logger:  logger,
		current: fsm.StateInit,
		waiters: make(map[fsm.State][]chan struct{}),
	}

	m := fsm.New(fsm.WithLogger(logger))
	m.Handle(fsm.StateInit, f.initCb)
	m.Handle(fsm.StateWaitingConfiguration, f.waitingConfigurationCb)
	m.Handle(fsm.StateReady, f.readyCb)
	m.OnStateChange(f.stateChange)
	f.FSM = m
	return f
}

// SetModule binds the owning module so callbacks can reach it.
func (f *FSM) SetModule(m *Module) error {
	if m == nil {
		return fmt.Errorf("nil module: %w", domain.ErrInvalidParameter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.module = m
	return nil
}

// SetNetIf binds the module's network interface.
func (f *FSM) SetNetIf(n *NetIf) error {
	if n == nil {
		return fmt.Errorf("nil netif: %w", domain.ErrInvalidParameter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.netif = n
	return nil
}

// SetHostIf binds a host interface into the given slot. Fails when index is
// outside the fixed slot range.
func (f *FSM) SetHostIf(h *HostIf, index int) error {
	if h == nil {
		return fmt.Errorf("nil hostif: %w", domain.ErrInvalidParameter)
	}
	if index < 0 || index >= domain.NumHostIf {
		return fmt.Errorf("hostif slot %d out of range [0,%d): %w",
			index, domain.NumHostIf, domain.ErrInvalidParameter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hostif[index] = h
	return nil
}

// Module returns the bound module, nil before binding.
func (f *FSM) Module() *Module {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.module
}

// NetIf returns the bound network interface, nil before binding.
func (f *FSM) NetIf() *NetIf {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.netif
}

// HostIf returns the host interface bound to the given slot, nil before
// binding or when index is out of range.
func (f *FSM) HostIf(index int) *HostIf {
	if index < 0 || index >= domain.NumHostIf {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hostif[index]
}

// SetTxDis writes the transmitter-disable control of the module's network
// interface. Rejected with ErrUninitialized until the machine has reached a
// configured state; the caller may retry once it has.
func (f *FSM) SetTxDis(disable bool) error {
	if !f.Configured() {
		return domain.ErrUninitialized
	}
	n := f.NetIf()
	if n == nil {
		return fmt.Errorf("no netif bound: %w", domain.ErrItemNotFound)
	}
	return f.hw.SetTxDis(n.ID(), disable)
}

// TxDis reads the transmitter-disable control, with the same state gating
// as SetTxDis.
func (f *FSM) TxDis() (bool, error) {
	if !f.Configured() {
		return false, domain.ErrUninitialized
	}
	n := f.NetIf()
	if n == nil {
		return false, fmt.Errorf("no netif bound: %w", domain.ErrItemNotFound)
	}
	return f.hw.TxDis(n.ID())
}

// OnTransition registers a forwarding hook for accepted transitions.
// Register before the worker starts.
func (f *FSM) OnTransition(fn func(prev, next fsm.State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onTransition = fn
}

// WaitFor blocks until the machine enters the given state or the context is
// canceled. Returns immediately if the machine is already there.
func (f *FSM) WaitFor(ctx context.Context, s fsm.State) error {
	f.mu.Lock()
	if f.current == s {
		f.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	f.waiters[s] = append(f.waiters[s], ch)
	f.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// initCb leaves INIT only toward WAITING_CONFIGURATION or END.
func (f *FSM) initCb(current fsm.State, user interface{}) fsm.State {
	switch next := f.NextState(); next {
	case fsm.StateWaitingConfiguration, fsm.StateEnd:
		return next
	default:
		return current
	}
}

// waitingConfigurationCb validates readiness and programs hardware before
// honoring a request for READY. An unbound module or netif, or a hardware
// failure, keeps the machine waiting.
func (f *FSM) waitingConfigurationCb(current fsm.State, user interface{}) fsm.State {
	switch next := f.NextState(); next {
	case fsm.StateReady:
		m := f.Module()
		if m == nil || f.NetIf() == nil {
			f.logger.Debug("not ready to configure, staying in waiting-configuration")
			return current
		}
		if err := f.hw.Configure(m.ID()); err != nil {
			f.logger.Warn("hardware configuration failed",
				log.Stringer("module", m.ID()), log.Err(err))
			return current
		}
		return next
	case fsm.StateEnd:
		return next
	default:
		return current
	}
}

// readyCb honors reconfiguration and shutdown requests.
func (f *FSM) readyCb(current fsm.State, user interface{}) fsm.State {
	switch next := f.NextState(); next {
	case fsm.StateWaitingConfiguration:
		return next
	case fsm.StateEnd:
		if m := f.Module(); m != nil {
			if err := f.hw.Shutdown(m.ID()); err != nil {
				f.logger.Warn("hardware shutdown failed",
					log.Stringer("module", m.ID()), log.Err(err))
			}
		}
		return next
	default:
		return current
	}
}

// stateChange logs every accepted transition, releases waiters, and
// forwards the transition to the host.
func (f *FSM) stateChange(prev, next fsm.State, user interface{}) {
	f.mu.Lock()
	f.current = next
	for _, ch := range f.waiters[next] {
		close(ch)
	}
	delete(f.waiters, next)
	m := f.module
	fn := f.onTransition
	f.mu.Unlock()

	fields := []log.Field{
		log.Stringer("from", prev),
		log.Stringer("to", next),
	}
	if m != nil {
		fields = append(fields, log.Stringer("module", m.ID()))
	}
	f.logger.Info("module state transition", fields...)

	if fn != nil {
		fn(prev, next)
	}
}
