package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
	"github.com/hongliMurphy/oopt-tai/internal/platform"
	"github.com/hongliMurphy/oopt-tai/internal/ports"
	"github.com/hongliMurphy/oopt-tai/pkg/fsm"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// ErrShutdownTimeout is returned when module workers do not finish within
// the configured shutdown timeout.
var ErrShutdownTimeout = errors.New("tai: shutdown timeout")

// TransitionHandler receives every accepted transition of every module
// machine the agent runs. Called synchronously from the machine's worker.
type TransitionHandler func(module domain.ObjectID, previous, current fsm.State)

// Agent builds the configured topology on a platform and drives one
// machine worker per module. Each machine is taken through
// INIT -> WAITING_CONFIGURATION -> READY at startup and to END at
// shutdown, using the machines' event channels.
type Agent struct {
	cfg      Config
	platform *platform.Platform
	logger   log.Logger
	handler  TransitionHandler

	mu     sync.Mutex
	ctx    context.Context
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewAgent creates an agent over fresh platform state.
func NewAgent(cfg Config, hw ports.Hardware, logger log.Logger, handler TransitionHandler) *Agent {
	return &Agent{
		cfg:      cfg,
		platform: platform.New(hw, logger),
		logger:   logger,
		handler:  handler,
	}
}

// Platform exposes the agent's platform to the public API layer.
func (a *Agent) Platform() *platform.Platform {
	return a.platform
}

// Start creates the configured modules and brings each to READY.
// The context bounds the lifetime of the module workers.
func (a *Agent) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.ctx = runCtx
	a.cancel = cancel
	a.mu.Unlock()

	for _, loc := range a.cfg.Locations {
		if _, err := a.AddModule(ctx, loc); err != nil {
			cancel()
			return fmt.Errorf("module at location %q: %w", loc, err)
		}
	}
	return nil
}

// AddModule creates one module (and its interfaces, if configured), starts
// its machine worker and drives the machine to READY. Used at startup and
// for hot-plug events.
func (a *Agent) AddModule(ctx context.Context, location string) (domain.ObjectID, error) {
	moduleID, err := a.platform.Create(domain.ObjectTypeModule, 0,
		domain.Attributes{{ID: domain.ModuleAttrLocation, Value: location}})
	if err != nil {
		return 0, err
	}

	m, err := a.platform.Module(moduleID)
	if err != nil {
		return 0, err
	}
	f := m.FSM()

	if a.handler != nil {
		f.OnTransition(func(prev, next fsm.State) {
			a.handler(moduleID, prev, next)
		})
	}

	if a.cfg.CreateInterfaces {
		if _, err := a.platform.Create(domain.ObjectTypeNetIf, moduleID,
			domain.Attributes{{ID: domain.NetIfAttrIndex, Value: 0}}); err != nil {
			return 0, err
		}
		for i := 0; i < domain.NumHostIf; i++ {
			if _, err := a.platform.Create(domain.ObjectTypeHostIf, moduleID,
				domain.Attributes{{ID: domain.HostIfAttrIndex, Value: i}}); err != nil {
				return 0, err
			}
		}
	}

	a.mu.Lock()
	runCtx := a.ctx
	a.mu.Unlock()
	if runCtx == nil {
		runCtx = ctx
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := f.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("module worker stopped",
				log.Stringer("module", moduleID), log.Err(err))
		}
	}()

	if err := a.driveToReady(ctx, f); err != nil {
		return 0, err
	}
	a.logger.Info("module ready", log.Stringer("module", moduleID))
	return moduleID, nil
}

// driveToReady requests the expected startup sequence on the machine's
// event channel and waits for each transition to be accepted.
func (a *Agent) driveToReady(ctx context.Context, f *platform.FSM) error {
	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.StartupTimeout)
	defer cancel()

	for _, s := range []fsm.State{fsm.StateWaitingConfiguration, fsm.StateReady} {
		if err := f.Transit(s); err != nil {
			return err
		}
		if err := f.WaitFor(waitCtx, s); err != nil {
			return fmt.Errorf("waiting for %v: %w", s, err)
		}
	}
	return nil
}

// StopModule requests END on the module's machine and waits for it.
func (a *Agent) StopModule(ctx context.Context, moduleID domain.ObjectID) error {
	f, err := a.platform.FSMOf(moduleID)
	if err != nil {
		return err
	}
	if err := f.Transit(fsm.StateEnd); err != nil {
		if errors.Is(err, fsm.ErrTerminated) {
			return nil
		}
		return err
	}
	return f.WaitFor(ctx, fsm.StateEnd)
}

// Shutdown requests END on every machine and waits for the workers to
// finish, bounded by the configured shutdown timeout.
func (a *Agent) Shutdown(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()

	for _, m := range a.platform.Modules() {
		if err := a.StopModule(waitCtx, m.ID()); err != nil {
			a.logger.Warn("module did not reach END",
				log.Stringer("module", m.ID()), log.Err(err))
		}
	}

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-waitCtx.Done():
		return ErrShutdownTimeout
	}
}
