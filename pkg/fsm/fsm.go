package fsm

import (
	"context"
	"errors"
	"sync"

	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// ErrTerminated is returned by Transit once the machine has reached
// StateEnd.
var ErrTerminated = errors.New("fsm: machine reached terminal state")

// Callback decides the transition out of a state. It receives the current
// state and the opaque user context, may perform hardware-facing side
// effects, and returns the state the machine actually moves to. Returning
// the current state rejects the pending request. A callback that never
// returns stalls its machine; bounding execution time is the callback
// implementer's contract.
type Callback func(current State, user interface{}) State

// StateChangeCallback observes accepted transitions. It is invoked exactly
// once per transition, after the deciding callback returned and before the
// machine acts on the new state.
type StateChangeCallback func(prev, next State, user interface{})

// ConfiguredFunc reports whether a state counts as "configured", meaning
// attribute access against hardware is valid.
type ConfiguredFunc func(State) bool

// FSM is a single-worker lifecycle machine driven by a per-state callback
// table.
//
// The machine transitions only through its own callbacks: an external actor
// requests a transition with Transit, the owning worker (Run, or a manual
// Step driver) consumes the request and invokes the callback registered for
// the current state, and the callback decides the actual next state. If no
// callback is registered for a state the machine moves unconditionally to
// StateEnd on its next step.
//
// The machine is not internally thread-safe beyond its stated contract: a
// single worker consumes events and steps the machine, while Transit,
// State, NextState and Configured may be called from any goroutine.
type FSM struct {
	mu        sync.Mutex
	state     State
	requested State
	callbacks map[State]Callback
	observer  StateChangeCallback

	// event is the single-slot channel signalling a pending transition
	// request. Writers never block; repeated requests before the worker
	// wakes coalesce into the most recent one.
	event chan struct{}

	configured ConfiguredFunc
	user       interface{}
	logger     log.Logger
}

// Option configures a machine at construction time.
type Option func(*FSM)

// WithLogger sets the logger used for transition logging.
func WithLogger(logger log.Logger) Option {
	return func(f *FSM) { f.logger = logger }
}

// WithContext sets the opaque user context passed to every callback.
func WithContext(user interface{}) Option {
	return func(f *FSM) { f.user = user }
}

// WithConfiguredFunc overrides the predicate behind Configured. The default
// reports true for StateReady and every state beyond it.
func WithConfiguredFunc(fn ConfiguredFunc) Option {
	return func(f *FSM) { f.configured = fn }
}

// New creates a machine in StateInit. Register callbacks with Handle and
// the observer with OnStateChange before driving it.
func New(opts ...Option) *FSM {
	f := &FSM{
		state:      StateInit,
		requested:  StateInit,
		callbacks:  make(map[State]Callback),
		event:      make(chan struct{}, 1),
		configured: func(s State) bool { return s >= StateReady },
		logger:     log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Handle registers the transition callback for a state.
func (f *FSM) Handle(s State, cb Callback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks[s] = cb
}

// OnStateChange registers the observer invoked on every accepted transition.
func (f *FSM) OnStateChange(cb StateChangeCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observer = cb
}

// State returns the current state.
func (f *FSM) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// NextState returns the most recently requested next state. Callbacks read
// it to learn what transition is being asked for.
func (f *FSM) NextState() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requested
}

// Configured reports whether the machine has progressed at least to a state
// where hardware attribute access is valid.
func (f *FSM) Configured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configured(f.state)
}

// Transit requests a transition to the given state and wakes the worker.
// It is the only operation safe to invoke from outside the worker. The
// request is advisory: the state callback decides whether to honor it.
// Returns ErrTerminated once the machine has reached StateEnd.
func (f *FSM) Transit(next State) error {
	f.mu.Lock()
	if f.state == StateEnd {
		f.mu.Unlock()
		return ErrTerminated
	}
	f.requested = next
	f.mu.Unlock()

	select {
	case f.event <- struct{}{}:
	default:
	}
	return nil
}

// Event exposes the readable side of the event channel for workers that
// multiplex the machine with other signals in a select.
func (f *FSM) Event() <-chan struct{} {
	return f.event
}

// Step runs one iteration of the transition protocol: look up the callback
// for the current state (no callback means StateEnd), invoke it, and on an
// accepted transition fire the observer and then commit the new state.
// Step must only be called by the machine's single worker. It returns the
// state the machine is in afterwards.
func (f *FSM) Step() State {
	f.mu.Lock()
	current := f.state
	cb := f.callbacks[current]
	user := f.user
	f.mu.Unlock()

	if current == StateEnd {
		return current
	}

	next := StateEnd
	if cb != nil {
		next = cb(current, user)
	}
	if next == current {
		return current
	}

	f.mu.Lock()
	observer := f.observer
	f.mu.Unlock()
	if observer != nil {
		observer(current, next, user)
	}

	f.mu.Lock()
	f.state = next
	f.mu.Unlock()

	f.logger.Debug("fsm transition",
		log.Stringer("from", current),
		log.Stringer("to", next),
	)
	return next
}

// Run drives the machine until it reaches StateEnd or the context is
// canceled. It blocks waiting for transition requests and executes one Step
// per consumed event.
func (f *FSM) Run(ctx context.Context) error {
	for {
		if f.State() == StateEnd {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.event:
			if f.Step() == StateEnd {
				return nil
			}
		}
	}
}
