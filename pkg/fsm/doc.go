// Package fsm provides the lifecycle state machine driving a transponder
// module through hardware readiness.
//
// A machine owns a per-state callback table and a single-slot event
// channel. External actors request transitions with Transit; the machine's
// single worker consumes the request and the callback registered for the
// current state decides the transition actually taken, performing any
// hardware-facing side effects on the way. An optional observer fires
// exactly once per accepted transition. StateEnd is terminal.
//
// # Usage
//
//	f := fsm.New(fsm.WithLogger(logger))
//	f.Handle(fsm.StateInit, initCb)
//	f.Handle(fsm.StateWaitingConfiguration, waitingCb)
//	f.Handle(fsm.StateReady, readyCb)
//	f.OnStateChange(observe)
//
//	go f.Run(ctx)
//	f.Transit(fsm.StateWaitingConfiguration)
//
// One machine is created per module and shared by the module and its
// interfaces. Multiple machines run independently with no shared state.
package fsm
