// Package tai is the embeddable entry point of the platform library. It
// wires the object factory, the per-module state machines and the hardware
// boundary behind a single Host type.
//
// A minimal embedding:
//
//	host, err := tai.New(tai.DefaultConfig(), tai.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := host.Start(ctx); err != nil {
//		return err
//	}
//	defer host.Stop(context.Background())
//
// Start creates a module per configured location, drives each machine
// through WAITING_CONFIGURATION to READY, and initializes registered
// plugins. Attribute access such as SetTxDis is rejected with
// ErrUninitialized until the owning machine reaches READY.
package tai
