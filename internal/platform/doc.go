// Package platform implements the basic reference platform: the module,
// network-interface and host-interface entities, the per-module machine
// behavior built on pkg/fsm, and the factory routing creation requests by
// object type.
package platform
