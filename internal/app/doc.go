// Package app orchestrates the platform: it builds the configured module
// topology, runs one machine worker per module, and drives the machines
// through their startup and shutdown sequences. The public API in pkg/tai
// wraps this package.
package app
