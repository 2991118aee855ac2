// Package domain holds the entity-independent core of the TAI model: the
// object identity codec, the attribute set handed to constructors, the
// fixed hardware topology constants, and the status errors shared across
// the library. It has no dependencies beyond the standard library so every
// other package can import it freely.
package domain
