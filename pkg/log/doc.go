// Package log provides the structured logging facade for the TAI library.
//
// Components depend on the Logger interface and typed Field constructors
// rather than a concrete logging library. The zerolog adapter is the
// production implementation; NewNoopLogger returns a silent one for tests
// and for embedders that manage their own logging.
package log
