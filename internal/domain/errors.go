package domain

import "errors"

// Status errors surfaced by the TAI domain. They are returned by the public
// API and can be checked with errors.Is.
var (
	// ErrNotSupported is returned for operations the platform permanently
	// does not implement, such as object removal.
	ErrNotSupported = errors.New("tai: not supported")

	// ErrMandatoryAttributeMissing is returned when entity construction is
	// missing a required attribute. No identity is issued.
	ErrMandatoryAttributeMissing = errors.New("tai: mandatory attribute missing")

	// ErrInvalidParameter is returned when a supplied attribute value is
	// present but malformed.
	ErrInvalidParameter = errors.New("tai: invalid parameter")

	// ErrUninitialized is returned when a hardware-facing accessor is used
	// before the module's machine has reached a configured state. The
	// caller may retry once the machine is ready.
	ErrUninitialized = errors.New("tai: uninitialized")

	// ErrItemNotFound is returned when an identifier resolves to no live
	// entity.
	ErrItemNotFound = errors.New("tai: item not found")

	// ErrItemAlreadyExists is returned when a creation request would reuse
	// an identifier held by a live entity.
	ErrItemAlreadyExists = errors.New("tai: item already exists")

	// ErrAlreadyRunning is returned when Start is called on a running host.
	ErrAlreadyRunning = errors.New("tai: already running")

	// ErrNotRunning is returned when Stop is called on a stopped host.
	ErrNotRunning = errors.New("tai: not running")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("tai: invalid configuration")
)
