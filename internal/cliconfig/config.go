package cliconfig

import (
	"fmt"
	"strings"
	"time"
)

// Config holds CLI configuration for taid.
type Config struct {
	// Locations of the modules to manage, each parsing to a module index.
	Locations []string

	// PresenceDir enables the presence plugin when non-empty.
	PresenceDir string

	// CreateInterfaces controls creation of the fixed interfaces under
	// each module.
	CreateInterfaces bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	StartupTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Locations:        []string{"0", "1", "2", "3"},
		CreateInterfaces: true,
		LogLevel:         "info",
		StartupTimeout:   30 * time.Second,
		ShutdownTimeout:  30 * time.Second,
	}
}

// Validate checks the configuration for errors. Topology constraints on
// the locations themselves are validated by the library at start.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if c.StartupTimeout <= 0 {
		return fmt.Errorf("startup timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStringSlice sets a slice value if non-empty and flag not changed.
func (s *configSetter) setStringSlice(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses and sets a bool value if non-empty and flag not
// changed.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	}
}

// setDuration parses and sets a duration value if non-empty and flag not
// changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", flag, err)
	}
	*dst = d
	return nil
}
